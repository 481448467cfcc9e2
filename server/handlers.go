package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"reel_idea_generator/controller"
	"reel_idea_generator/history"
	"reel_idea_generator/render"
)

type pageData struct {
	View  controller.View
	Cards []render.Card
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view := s.viewFor(r)
	data := pageData{View: view, Cards: render.Cards(view.Ideas)}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.handleFormAction(w, r, func(ctx context.Context, c *controller.Controller) error {
		return c.Submit(ctx, formFromRequest(r))
	})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	s.handleFormAction(w, r, func(ctx context.Context, c *controller.Controller) error {
		return c.Regenerate(ctx)
	})
}

// handleFormAction runs a controller action and redirects back to the page,
// where the new state (ideas or error) is shown.
func (s *Server) handleFormAction(w http.ResponseWriter, r *http.Request, action func(context.Context, *controller.Controller) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, ok := s.controllerFor(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	if err := action(ctx, c); errors.Is(err, controller.ErrBusy) {
		http.Error(w, busyMessage, http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleImageSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, render.ImageSearchURL(q), http.StatusFound)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view := s.viewFor(r)
	if len(view.Ideas) == 0 {
		http.Error(w, "no hay ideas para exportar", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ideas-reels.md"`)
	_, _ = w.Write([]byte(render.Markdown(view.Ideas)))
}

// --- JSON API ---

type ideasResp struct {
	Ideas any `json:"ideas"`
}

func (s *Server) handleAPIIdeas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var form controller.Form
	if err := decodeJSON(w, r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	c, ok := s.controllerFor(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	ideas, err := c.Propose(ctx, form)
	if err != nil {
		msg := controller.Message(err)
		if errors.Is(err, controller.ErrBusy) {
			msg = busyMessage
		}
		writeJSON(w, statusFor(err), errorResp{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, ideasResp{Ideas: ideas})
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	suggestions := s.viewFor(r).Suggestions
	if suggestions == nil {
		suggestions = history.History{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
