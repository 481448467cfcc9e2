package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"reel_idea_generator/controller"
	"reel_idea_generator/generator"
	"reel_idea_generator/history"
)

//go:embed web/templates/*.html web/static/*
var embeddedWeb embed.FS

const (
	visitorCookie  = "reel_visitor"
	visitorMaxAge  = 365 * 24 * 60 * 60
	defaultTimeout = 60 * time.Second
	busyMessage    = "Ya hay una generación en curso. Espera a que termine."
)

// DefaultMaxVisitors caps the controllers kept in memory.
const DefaultMaxVisitors = 1024

// Options tune a Server; zero values pick defaults.
type Options struct {
	Timeout     time.Duration
	Logger      *zap.Logger
	MaxVisitors int
}

type Server struct {
	gen      controller.Generator
	store    *visitorStore
	timeout  time.Duration
	logger   *zap.Logger
	pages    *template.Template
	staticFS http.Handler
}

// visitorStore keeps one controller per visitor id. Controllers are created
// only by write actions and the least recently used ones are dropped past
// the cap; their history stays in the backing store.
type visitorStore struct {
	controllers *lru.Cache[string, *controller.Controller]
	histories   history.Store
}

func newStore(histories history.Store, size int) (*visitorStore, error) {
	cache, err := lru.New[string, *controller.Controller](size)
	if err != nil {
		return nil, err
	}
	return &visitorStore{controllers: cache, histories: histories}, nil
}

// lookup returns the controller of a known visitor without creating one.
func (s *visitorStore) lookup(id string) (*controller.Controller, bool) {
	return s.controllers.Get(id)
}

// get returns the visitor's controller, loading its history on first use.
// The load runs unlocked; a concurrent first request for the same id keeps
// whichever controller was inserted first.
func (s *visitorStore) get(ctx context.Context, id string, gen controller.Generator, logger *zap.Logger) (*controller.Controller, error) {
	if c, ok := s.controllers.Get(id); ok {
		return c, nil
	}
	rec, err := history.NewRecorder(ctx, s.histories, id)
	if err != nil {
		return nil, err
	}
	c, err := controller.New(gen, rec, logger.With(zap.String("visitor", id)))
	if err != nil {
		return nil, err
	}
	if prev, ok, _ := s.controllers.PeekOrAdd(id, c); ok {
		return prev, nil
	}
	return c, nil
}

func New(gen controller.Generator, histories history.Store, opts Options) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}
	if histories == nil {
		return nil, errors.New("history store required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxVisitors <= 0 {
		opts.MaxVisitors = DefaultMaxVisitors
	}
	store, err := newStore(histories, opts.MaxVisitors)
	if err != nil {
		return nil, err
	}

	pages, err := template.New("index.html").Funcs(template.FuncMap{"dict": dict}).
		ParseFS(embeddedWeb, "web/templates/*.html")
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(embeddedWeb, "web/static")
	if err != nil {
		return nil, err
	}

	return &Server{
		gen:      gen,
		store:    store,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		pages:    pages,
		staticFS: http.StripPrefix("/static/", http.FileServer(http.FS(sub))),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/regenerate", s.handleRegenerate)
	mux.HandleFunc("/image-search", s.handleImageSearch)
	mux.HandleFunc("/export.md", s.handleExport)
	mux.HandleFunc("/api/ideas", s.handleAPIIdeas)
	mux.HandleFunc("/api/history", s.handleAPIHistory)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/static/", s.staticFS)
	return s.logMiddleware(mux)
}

// --- Visitors ---

// cookieVisitor returns the id carried by the request cookie, if any.
func cookieVisitor(r *http.Request) (string, bool) {
	c, err := r.Cookie(visitorCookie)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// visitorID returns the id from the cookie, issuing a new one when absent or malformed.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := cookieVisitor(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   visitorMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// controllerFor is used by write actions: it issues a visitor id and creates
// the controller when needed.
func (s *Server) controllerFor(w http.ResponseWriter, r *http.Request) (*controller.Controller, bool) {
	id := visitorID(w, r)
	c, err := s.store.get(r.Context(), id, s.gen, s.logger)
	if err != nil {
		s.logger.Error("load visitor", zap.String("visitor", id), zap.Error(err))
		http.Error(w, "no se pudo cargar tu sesión", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

// viewFor is used by read-only routes and never creates state. A visitor
// without a live controller gets the empty view with its stored history.
func (s *Server) viewFor(r *http.Request) controller.View {
	id, ok := cookieVisitor(r)
	if !ok {
		return controller.View{}
	}
	if c, ok := s.store.lookup(id); ok {
		return c.View()
	}
	h, err := s.store.histories.Load(r.Context(), id)
	if err != nil {
		s.logger.Warn("load history", zap.String("visitor", id), zap.Error(err))
		return controller.View{}
	}
	return controller.View{Suggestions: h}
}

// --- Helpers ---

func formFromRequest(r *http.Request) controller.Form {
	return controller.Form{
		ReferenceLink: r.PostFormValue(controller.FieldReferenceLink),
		Category:      r.PostFormValue(controller.FieldCategory),
		Goal:          r.PostFormValue(controller.FieldGoal),
		Theme:         r.PostFormValue(controller.FieldTheme),
		UserIdea:      r.PostFormValue(controller.FieldUserIdea),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// dict builds a map from alternating keys and values so templates can pass
// several arguments to a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// decodeJSON reads a small JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

type errorResp struct {
	Error string `json:"error"`
}

// statusFor maps a controller error onto an HTTP status.
func statusFor(err error) int {
	var vErr *generator.ValidationError
	var gErr *generator.GenerationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &gErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		if strings.HasPrefix(path, "/static/") {
			return
		}
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
