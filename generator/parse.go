package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Wire shapes use pointers so that a missing key can be told apart from an
// empty value.
type wireHook struct {
	Text             *string `json:"texto"`
	ImageSearchQuery *string `json:"busqueda_imagen_referencia"`
}

type wireScript struct {
	Hook         *wireHook `json:"gancho"`
	Development  *string   `json:"desarrollo"`
	CallToAction *string   `json:"cta"`
}

type wireIdea struct {
	Title            *string     `json:"titulo"`
	Script           *wireScript `json:"guion"`
	Hashtags         []string    `json:"hashtags"`
	VisualSuggestion *string     `json:"sugerencia_visual"`
}

// ParseIdeas decodes the model output and checks every required field. It
// never returns a partial result: the first problem fails the whole response.
func ParseIdeas(raw string) (IdeasResponse, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return IdeasResponse{}, schemaError("", errors.New("empty response"))
	}

	var slots map[string]*wireIdea
	if err := json.Unmarshal([]byte(text), &slots); err != nil {
		return IdeasResponse{}, schemaError("", fmt.Errorf("decode json: %w", err))
	}

	ideas := make([]PostIdea, len(SlotKeys))
	for i, key := range SlotKeys {
		w, ok := slots[key]
		if !ok || w == nil {
			return IdeasResponse{}, schemaError(key, errMissingField)
		}
		idea, err := w.toIdea(key)
		if err != nil {
			return IdeasResponse{}, err
		}
		ideas[i] = idea
	}
	return IdeasResponse{Idea1: ideas[0], Idea2: ideas[1], Idea3: ideas[2]}, nil
}

func (w *wireIdea) toIdea(prefix string) (PostIdea, error) {
	missing := func(field string) error {
		return schemaError(prefix+"."+field, errMissingField)
	}
	if w.Title == nil {
		return PostIdea{}, missing("titulo")
	}
	if w.Script == nil {
		return PostIdea{}, missing("guion")
	}
	if w.Script.Hook == nil {
		return PostIdea{}, missing("guion.gancho")
	}
	if w.Script.Hook.Text == nil {
		return PostIdea{}, missing("guion.gancho.texto")
	}
	if w.Script.Hook.ImageSearchQuery == nil {
		return PostIdea{}, missing("guion.gancho.busqueda_imagen_referencia")
	}
	if w.Script.Development == nil {
		return PostIdea{}, missing("guion.desarrollo")
	}
	if w.Script.CallToAction == nil {
		return PostIdea{}, missing("guion.cta")
	}
	if w.Hashtags == nil {
		return PostIdea{}, missing("hashtags")
	}
	if w.VisualSuggestion == nil {
		return PostIdea{}, missing("sugerencia_visual")
	}
	return PostIdea{
		Title: *w.Title,
		Script: Script{
			Hook: Hook{
				Text:             *w.Script.Hook.Text,
				ImageSearchQuery: *w.Script.Hook.ImageSearchQuery,
			},
			Development:  *w.Script.Development,
			CallToAction: *w.Script.CallToAction,
		},
		Hashtags:         w.Hashtags,
		VisualSuggestion: *w.VisualSuggestion,
	}, nil
}

// Some providers wrap JSON in ```json fences even when asked not to.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
