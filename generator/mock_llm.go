package generator

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	resp := IdeasResponse{
		Idea1: sampleIdea(1, "El error que todos cometen"),
		Idea2: sampleIdea(2, "3 señales de que necesitas esto"),
		Idea3: sampleIdea(3, "POV: descubres nuestro secreto"),
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func sampleIdea(n int, title string) PostIdea {
	return PostIdea{
		Title: title,
		Script: Script{
			Hook: Hook{
				Text:             fmt.Sprintf("Gancho de ejemplo #%d: deja de hacer scroll.", n),
				ImageSearchQuery: "persona sorprendida mirando celular",
			},
			Development:  "Muestra el producto en uso y explica **un beneficio concreto**.",
			CallToAction: "Guarda este video y comenta \"QUIERO\".",
		},
		Hashtags:         []string{"emprendedores", "reels", "tips", "instagram", "negocios"},
		VisualSuggestion: "Plano cercano en el gancho, cortes rápidos en el desarrollo y texto en pantalla en el CTA. Edita en CapCut.",
	}
}
