package generator

import "google.golang.org/genai"

// SlotKeys are the top-level keys of the response, in display order.
var SlotKeys = []string{"idea_1", "idea_2", "idea_3"}

const (
	descTitle       = "Un título llamativo para la publicación."
	descHookText    = "El texto del gancho para los primeros 3 segundos del video. Corto, potente, basado en tendencias virales de TikTok e Instagram."
	descHookQuery   = "Una consulta de búsqueda de imágenes concisa (3-5 palabras) para Google Images que represente el gancho."
	descDevelopment = "El desarrollo del contenido del video, una explicación entretenida y de valor."
	descCTA         = "Un llamado a la acción claro y efectivo para el final del video."
	descHashtags    = "Un array de 5 hashtags relevantes."
	descVisual      = "Una sugerencia visual y de producción para el video, explicando qué mostrar en cada parte del guion."
)

func stringSchema(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func ideaSchema() *genai.Schema {
	hook := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"texto":                      stringSchema(descHookText),
			"busqueda_imagen_referencia": stringSchema(descHookQuery),
		},
		Required: []string{"texto", "busqueda_imagen_referencia"},
	}
	script := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"gancho":     hook,
			"desarrollo": stringSchema(descDevelopment),
			"cta":        stringSchema(descCTA),
		},
		Required: []string{"gancho", "desarrollo", "cta"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"titulo": stringSchema(descTitle),
			"guion":  script,
			"hashtags": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: descHashtags,
			},
			"sugerencia_visual": stringSchema(descVisual),
		},
		Required:         []string{"titulo", "guion", "hashtags", "sugerencia_visual"},
		PropertyOrdering: []string{"titulo", "guion", "hashtags", "sugerencia_visual"},
	}
}

// ResponseSchema is the structured-output schema handed to Gemini.
func ResponseSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(SlotKeys))
	for _, key := range SlotKeys {
		props[key] = ideaSchema()
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         SlotKeys,
		PropertyOrdering: SlotKeys,
	}
}

// JSONSchema is the same contract as a plain JSON Schema document, for
// OpenAI-compatible providers running in strict mode.
func JSONSchema() map[string]any {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	object := func(props map[string]any, required ...string) map[string]any {
		return map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	}
	idea := func() map[string]any {
		hook := object(map[string]any{
			"texto":                      str(descHookText),
			"busqueda_imagen_referencia": str(descHookQuery),
		}, "texto", "busqueda_imagen_referencia")
		script := object(map[string]any{
			"gancho":     hook,
			"desarrollo": str(descDevelopment),
			"cta":        str(descCTA),
		}, "gancho", "desarrollo", "cta")
		return object(map[string]any{
			"titulo": str(descTitle),
			"guion":  script,
			"hashtags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": descHashtags,
			},
			"sugerencia_visual": str(descVisual),
		}, "titulo", "guion", "hashtags", "sugerencia_visual")
	}
	props := make(map[string]any, len(SlotKeys))
	for _, key := range SlotKeys {
		props[key] = idea()
	}
	return object(props, SlotKeys...)
}
