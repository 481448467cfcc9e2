package render

import (
	"fmt"
	"strings"

	"reel_idea_generator/generator"
)

// Markdown exports the ideas as a Markdown document.
func Markdown(ideas []generator.PostIdea) string {
	var sb strings.Builder
	sb.WriteString("# Ideas de Reels\n")
	for i, idea := range ideas {
		sb.WriteString(fmt.Sprintf("\n## Idea de Reel #%d: %s\n\n", i+1, oneLine(idea.Title)))
		sb.WriteString("### Guion\n\n")
		sb.WriteString(fmt.Sprintf("**Gancho (Hook):** %s\n\n", strings.TrimSpace(idea.Script.Hook.Text)))
		if q := strings.TrimSpace(idea.Script.Hook.ImageSearchQuery); q != "" {
			sb.WriteString(fmt.Sprintf("Imagen de referencia: [%s](%s)\n\n", q, ImageSearchURL(q)))
		}
		sb.WriteString(fmt.Sprintf("**Desarrollo:** %s\n\n", strings.TrimSpace(idea.Script.Development)))
		sb.WriteString(fmt.Sprintf("**Llamado a la Acción (CTA):** %s\n\n", strings.TrimSpace(idea.Script.CallToAction)))
		if tags := Hashtags(idea.Hashtags); len(tags) > 0 {
			sb.WriteString("### Hashtags\n\n")
			sb.WriteString(strings.Join(tags, " "))
			sb.WriteString("\n\n")
		}
		sb.WriteString("### Sugerencia de Video\n\n")
		sb.WriteString(strings.TrimSpace(idea.VisualSuggestion))
		sb.WriteString("\n")
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
