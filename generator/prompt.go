package generator

import (
	"strings"
	"text/template"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

const systemPrompt = `Actúa como un asesor de contenido experto para emprendedores en Instagram, especializado en Reels y videos cortos virales que atrapen a la audiencia. Responde exclusivamente en formato JSON.`

// 每条创意需要包含的部分，模板各分支共用。
const ideaInstructions = `- Un título gancho irresistible que genere curiosidad inmediata.
   - Un guion para el Reel pensado para maximizar la retención, dividido en:
     1. Gancho (Hook) para vender: una frase ultra impactante y directa para los primeros 3 segundos, optimizada para anuncios. Debe detener el scroll, filtrar al público ideal y despertar deseo de compra. Inspírate en las tendencias virales más recientes de TikTok e Instagram ("Deja de hacer [error común] si quieres [resultado]", "3 señales de que necesitas [solución]", "POV: tu vida cambia después de descubrir [solución]"). Incluye además una consulta concisa (3-5 palabras) para buscar en Google Imágenes una imagen que ilustre el gancho (ej: 'persona frustrada con computadora').
     2. Desarrollo: contenido de alto valor, dinámico y entretenido, con energía alta.
     3. Llamado a la acción (CTA): una instrucción final imposible de ignorar que fomente la interacción (ej: "comenta la palabra secreta", "guarda esto para no olvidarlo").
   - 5 hashtags relevantes como un array de strings, combinando hashtags de gran alcance con otros del nicho.
   - Una sugerencia visual y de producción: qué se ve en pantalla durante el gancho, el desarrollo y el CTA, audios en tendencia si es posible y herramientas que faciliten la creación (CapCut, InShot, Canva).`

var userTemplate = template.Must(template.New("user").Parse(`El usuario te indicará el rubro de su emprendimiento, su objetivo de comunicación{{if .Theme}}, la temática deseada{{end}}{{if .UserIdea}}, una idea inicial{{end}}{{if .ReferenceLink}} y un video de referencia para inspirarse{{end}}.

Tu tarea es:
{{- if .UserIdea}}
1. El usuario tiene una idea inicial que quiere desarrollar: "{{.UserIdea}}". Úsala como base principal de las 3 propuestas, expandiéndola, mejorándola y dándole formato de Reel viral.
{{- else}}
1. El usuario no ha proporcionado una idea inicial, así que tienes libertad creativa total para proponer conceptos desde cero.
{{- end}}
{{- if .ReferenceLink}}
2. Analiza el video de referencia para entender su estilo, formato, ritmo y tema.
3. Usando la inspiración disponible, genera 3 NUEVAS y ORIGINALES ideas de videos (Reels). Deben capturar la esencia de la referencia pero adaptarse al rubro y objetivo del usuario. No copies el video de referencia.
{{- else}}
2. Genera 3 ideas de videos (Reels) para Instagram.
3. Adapta cada idea al rubro y al objetivo del usuario.
{{- end}}
{{- if .Theme}}
4. La temática principal deseada para el reel es: {{.Theme}}. El tono, el guion y las sugerencias deben alinearse con esta temática.
{{- end}}
{{if .Theme}}5{{else}}4{{end}}. Para cada idea, detalla:
   {{.Instructions}}

Rubro del emprendimiento: {{.Category}}
Objetivo de comunicación: {{.Goal}}
{{- if .ReferenceLink}}
Video de referencia (inspiración): {{.ReferenceLink}}
{{- end}}

Responde exclusivamente en formato JSON con las claves idea_1, idea_2 e idea_3.`))

type promptData struct {
	Request
	Instructions string
}

// BuildPrompt renders the instruction prompt for a request. The reference link,
// theme and user idea each switch their own paragraph on or off.
func BuildPrompt(req Request) Prompt {
	req = req.Normalize()
	var sb strings.Builder
	// The template only reads strings, execution cannot fail on a valid Request.
	_ = userTemplate.Execute(&sb, promptData{Request: req, Instructions: ideaInstructions})
	return Prompt{
		System: systemPrompt,
		User:   sb.String(),
	}
}
