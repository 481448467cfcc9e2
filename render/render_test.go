package render

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reel_idea_generator/generator"
)

func sampleIdeas(t *testing.T) []generator.PostIdea {
	t.Helper()
	raw, err := generator.MockLLM{}.Complete(context.Background(), generator.Prompt{})
	require.NoError(t, err)
	resp, err := generator.ParseIdeas(raw)
	require.NoError(t, err)
	return resp.Ideas()
}

func TestImageSearchURL(t *testing.T) {
	got := ImageSearchURL(" persona sorprendida & feliz ")
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", u.Host)
	assert.Equal(t, "/search", u.Path)
	assert.Equal(t, "isch", u.Query().Get("tbm"))
	assert.Equal(t, "persona sorprendida & feliz", u.Query().Get("q"))
}

func TestHashtags(t *testing.T) {
	got := Hashtags([]string{"emprendedores", "#reels", "##tips", "  ", "moda vintage"})
	assert.Equal(t, []string{"#emprendedores", "#reels", "#tips", "#modavintage"}, got)
}

func TestCardsKeepSlotOrder(t *testing.T) {
	ideas := sampleIdeas(t)
	cards := Cards(ideas)
	require.Len(t, cards, 3)
	for i, c := range cards {
		assert.Equal(t, i+1, c.Number)
		assert.Equal(t, ideas[i].Title, c.Title)
		assert.Equal(t, accents[i], c.Accent)
		for _, tag := range c.Hashtags {
			assert.True(t, strings.HasPrefix(tag, "#"))
		}
	}
}

func TestNewCardRendersMarkdownSafely(t *testing.T) {
	idea := generator.PostIdea{
		Title: "Título",
		Script: generator.Script{
			Hook:         generator.Hook{Text: "Hola", ImageSearchQuery: "taza de café"},
			Development:  "Explica **un beneficio** <script>alert(1)</script>",
			CallToAction: "Comenta *QUIERO*",
		},
		VisualSuggestion: "Usa CapCut",
	}
	c := NewCard(idea, 4)
	assert.Equal(t, 5, c.Number)
	assert.Equal(t, accents[1], c.Accent)
	assert.Contains(t, string(c.Development), "<strong>un beneficio</strong>")
	assert.NotContains(t, string(c.Development), "<script>")
	assert.Contains(t, string(c.CallToAction), "<em>QUIERO</em>")
	assert.Equal(t, ImageSearchURL("taza de café"), c.SearchURL)
	assert.Empty(t, c.Hashtags)
}

func TestMarkdownExport(t *testing.T) {
	ideas := sampleIdeas(t)
	out := Markdown(ideas)
	assert.True(t, strings.HasPrefix(out, "# Ideas de Reels\n"))
	assert.Contains(t, out, "## Idea de Reel #1: El error que todos cometen")
	assert.Contains(t, out, "## Idea de Reel #3: POV: descubres nuestro secreto")
	assert.Contains(t, out, "#emprendedores #reels #tips #instagram #negocios")
	assert.Equal(t, 3, strings.Count(out, "### Sugerencia de Video"))
}
