package generator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJSON(t *testing.T) string {
	t.Helper()
	raw, err := MockLLM{}.Complete(context.Background(), Prompt{})
	require.NoError(t, err)
	return raw
}

func TestParseIdeasValid(t *testing.T) {
	resp, err := ParseIdeas(validJSON(t))
	require.NoError(t, err)

	ideas := resp.Ideas()
	require.Len(t, ideas, 3)
	assert.Equal(t, "El error que todos cometen", ideas[0].Title)
	assert.Equal(t, "3 señales de que necesitas esto", ideas[1].Title)
	assert.Equal(t, "POV: descubres nuestro secreto", ideas[2].Title)
	assert.Len(t, ideas[0].Hashtags, 5)
	assert.Equal(t, "persona sorprendida mirando celular", ideas[0].Script.Hook.ImageSearchQuery)
}

func TestParseIdeasStripsCodeFence(t *testing.T) {
	resp, err := ParseIdeas("```json\n" + validJSON(t) + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "El error que todos cometen", resp.Idea1.Title)
}

func TestParseIdeasRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":       "   ",
		"not json":    "Lo siento, no puedo ayudar con eso.",
		"array":       `[1,2,3]`,
		"null":        `null`,
		"truncated":   `{"idea_1": {"titulo": "x"`,
		"only fences": "```",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIdeas(raw)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchema), "got %v", err)
		})
	}
}

func TestParseIdeasReportsMissingPath(t *testing.T) {
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(validJSON(t)), &doc))

	script := doc["idea_2"]["guion"].(map[string]any)
	delete(script["gancho"].(map[string]any), "texto")
	delete(doc["idea_3"], "hashtags")

	b, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ParseIdeas(string(b))
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindSchema, genErr.Kind)
	assert.Equal(t, "idea_2.guion.gancho.texto", genErr.Path)
	assert.ErrorIs(t, err, errMissingField)
}

func TestParseIdeasMissingSlot(t *testing.T) {
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(validJSON(t)), &doc))
	delete(doc, "idea_3")
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ParseIdeas(string(b))
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "idea_3", genErr.Path)
}

func TestResponseSchemaDeclaresSlots(t *testing.T) {
	s := ResponseSchema()
	assert.Equal(t, SlotKeys, s.Required)
	for _, key := range SlotKeys {
		idea := s.Properties[key]
		require.NotNil(t, idea, key)
		assert.ElementsMatch(t, []string{"titulo", "guion", "hashtags", "sugerencia_visual"}, idea.Required)
		assert.NotNil(t, idea.Properties["hashtags"].Items)
		assert.ElementsMatch(t, []string{"gancho", "desarrollo", "cta"}, idea.Properties["guion"].Required)
	}

	js := JSONSchema()
	assert.Equal(t, false, js["additionalProperties"])
	assert.Equal(t, SlotKeys, js["required"])
}
