package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNewGeminiLLMRequiresKey(t *testing.T) {
	_, err := NewGeminiLLMFromConfig(context.Background(), nil)
	require.Error(t, err)
	_, err = NewGeminiLLMFromConfig(context.Background(), &LLMSettings{Provider: "gemini"})
	require.Error(t, err)
}

func TestGeminiEmptyReplyIsSchemaViolation(t *testing.T) {
	ts := newGeminiTestServer(t, `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"STOP"}]}`)
	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{
		Provider: "gemini",
		APIKey:   "test-key",
		BaseURL:  ts.URL + "/",
	})
	require.NoError(t, err)

	raw, err := llm.Complete(context.Background(), BuildPrompt(Request{Category: "a", Goal: "b"}))
	require.NoError(t, err)
	assert.Empty(t, raw)

	agent, err := NewAgent(llm, nil)
	require.NoError(t, err)
	_, err = agent.Generate(context.Background(), Request{Category: "a", Goal: "b"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSchema), "got %v", err)
	assert.False(t, IsKind(err, KindTransport))
}

func TestGeminiReturnsStructuredText(t *testing.T) {
	text, err := json.Marshal(validJSON(t))
	require.NoError(t, err)
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":` + string(text) + `}]},"finishReason":"STOP"}]}`
	ts := newGeminiTestServer(t, body)

	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{APIKey: "test-key", BaseURL: ts.URL + "/"})
	require.NoError(t, err)
	agent, err := NewAgent(llm, nil)
	require.NoError(t, err)
	resp, err := agent.Generate(context.Background(), Request{Category: "a", Goal: "b"})
	require.NoError(t, err)
	assert.Len(t, resp.Ideas(), 3)
}
