package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reel_idea_generator/config"
	"reel_idea_generator/generator"
	"reel_idea_generator/history"
)

func init() {
	logger = zap.NewNop()
}

func TestBuildLLM(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	cfg.LLM.Provider = "mock"
	llm, err := buildLLM(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, generator.MockLLM{}, llm)

	cfg.LLM = &config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"}
	llm, err = buildLLM(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &generator.OpenAILLM{}, llm)

	cfg.LLM = &config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini"}
	_, err = buildLLM(ctx, cfg)
	assert.Error(t, err, "missing api key")

	cfg.LLM = &config.LLMConfig{Provider: "gemini", Model: "gemini-2.5-flash"}
	_, err = buildLLM(ctx, cfg)
	assert.Error(t, err, "missing api key")

	cfg.LLM = &config.LLMConfig{Provider: "claude"}
	_, err = buildLLM(ctx, cfg)
	assert.Error(t, err)

	cfg.LLM = nil
	_, err = buildLLM(ctx, cfg)
	assert.Error(t, err)
}

func TestBuildHistoryStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	cfg.History = config.HistoryConfig{Backend: "memory"}
	store, closeFn, err := buildHistoryStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &history.MemoryStore{}, store)
	closeFn()

	cfg.History = config.HistoryConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "h.db")}
	store, closeFn, err = buildHistoryStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &history.SQLStore{}, store)
	closeFn()

	cfg.History = config.HistoryConfig{Backend: "etcd"}
	_, _, err = buildHistoryStore(ctx, cfg)
	assert.Error(t, err)
}

func TestPrintIdeasJSON(t *testing.T) {
	raw, err := generator.MockLLM{}.Complete(context.Background(), generator.Prompt{})
	require.NoError(t, err)
	resp, err := generator.ParseIdeas(raw)
	require.NoError(t, err)

	genJSON = true
	t.Cleanup(func() { genJSON = false })

	var buf bytes.Buffer
	require.NoError(t, printIdeas(&buf, resp))
	var decoded generator.IdeasResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, resp, decoded)
}

func TestPrintIdeasMarkdown(t *testing.T) {
	raw, err := generator.MockLLM{}.Complete(context.Background(), generator.Prompt{})
	require.NoError(t, err)
	resp, err := generator.ParseIdeas(raw)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printIdeas(&buf, resp))
	assert.Contains(t, buf.String(), "El error que todos cometen")
}
