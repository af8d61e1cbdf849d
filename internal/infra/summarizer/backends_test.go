package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"quickmind/internal/domain/entity"
	"quickmind/internal/resilience/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestClaude_Transform(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		seen = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "A cohesive summary."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	p, err := NewClaude(ClaudeConfig{APIKey: "test-key", Model: "claude-test", BaseURL: srv.URL}, fastConfig())
	require.NoError(t, err)
	p.retryConfig = fastRetry()

	out, err := p.Transform(context.Background(), entity.Task{Instruction: "Summarize.", Input: "Long text"})
	require.NoError(t, err)
	assert.Equal(t, "A cohesive summary.", out)

	assert.Equal(t, "claude-test", seen["model"])
	system, ok := seen["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Contains(t, system[0].(map[string]any)["text"], "Summarize.")
	messages := seen["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestClaude_ServerErrorIsRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	}))
	defer srv.Close()

	p, err := NewClaude(ClaudeConfig{APIKey: "k", BaseURL: srv.URL}, fastConfig())
	require.NoError(t, err)
	p.retryConfig = fastRetry()

	_, err = p.Transform(context.Background(), entity.Task{Input: "x"})
	require.Error(t, err)
	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClaude_ProbeRequiresKey(t *testing.T) {
	p, err := NewClaude(ClaudeConfig{}, fastConfig())
	require.NoError(t, err)
	assert.Error(t, p.Probe(context.Background()))
}

func TestOpenAI_Transform(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		seen = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-test",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Résumé."}, "finish_reason": "stop"}]
		}`)
	}))
	defer srv.Close()

	p, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", Model: "gpt-test", BaseURL: srv.URL + "/v1"}, fastConfig())
	require.NoError(t, err)

	out, err := p.Transform(context.Background(), entity.Task{
		Kind:        entity.TaskTranslate,
		Instruction: "Translate the following text from English to French. Output only the translation.",
		Input:       "Summary.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Résumé.", out)

	messages := seen["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Translate the following text from English to French. Output only the translation.", messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, "Summary.", messages[1].(map[string]any)["content"])
}

func TestOpenAI_UnauthorizedIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	p, err := NewOpenAI(OpenAIConfig{APIKey: "bad", BaseURL: srv.URL + "/v1"}, fastConfig())
	require.NoError(t, err)
	p.retryConfig = fastRetry()

	_, err = p.Transform(context.Background(), entity.Task{Input: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOllama_Transform(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		seen = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama-test","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"Local summary."},"done":true}`+"\n")
	}))
	defer srv.Close()

	p, err := NewOllama(OllamaConfig{ServerURL: srv.URL, Model: "llama-test"}, fastConfig())
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p.Provider())

	out, err := p.Transform(context.Background(), entity.Task{Instruction: "Summarize.", Input: "Text"})
	require.NoError(t, err)
	assert.Equal(t, "Local summary.", out)

	assert.Equal(t, "llama-test", seen["model"])
	messages := seen["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Text", messages[1].(map[string]any)["content"])
}

func TestClassifyOllamaError(t *testing.T) {
	assert.True(t, retry.IsRetryable(classifyOllamaError(errors.New("error loading model"))))
	assert.False(t, retry.IsRetryable(classifyOllamaError(errors.New("model not found"))))
}

func TestNew_SelectsProvider(t *testing.T) {
	tests := []struct {
		provider Provider
		want     Provider
	}{
		{provider: ProviderNoOp, want: ProviderNoOp},
		{provider: ProviderOllama, want: ProviderOllama},
		{provider: "", want: ProviderOllama},
		{provider: ProviderClaude, want: ProviderClaude},
		{provider: ProviderOpenAI, want: ProviderOpenAI},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			p, err := New(Settings{Provider: tt.provider, Common: fastConfig()})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Provider())
		})
	}

	_, err := New(Settings{Provider: "gemini", Common: fastConfig()})
	assert.Error(t, err)
}
