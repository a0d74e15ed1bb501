package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		require.Equal(t, "system", messages[0].(map[string]any)["role"])

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "gpt-4o-mini",
			"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}}},
			"usage":   map[string]any{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
		})
	}))
}

func TestNewOpenAIChatterRequiresKey(t *testing.T) {
	_, err := NewOpenAIChatter(OpenAIConfig{})
	require.Error(t, err)
}

func TestOpenAIChatterReturnsTrimmedReply(t *testing.T) {
	server := newFakeOpenAI(t, "  Keep practicing graphs!  ", http.StatusOK)
	defer server.Close()

	chatter, err := NewOpenAIChatter(OpenAIConfig{APIKey: "test", BaseURL: server.URL + "/v1", Logger: zerolog.Nop()})
	require.NoError(t, err)

	result, err := chatter.Chat(context.Background(), ChatInput{System: "be kind", Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, "Keep practicing graphs!", result.Reply)
	require.Equal(t, 12, result.PromptTokens)
	require.Equal(t, 5, result.CompletionTokens)
}

func TestOpenAIChatterSurfacesFailures(t *testing.T) {
	server := newFakeOpenAI(t, "", http.StatusInternalServerError)
	defer server.Close()

	chatter, err := NewOpenAIChatter(OpenAIConfig{APIKey: "test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = chatter.Chat(context.Background(), ChatInput{System: "s", Message: "m"})
	require.Error(t, err)
}

func TestOpenAIChatterRejectsEmptyReply(t *testing.T) {
	server := newFakeOpenAI(t, "   ", http.StatusOK)
	defer server.Close()

	chatter, err := NewOpenAIChatter(OpenAIConfig{APIKey: "test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = chatter.Chat(context.Background(), ChatInput{System: "s", Message: "m"})
	require.ErrorIs(t, err, ErrEmptyReply)
}
