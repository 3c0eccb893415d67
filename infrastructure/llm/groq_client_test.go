package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGroqClient_CreateChatCompletion(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","model":"llama-3.3-70b-versatile",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Try robotics."},"finish_reason":"stop"}]}`))
	})

	client := NewGroqClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())

	resp, err := client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:               "llama-3.3-70b-versatile",
		Messages:            []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		Temperature:         0.5,
		TopP:                1,
		MaxCompletionTokens: 1024,
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Try robotics.", resp.Choices[0].Message.Content)

	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.Equal(t, 1024, got.MaxCompletionTokens)
	assert.False(t, got.Stream)
}

func TestGroqClient_UpstreamErrorStatus(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	})

	client := NewGroqClient(ClientConfig{APIKey: "bad", BaseURL: srv.URL}, zap.NewNop())

	_, err := client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{Model: "m"})
	require.Error(t, err)

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
}

func TestGroqClient_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := NewGroqClient(ClientConfig{
		APIKey:  "k",
		BaseURL: srv.URL,
		Breaker: CircuitBreakerConfig{
			Name:             "test",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 0.5,
			MinRequests:      2,
		},
	}, zap.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{Model: "m"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{Model: "m"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach upstream")
}
