package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skilltree/application/services"
	"skilltree/domain/core/aggregates"
	"skilltree/infrastructure/persistence/memory"
	"skilltree/pkg/observability"
)

type mockCompletionClient struct {
	mock.Mock
}

func (m *mockCompletionClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:      "chatcmpl-1",
		Object:  "chat.completion",
		Model:   services.DefaultModel,
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}}},
	}
}

type testServer struct {
	handler http.Handler
	client  *mockCompletionClient
	metrics *observability.Collector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	client := new(mockCompletionClient)
	metrics := observability.NewCollector("test")

	store := memory.NewInMemorySessionStore(time.Hour, 0, logger)
	t.Cleanup(func() { store.Close() })

	relay := services.NewRelayService(client, "", logger, metrics)
	suggestions := services.NewSuggestionService(relay, time.Second, logger, metrics)
	sessions := services.NewSessionService(store, suggestions, time.Second, logger, metrics,
		aggregates.WithJitter(func() float64 { return 0 }))

	router := NewRouter(relay, sessions, logger, Options{
		AllowedOrigin: "http://localhost:5173",
		Metrics:       metrics,
	})

	return &testServer{handler: router.Setup(), client: client, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRelay_Success(t *testing.T) {
	srv := newTestServer(t)
	srv.client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(completion("Be a pilot."), nil)

	rec := srv.do(t, http.MethodPost, "/api/groq", `{"messages":[{"role":"user","content":"hi"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp openai.ChatCompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Be a pilot.", resp.Choices[0].Message.Content)
	assert.Equal(t, "chatcmpl-1", resp.ID)
}

func TestRelay_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("dial tcp: refused"))

	rec := srv.do(t, http.MethodPost, "/api/groq", `{"messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch from Groq API"}`, rec.Body.String())
}

func TestRelay_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"messages":`},
		{name: "no messages", body: `{"messages":[]}`},
		{name: "unknown role", body: `{"messages":[{"role":"robot","content":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := srv.do(t, http.MethodPost, "/api/groq", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, true, body["error"])
			assert.Equal(t, "VALIDATION", body["type"])
			assert.NotEmpty(t, body["message"])
			assert.NotEmpty(t, body["request_id"])
			assert.NotContains(t, body, "code")
			srv.client.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		})
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/groq", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/groq", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	srv.client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completion("Try software engineering."), nil)

	rec := srv.do(t, http.MethodPost, "/api/sessions", `{"interests":"games","academics":"CS","skills":"Go"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var started struct {
		SessionID string `json:"sessionId"`
		Profile   struct {
			PreviousData string `json:"previousData"`
		} `json:"profile"`
		Graph struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
			SelectedNodeID string `json:"selectedNodeId"`
		} `json:"graph"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.NotEmpty(t, started.SessionID)
	assert.Equal(t, "games, CS, Go", started.Profile.PreviousData)
	require.Len(t, started.Graph.Nodes, 1)
	assert.Equal(t, "1", started.Graph.SelectedNodeID)

	base := "/api/sessions/" + started.SessionID

	rec = srv.do(t, http.MethodPost, base+"/nodes", `{"prompt":"I like programming"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{
		"node": {"id":"2","position":{"x":700,"y":500},"data":{"label":"Try software engineering. (Tech Path)"}},
		"edge": {"id":"e1-2","source":"1","target":"2"},
		"category": "Tech Path"
	}`, rec.Body.String())

	rec = srv.do(t, http.MethodPut, base+"/selection", `{"nodeId":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPut, base+"/selection", `{"nodeId":"77"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, base+"/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var graph struct {
		Nodes          []json.RawMessage `json:"nodes"`
		Edges          []json.RawMessage `json:"edges"`
		SelectedNodeID string            `json:"selectedNodeId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &graph))
	assert.Len(t, graph.Nodes, 2)
	assert.Len(t, graph.Edges, 1)
	assert.Equal(t, "2", graph.SelectedNodeID)
}

func TestSession_UnknownSession(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/sessions/nope/graph", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["type"])
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestReadiness_Failing(t *testing.T) {
	router := NewRouter(nil, nil, zap.NewNop(), Options{
		AllowedOrigin: "http://localhost:5173",
		Ready:         func() error { return errors.New("circuit open") },
	})

	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
