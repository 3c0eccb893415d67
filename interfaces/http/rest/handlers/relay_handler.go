package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	pkgerrors "skilltree/pkg/errors"
	"skilltree/pkg/utils"
)

// RelayFailureMessage is the fixed body text returned for any upstream failure
const RelayFailureMessage = "Failed to fetch from Groq API"

// Relayer forwards chat messages upstream. services.RelayService implements it.
type Relayer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error)
}

// RelayHandler handles the stateless chat relay endpoint
type RelayHandler struct {
	relay        Relayer
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewRelayHandler creates a new relay handler
func NewRelayHandler(relay Relayer, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{
		relay:        relay,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// ChatMessage is one message of a relay request
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// RelayRequest represents the request body for POST /api/groq
type RelayRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// Relay handles POST /api/groq
func (h *RelayHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var req RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := h.relay.Complete(r.Context(), messages)
	if err != nil {
		// fixed body; the relay service already logged the upstream cause
		respondJSON(w, h.logger, http.StatusInternalServerError, map[string]string{
			"error": RelayFailureMessage,
		})
		return
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}
