package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"skilltree/application/services"
	"skilltree/domain/core/aggregates"
	pkgerrors "skilltree/pkg/errors"
	"skilltree/pkg/utils"
)

// SessionAPI is the subset of services.SessionService used over HTTP
type SessionAPI interface {
	StartSession(ctx context.Context, interests, academics, skills string) (*aggregates.Session, error)
	Graph(ctx context.Context, sessionID string) (*services.GraphView, error)
	SelectNode(ctx context.Context, sessionID, nodeID string) error
	AddNode(ctx context.Context, sessionID, prompt string) (*services.AddNodeResult, error)
}

// SessionHandler handles session, selection and node-addition requests
type SessionHandler struct {
	sessions     SessionAPI
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionAPI, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// StartSessionRequest is the login intake form. Fields may be empty.
type StartSessionRequest struct {
	Interests string `json:"interests" validate:"max=2000"`
	Academics string `json:"academics" validate:"max=2000"`
	Skills    string `json:"skills" validate:"max=2000"`
}

// StartSessionResponse returns the new session with its seeded graph
type StartSessionResponse struct {
	SessionID string              `json:"sessionId"`
	Profile   interface{}         `json:"profile"`
	Graph     *services.GraphView `json:"graph"`
}

// SelectNodeRequest represents the request body for changing the selection
type SelectNodeRequest struct {
	NodeID string `json:"nodeId" validate:"required"`
}

// AddNodeRequest represents the request body for adding a suggestion node
type AddNodeRequest struct {
	Prompt string `json:"prompt" validate:"max=2000"`
}

// StartSession handles POST /api/sessions
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.sessions.StartSession(r.Context(), req.Interests, req.Academics, req.Skills)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	graph, err := h.sessions.Graph(r.Context(), session.ID().String())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, StartSessionResponse{
		SessionID: session.ID().String(),
		Profile:   session.Profile(),
		Graph:     graph,
	})
}

// GetGraph handles GET /api/sessions/{sessionID}/graph
func (h *SessionHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.sessions.Graph(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, graph)
}

// SelectNode handles PUT /api/sessions/{sessionID}/selection
func (h *SessionHandler) SelectNode(w http.ResponseWriter, r *http.Request) {
	var req SelectNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.SelectNode(r.Context(), sessionID, req.NodeID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"selectedNodeId": req.NodeID,
	})
}

// AddNode handles POST /api/sessions/{sessionID}/nodes
func (h *SessionHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req AddNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.sessions.AddNode(r.Context(), chi.URLParam(r, "sessionID"), req.Prompt)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, result)
}

func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return false
	}
	return true
}
