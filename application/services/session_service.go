package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"skilltree/application/ports"
	"skilltree/domain/core/aggregates"
	"skilltree/domain/core/entities"
	"skilltree/domain/core/valueobjects"
	"skilltree/domain/events"
	domainservices "skilltree/domain/services"
	pkgerrors "skilltree/pkg/errors"
	"skilltree/pkg/observability"
)

// LabelFetcher produces a node label for a prompt and its context.
// SuggestionService implements it.
type LabelFetcher interface {
	FetchLabel(ctx context.Context, prompt, accumulated string) string
}

// GraphView is a consistent read of one session's canvas
type GraphView struct {
	Nodes          []*entities.Node    `json:"nodes"`
	Edges          []entities.Edge     `json:"edges"`
	SelectedNodeID valueobjects.NodeID `json:"selectedNodeId"`
}

// AddNodeResult describes the node and edge appended by one add
type AddNodeResult struct {
	Node     *entities.Node        `json:"node"`
	Edge     entities.Edge         `json:"edge"`
	Category valueobjects.Category `json:"category"`
}

// SessionService coordinates intake, selection and node additions
type SessionService struct {
	store        ports.SessionStore
	labels       LabelFetcher
	queueTimeout time.Duration
	logger       *zap.Logger
	metrics      *observability.Collector
	treeOpts     []aggregates.TreeOption
}

// NewSessionService creates a new session service. queueTimeout bounds how
// long an add waits behind an earlier add of the same session; zero waits
// for as long as the caller's context allows.
func NewSessionService(
	store ports.SessionStore,
	labels LabelFetcher,
	queueTimeout time.Duration,
	logger *zap.Logger,
	metrics *observability.Collector,
	treeOpts ...aggregates.TreeOption,
) *SessionService {
	return &SessionService{
		store:        store,
		labels:       labels,
		queueTimeout: queueTimeout,
		logger:       logger,
		metrics:      metrics,
		treeOpts:     treeOpts,
	}
}

// StartSession captures the profile and seeds a fresh tree
func (s *SessionService) StartSession(ctx context.Context, interests, academics, skills string) (*aggregates.Session, error) {
	session := aggregates.NewSession(valueobjects.NewProfile(interests, academics, skills), s.treeOpts...)

	logger := s.logger.With(zap.String("sessionID", session.ID().String()))
	session.Tree().Subscribe(func(e events.DomainEvent) {
		if added, ok := e.(events.NodeAdded); ok {
			logger.Debug("Node added",
				zap.String("nodeID", added.NodeID.String()),
				zap.String("parentID", added.ParentID.String()),
				zap.String("category", added.Category.String()),
			)
		}
	})

	if err := s.store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save session")
	}

	logger.Info("Session started")
	return session, nil
}

// GetSession returns a live session
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*aggregates.Session, error) {
	session, err := s.store.Get(ctx, aggregates.SessionID(sessionID))
	if err != nil {
		return nil, err
	}
	session.Touch()
	return session, nil
}

// Graph returns the nodes, edges and selection of a session
func (s *SessionService) Graph(ctx context.Context, sessionID string) (*GraphView, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	nodes, edges := session.Tree().Snapshot()
	return &GraphView{
		Nodes:          nodes,
		Edges:          edges,
		SelectedNodeID: session.Selection(),
	}, nil
}

// SelectNode changes the selection; unknown or malformed ids are rejected
func (s *SessionService) SelectNode(ctx context.Context, sessionID, nodeID string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return session.Select(id)
}

// AddNode classifies the prompt, fetches a label with the accumulated context
// and appends a child of the node selected at submit time. Adds within one session run
// one at a time so each sees the labels of the adds before it.
func (s *SessionService) AddNode(ctx context.Context, sessionID, prompt string) (*AddNodeResult, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// the parent is whatever was selected when the prompt was submitted
	parentID := session.Selection()

	waitCtx := ctx
	if s.queueTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.queueTimeout)
		defer cancel()
	}
	release, err := session.AcquireAdd(waitCtx)
	if err != nil {
		return nil, pkgerrors.NewTimeoutError("add node").WithCause(err)
	}
	defer release()

	tree := session.Tree()
	category := domainservices.Classify(prompt)
	accumulated := domainservices.BuildContext(session.Profile(), tree.Labels())

	label := s.labels.FetchLabel(ctx, prompt, accumulated)

	node, edge, err := tree.AddNode(parentID, label, category)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordNodeAdded(category.String())

	return &AddNodeResult{
		Node:     node,
		Edge:     edge,
		Category: category,
	}, nil
}
