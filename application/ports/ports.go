package ports

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"skilltree/domain/core/aggregates"
)

// CompletionClient is the upstream chat-completion API.
// *openai.Client satisfies it directly.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// SessionStore defines the interface for session persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type SessionStore interface {
	// Save stores or replaces a session
	Save(ctx context.Context, session *aggregates.Session) error

	// Get returns a NOT_FOUND AppError for unknown or evicted ids
	Get(ctx context.Context, id aggregates.SessionID) (*aggregates.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id aggregates.SessionID) error

	// Count returns the number of live sessions
	Count() int

	// EvictIdle drops sessions idle longer than ttl and returns how many were removed
	EvictIdle(ttl time.Duration) int
}
