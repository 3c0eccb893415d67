package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// CircuitBreakerConfig holds configuration for the upstream circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ReadyToTrip function determines when to trip the circuit breaker
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// ClientConfig configures the upstream chat-completion client
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Breaker CircuitBreakerConfig
}

// GroqClient calls the Groq chat-completion API through go-openai and
// guards it with a circuit breaker. It satisfies ports.CompletionClient.
type GroqClient struct {
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewGroqClient creates a new upstream client
func NewGroqClient(cfg ClientConfig, logger *zap.Logger) *GroqClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = DefaultCircuitBreakerConfig("groq")
	}

	oaiConfig := openai.DefaultConfig(cfg.APIKey)
	oaiConfig.BaseURL = baseURL

	breakerCfg := cfg.Breaker
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerCfg.Name,
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip if we have enough requests to make a decision
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// a caller hanging up is not an upstream fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &GroqClient{
		client:  openai.NewClientWithConfig(oaiConfig),
		breaker: breaker,
		logger:  logger,
	}
}

// CreateChatCompletion sends one non-streaming request. When the breaker is
// open it fails fast with gobreaker.ErrOpenState.
func (c *GroqClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("Upstream request rejected by circuit breaker", zap.Error(err))
		}
		return openai.ChatCompletionResponse{}, err
	}

	return result.(openai.ChatCompletionResponse), nil
}

// State reports the breaker state, e.g. for readiness checks
func (c *GroqClient) State() gobreaker.State {
	return c.breaker.State()
}
