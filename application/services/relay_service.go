package services

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"skilltree/application/ports"
	pkgerrors "skilltree/pkg/errors"
	"skilltree/pkg/observability"
)

// Fixed upstream generation parameters
const (
	DefaultModel             = "llama-3.3-70b-versatile"
	RelayTemperature         = 0.5
	RelayTopP                = 1
	RelayMaxCompletionTokens = 1024

	UpstreamServiceName = "groq"
)

// RelayService forwards chat messages to the upstream completion API with
// fixed generation parameters. It holds no per-request state.
type RelayService struct {
	client  ports.CompletionClient
	model   string
	logger  *zap.Logger
	metrics *observability.Collector
	tracer  trace.Tracer
}

// NewRelayService creates a new relay service
func NewRelayService(
	client ports.CompletionClient,
	model string,
	logger *zap.Logger,
	metrics *observability.Collector,
) *RelayService {
	if model == "" {
		model = DefaultModel
	}
	return &RelayService{
		client:  client,
		model:   model,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("skilltree/relay"),
	}
}

// BuildRequest wraps messages in a non-streaming request with the fixed parameters
func (s *RelayService) BuildRequest(messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:               s.model,
		Messages:            messages,
		Temperature:         RelayTemperature,
		TopP:                RelayTopP,
		MaxCompletionTokens: RelayMaxCompletionTokens,
		Stream:              false,
	}
}

// Complete sends messages upstream and returns the completion unmodified.
// Failures are logged and returned as an EXTERNAL AppError.
func (s *RelayService) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "relay.complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.model", s.model),
			attribute.Int("llm.messages", len(messages)),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, s.BuildRequest(messages))
	elapsed := time.Since(start)
	s.metrics.RecordUpstream(elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream request failed")
		s.logger.Error("Error fetching from Groq API",
			zap.Error(err),
			zap.String("model", s.model),
			zap.Duration("duration", elapsed),
		)
		return nil, pkgerrors.NewExternalError(UpstreamServiceName, err)
	}

	span.SetAttributes(attribute.Int("llm.choices", len(resp.Choices)))
	s.logger.Debug("Upstream completion received",
		zap.String("id", resp.ID),
		zap.Int("choices", len(resp.Choices)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", elapsed),
	)

	return &resp, nil
}
