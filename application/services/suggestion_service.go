package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"skilltree/pkg/observability"
)

// SystemPrompt is the career-guidance persona sent with every suggestion request
const SystemPrompt = "You are a career guidance AI designed to help users explore future opportunities based on their academic background, interests, hobbies, and skills. When a user inputs their information, suggest one possible career path at a time, explaining why it suits them. Display this path as a branching timeline with key milestones and resources. Keep responses brief (one to two sentences) and avoid listing multiple options at once. As users explore, remember past choices to refine recommendations and provide targeted next steps. DO NOT USE MARKDOWN. Make sure each output is different from the previous."

// Placeholder labels used when the upstream does not yield usable text
const (
	NoResponseLabel = "No response"
	ErrorLabel      = "Error fetching response"
)

// Completer sends composed messages upstream. RelayService implements it.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error)
}

// ComposeRequest builds the persona message followed by the user message
// carrying the accumulated context and the prompt.
func ComposeRequest(prompt, accumulated string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: SystemPrompt,
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(
				"Previous input data: %s. User input: %s. Give some advice or potential career opportunities. Keep the response very brief.",
				accumulated, prompt,
			),
		},
	}
}

// ExtractLabel returns the first choice's content, or NoResponseLabel when
// there is no choice or the content is empty. The text is not sanitized.
func ExtractLabel(resp *openai.ChatCompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return NoResponseLabel
	}
	if content := resp.Choices[0].Message.Content; content != "" {
		return content
	}
	return NoResponseLabel
}

// SuggestionService turns a prompt and context into a node label. It never
// returns an error: failures collapse to a placeholder label.
type SuggestionService struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *observability.Collector
}

// NewSuggestionService creates a new suggestion service; timeout <= 0 disables the bound
func NewSuggestionService(
	completer Completer,
	timeout time.Duration,
	logger *zap.Logger,
	metrics *observability.Collector,
) *SuggestionService {
	return &SuggestionService{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
	}
}

// FetchLabel composes the request, waits for the completion and extracts a label
func (s *SuggestionService) FetchLabel(ctx context.Context, prompt, accumulated string) string {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.completer.Complete(ctx, ComposeRequest(prompt, accumulated))
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			reason = "timeout"
		}
		s.metrics.RecordPlaceholder(reason)
		s.logger.Warn("Falling back to placeholder label",
			zap.Error(err),
			zap.String("reason", reason),
		)
		return ErrorLabel
	}

	label := ExtractLabel(resp)
	if label == NoResponseLabel {
		s.metrics.RecordPlaceholder("empty")
	}
	return label
}
