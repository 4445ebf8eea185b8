package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/openaiclient"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

// Generator produces English-coaching feedback for a sanitized transcript.
type Generator interface {
	Name() string
	GenerateFeedback(ctx context.Context, transcript string) (string, error)
}

const (
	// EmptyFallbackMessage is returned under the degrade policy when the model answers with nothing.
	EmptyFallbackMessage = "I could not generate feedback right now. Please try again."
	// ErrorFallbackMessage is returned under the degrade policy when the model call fails.
	ErrorFallbackMessage = "Something went wrong while generating feedback."
)

var (
	// ErrFeedbackFailed matches every backend failure via errors.Is.
	ErrFeedbackFailed = errors.New("feedback generation failed")
	// ErrEmptyFeedback is wrapped when the model returns no text.
	ErrEmptyFeedback = errors.New("model returned no feedback")
)

// Error wraps a backend failure.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s feedback failed: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrFeedbackFailed }

// Options are the generation parameters shared by every backend.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// New builds the configured backend and wraps it with retries and, under the
// degrade policy, the fallback decorator.
func New(ctx context.Context, cfg config.Feedback, logger *zap.Logger) (Generator, error) {
	logger = logger.Named("feedback")
	opts := Options{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}

	var gen Generator
	switch cfg.Backend {
	case config.BackendGemini:
		opts.Model = cfg.GeminiModel
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		gen = NewGemini(client, opts)
	case config.BackendOpenAI:
		opts.Model = cfg.OpenAIModel
		gen = NewOpenAI(openaiclient.Get(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), opts)
	case config.BackendAnthropic:
		opts.Model = cfg.AnthropicModel
		gen = NewAnthropic(NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL), opts)
	default:
		return nil, fmt.Errorf("unknown feedback backend %q", cfg.Backend)
	}

	if cfg.MaxRetries > 0 {
		gen = WithRetry(gen, cfg.MaxRetries, logger)
	}
	if cfg.FailurePolicy == config.PolicyDegrade {
		gen = WithFallback(gen, logger)
	}
	return gen, nil
}
