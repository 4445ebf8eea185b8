package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type retrying struct {
	next       Generator
	maxRetries int
	backoff    func(attempt int) time.Duration
	logger     *zap.Logger
}

// WithRetry retries failed calls up to maxRetries times with quadratic
// backoff. It stops as soon as ctx is done.
func WithRetry(next Generator, maxRetries int, logger *zap.Logger) Generator {
	return &retrying{
		next:       next,
		maxRetries: maxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * 500 * time.Millisecond
		},
		logger: logger,
	}
}

func (r *retrying) Name() string { return r.next.Name() }

func (r *retrying) GenerateFeedback(ctx context.Context, transcript string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &Error{Backend: r.Name(), Err: ctx.Err()}
			case <-time.After(r.backoff(attempt)):
			}
			r.logger.Debug("retrying feedback call",
				zap.String("backend", r.Name()),
				zap.Int("attempt", attempt),
			)
		}

		text, err := r.next.GenerateFeedback(ctx, transcript)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all retries exhausted for %s: %w", r.Name(), lastErr)
}

type fallback struct {
	next   Generator
	logger *zap.Logger
}

// WithFallback turns every failure into a fixed user-facing message so a
// transcription that succeeded still produces a response.
func WithFallback(next Generator, logger *zap.Logger) Generator {
	return &fallback{next: next, logger: logger}
}

func (f *fallback) Name() string { return f.next.Name() }

func (f *fallback) GenerateFeedback(ctx context.Context, transcript string) (string, error) {
	text, err := f.next.GenerateFeedback(ctx, transcript)
	if err == nil {
		return text, nil
	}

	f.logger.Warn("feedback generation failed, returning fallback message",
		zap.String("backend", f.Name()),
		zap.Error(err),
	)
	if errors.Is(err, ErrEmptyFeedback) {
		return EmptyFallbackMessage, nil
	}
	return ErrorFallbackMessage, nil
}
