// Package pipeline runs one upload through validation, temporary storage,
// transcription, sanitizing and feedback generation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/feedback"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/transcribe"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/transcript"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

// Result is the outcome of a successful run.
type Result struct {
	FeedbackText string
	Transcript   string
}

// Validator is the subset of *upload.Validator the pipeline needs.
type Validator interface {
	Validate(req upload.Request) (*upload.Admitted, error)
}

type Options struct {
	// Language is passed to the transcriber on every run.
	Language string
}

// Pipeline holds no per-run state; one instance serves concurrent requests.
type Pipeline struct {
	validator   Validator
	store       storage.Store
	transcriber transcribe.Transcriber
	generator   feedback.Generator
	opts        Options
	logger      *zap.Logger
	metrics     *Metrics
}

func New(
	validator Validator,
	store storage.Store,
	transcriber transcribe.Transcriber,
	generator feedback.Generator,
	opts Options,
	logger *zap.Logger,
	metrics *Metrics,
) *Pipeline {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Pipeline{
		validator:   validator,
		store:       store,
		transcriber: transcriber,
		generator:   generator,
		opts:        opts,
		logger:      logger.Named("pipeline"),
		metrics:     metrics,
	}
}

type requestIDKey struct{}

// WithRequestID attaches the request id that is logged with every stage.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Run executes every stage in order. Once an artifact has been stored it is
// released before Run returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, req upload.Request) (result Result, err error) {
	log := p.logger.With(zap.String("request_id", requestID(ctx)))
	runStart := time.Now()
	reached := StageReceived

	defer func() {
		r := recover()
		if r != nil {
			err = &Error{Stage: reached, Kind: KindInternalError, Err: fmt.Errorf("panic: %v", r)}
		}
		p.metrics.observeRun(err)
		if r != nil {
			log.Error("pipeline panicked", zap.Error(err), zap.String("stage", string(reached)))
			panic(r)
		}
		if err != nil {
			log.Error("pipeline failed", zap.Error(err), zap.String("kind", string(KindOf(err))))
			return
		}
		log.Info("pipeline completed", zap.Duration("elapsed", time.Since(runStart)))
	}()

	log.Debug("upload received", zap.String("stage", string(StageReceived)), zap.String("filename", req.Filename))

	t := time.Now()
	admitted, err := p.validator.Validate(req)
	if err != nil {
		return Result{}, p.fail(StageValidated, err)
	}
	reached = StageValidated
	p.advance(log, StageValidated, t)

	t = time.Now()
	artifact, err := p.store.Store(ctx, admitted)
	if err != nil {
		return Result{}, p.fail(StageStored, err)
	}
	p.metrics.inFlight.Inc()
	defer func() {
		// release must happen even when the request context is already gone
		p.store.Release(context.WithoutCancel(ctx), artifact)
		p.metrics.inFlight.Dec()
		log.Debug("artifact released", zap.String("artifact", artifact.Name))
	}()
	reached = StageStored
	p.advance(log, StageStored, t, zap.String("artifact", artifact.Name), zap.Int64("bytes", artifact.Size))

	t = time.Now()
	raw, err := p.transcriber.Transcribe(ctx, artifact, p.opts.Language)
	if err != nil {
		return Result{}, p.fail(StageTranscribed, err)
	}
	reached = StageTranscribed
	p.advance(log, StageTranscribed, t, zap.String("backend", p.transcriber.Name()))

	t = time.Now()
	clean := transcript.Sanitize(raw)
	if transcript.IsEmpty(clean) {
		return Result{}, p.fail(StageSanitized, ErrEmptyTranscript)
	}
	reached = StageSanitized
	p.advance(log, StageSanitized, t, zap.Int("chars", len([]rune(clean))))

	t = time.Now()
	text, err := p.generator.GenerateFeedback(ctx, clean)
	if err != nil {
		return Result{}, p.fail(StageFedBack, err)
	}
	reached = StageFedBack
	p.advance(log, StageFedBack, t, zap.String("backend", p.generator.Name()))

	log.Debug("responding", zap.String("stage", string(StageResponded)))
	return Result{FeedbackText: text, Transcript: clean}, nil
}

func (p *Pipeline) advance(log *zap.Logger, stage Stage, since time.Time, fields ...zap.Field) {
	p.metrics.observeStage(stage, since)
	log.Debug("stage reached", append([]zap.Field{zap.String("stage", string(stage))}, fields...)...)
}

func (p *Pipeline) fail(stage Stage, err error) *Error {
	return &Error{Stage: stage, Kind: classify(stage, err), Err: err}
}
