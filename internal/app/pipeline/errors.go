package pipeline

import (
	"errors"
	"fmt"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/feedback"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/transcribe"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

// Stage is a step of a pipeline run.
type Stage string

const (
	StageReceived    Stage = "received"
	StageValidated   Stage = "validated"
	StageStored      Stage = "stored"
	StageTranscribed Stage = "transcribed"
	StageSanitized   Stage = "sanitized"
	StageFedBack     Stage = "fed_back"
	StageResponded   Stage = "responded"
)

// Kind is the externally visible failure classification.
type Kind string

const (
	KindMissingPayload       Kind = "MissingPayload"
	KindUnsupportedMediaType Kind = "UnsupportedMediaType"
	KindPayloadTooLarge      Kind = "PayloadTooLarge"
	KindTranscriptionFailed  Kind = "TranscriptionFailed"
	KindEmptyTranscript      Kind = "EmptyTranscript"
	KindFeedbackFailed       Kind = "FeedbackFailed"
	KindInternalError        Kind = "InternalError"
)

// ErrEmptyTranscript is the cause recorded when sanitizing leaves nothing.
var ErrEmptyTranscript = errors.New("empty transcript")

// Error is a failed run: the stage that could not be reached, the
// classification and the underlying cause.
type Error struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline failed at %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification of err, defaulting to InternalError.
func KindOf(err error) Kind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindInternalError
}

func classify(stage Stage, err error) Kind {
	var rejectErr *upload.RejectError
	switch {
	case errors.As(err, &rejectErr):
		return Kind(rejectErr.Kind)
	case errors.Is(err, ErrEmptyTranscript):
		return KindEmptyTranscript
	case errors.Is(err, transcribe.ErrTranscriptionFailed), stage == StageTranscribed:
		return KindTranscriptionFailed
	case errors.Is(err, feedback.ErrFeedbackFailed), stage == StageFedBack:
		return KindFeedbackFailed
	default:
		return KindInternalError
	}
}
