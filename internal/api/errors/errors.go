package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/pipeline"
)

// ErrorKind is the externally visible failure classification.
type ErrorKind string

const (
	KindMissingPayload       ErrorKind = ErrorKind(pipeline.KindMissingPayload)
	KindUnsupportedMediaType ErrorKind = ErrorKind(pipeline.KindUnsupportedMediaType)
	KindPayloadTooLarge      ErrorKind = ErrorKind(pipeline.KindPayloadTooLarge)
	KindTranscriptionFailed  ErrorKind = ErrorKind(pipeline.KindTranscriptionFailed)
	KindEmptyTranscript      ErrorKind = ErrorKind(pipeline.KindEmptyTranscript)
	KindFeedbackFailed       ErrorKind = ErrorKind(pipeline.KindFeedbackFailed)
	KindInternal             ErrorKind = ErrorKind(pipeline.KindInternalError)
	KindRateLimited          ErrorKind = "RateLimited"
	KindNotFound             ErrorKind = "NotFound"
)

// APIError represents a structured API error response
type APIError struct {
	Message   string    `json:"error"`
	Kind      ErrorKind `json:"kind"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindMissingPayload:
		return http.StatusBadRequest
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[ErrorKind]string{
	KindMissingPayload:       "No audio file provided",
	KindUnsupportedMediaType: "Unsupported audio format",
	KindPayloadTooLarge:      "Audio file exceeds the maximum allowed size",
	KindTranscriptionFailed:  "Transcription failed",
	KindEmptyTranscript:      "No speech could be recognized in the recording",
	KindFeedbackFailed:       "Feedback generation failed",
	KindInternal:             "Internal server error",
	KindRateLimited:          "Too many requests, please try again later",
	KindNotFound:             "Not found",
}

// New creates an error of the given kind with its default user-facing message.
func New(kind ErrorKind) *APIError {
	msg, ok := messages[kind]
	if !ok {
		kind, msg = KindInternal, messages[KindInternal]
	}
	return &APIError{Kind: kind, Message: msg}
}

// NewInternalError creates an internal server error
func NewInternalError() *APIError {
	return New(KindInternal)
}

// NewMissingPayloadError is returned when no audio part was uploaded.
func NewMissingPayloadError() *APIError {
	return New(KindMissingPayload)
}

// NewPayloadTooLargeError is returned when the request body exceeds the cap.
func NewPayloadTooLargeError() *APIError {
	return New(KindPayloadTooLarge)
}

// NewRateLimitedError creates a rate limit error
func NewRateLimitedError() *APIError {
	return New(KindRateLimited)
}

// FromError converts any error into an APIError. The message never carries
// the internal error text.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	return New(ErrorKind(pipeline.KindOf(err)))
}
