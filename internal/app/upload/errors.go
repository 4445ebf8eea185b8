package upload

import "fmt"

// RejectKind classifies why an upload was refused before any byte was stored.
type RejectKind string

const (
	KindMissingPayload       RejectKind = "MissingPayload"
	KindUnsupportedMediaType RejectKind = "UnsupportedMediaType"
	KindPayloadTooLarge      RejectKind = "PayloadTooLarge"
)

// RejectError is returned by the validator and by stores enforcing the size cap.
type RejectError struct {
	Kind   RejectKind
	Detail string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("upload rejected (%s): %s", e.Kind, e.Detail)
}

// Reject builds a RejectError with a formatted detail.
func Reject(kind RejectKind, format string, args ...any) *RejectError {
	return &RejectError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
