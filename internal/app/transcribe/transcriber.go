package transcribe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/openaiclient"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

// Transcriber converts a stored audio artifact into raw text. Implementations
// only read the artifact and must honor ctx cancellation. An empty string
// with a nil error is a legitimate result (silence).
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, artifact *storage.Artifact, language string) (string, error)
}

// ErrTranscriptionFailed matches every adapter failure via errors.Is.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Error carries the backend and a short machine readable code.
type Error struct {
	Backend string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s transcription failed (%s): %v", e.Backend, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrTranscriptionFailed
}

// Timeout reports whether the backend gave up because its deadline passed.
func (e *Error) Timeout() bool {
	return e.Code == CodeTimeout
}

const (
	CodeTimeout     = "timeout"
	CodeCanceled    = "canceled"
	CodeExec        = "exec_failed"
	CodeNoOutput    = "no_output"
	CodeConvert     = "convert_failed"
	CodeRequest     = "request_failed"
	CodeAPI         = "api_error"
	CodeBadResponse = "bad_response"
	CodeInput       = "invalid_input"
)

func newError(backend, code string, err error) *Error {
	return &Error{Backend: backend, Code: code, Err: err}
}

// New binds the configured backend. Exactly one variant is active per process.
func New(cfg config.Transcription, logger *zap.Logger) (Transcriber, error) {
	logger = logger.Named("transcribe")

	switch cfg.Backend {
	case config.BackendWhisperCLI:
		return NewWhisperCLI(cfg.WhisperBin, cfg.WhisperModel, cfg.Timeout, logger), nil
	case config.BackendWhisperCpp:
		return NewWhisperCpp(cfg.WhisperCppBinary, cfg.WhisperCppModel, cfg.Timeout, audioTools(cfg), logger), nil
	case config.BackendOpenAI:
		return NewOpenAI(openaiclient.Get(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), cfg.OpenAIModel, cfg.Timeout), nil
	case config.BackendWhisperServer:
		return NewWhisperServer(cfg.ServerURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Backend)
	}
}
