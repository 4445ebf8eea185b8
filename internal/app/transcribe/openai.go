package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
)

// OpenAI is the hosted transcription variant backed by the audio
// transcription endpoint.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAI(client *openai.Client, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAI{client: client, model: model, timeout: timeout}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Transcribe(ctx context.Context, artifact *storage.Artifact, language string) (string, error) {
	if artifact == nil || artifact.Path == "" {
		return "", newError(o.Name(), CodeInput, fmt.Errorf("no artifact"))
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: artifact.Path,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		code := CodeRequest
		var apiErr *openai.APIError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			code = CodeTimeout
		case errors.As(err, &apiErr):
			code = CodeAPI
		}
		return "", newError(o.Name(), code, err)
	}

	return strings.TrimSpace(resp.Text), nil
}
