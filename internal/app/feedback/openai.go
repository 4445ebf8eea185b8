package feedback

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAI generates feedback with a chat completion model.
type OpenAI struct {
	client *openai.Client
	opts   Options
}

func NewOpenAI(client *openai.Client, opts Options) *OpenAI {
	return &OpenAI{client: client, opts: opts}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) GenerateFeedback(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(transcript),
			},
		},
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		return "", &Error{Backend: o.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Backend: o.Name(), Err: ErrEmptyFeedback}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Backend: o.Name(), Err: ErrEmptyFeedback}
	}
	return text, nil
}
