package feedback

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic generates feedback with the Claude messages API.
type Anthropic struct {
	client anthropic.Client
	opts   Options
}

// NewAnthropicClient disables the SDK's own retries; WithRetry owns that policy.
func NewAnthropicClient(apiKey, baseURL string) anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return anthropic.NewClient(opts...)
}

func NewAnthropic(client anthropic.Client, opts Options) *Anthropic {
	return &Anthropic{client: client, opts: opts}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) GenerateFeedback(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.opts.Model),
		MaxTokens:   int64(a.opts.MaxTokens),
		Temperature: anthropic.Float(float64(a.opts.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(transcript))),
		},
	})
	if err != nil {
		return "", &Error{Backend: a.Name(), Err: err}
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", &Error{Backend: a.Name(), Err: ErrEmptyFeedback}
	}
	return text, nil
}
