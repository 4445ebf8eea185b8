package feedback

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// Gemini generates feedback with the Gemini API.
type Gemini struct {
	client *genai.Client
	opts   Options
}

// NewGeminiClient creates a Gemini API client. baseURL is only set for
// proxies and tests.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	return genai.NewClient(ctx, cc)
}

func NewGemini(client *genai.Client, opts Options) *Gemini {
	return &Gemini{client: client, opts: opts}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) GenerateFeedback(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.opts.Model, genai.Text(BuildPrompt(transcript)), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.opts.Temperature),
		MaxOutputTokens: int32(g.opts.MaxTokens),
	})
	if err != nil {
		return "", &Error{Backend: g.Name(), Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &Error{Backend: g.Name(), Err: ErrEmptyFeedback}
	}
	return text, nil
}
