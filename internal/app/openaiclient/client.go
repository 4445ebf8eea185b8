package openaiclient

import (
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

var (
	mu      sync.Mutex
	clients = map[string]*openai.Client{}
)

// Get returns a client for the key/base URL pair. Transcription and feedback
// share the instance when they are configured with the same credentials.
// An empty baseURL keeps the library default.
func Get(apiKey, baseURL string) *openai.Client {
	baseURL = strings.TrimRight(baseURL, "/")
	cacheKey := apiKey + "|" + baseURL

	mu.Lock()
	defer mu.Unlock()

	if c, ok := clients[cacheKey]; ok {
		return c
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c := openai.NewClientWithConfig(cfg)
	clients[cacheKey] = c
	return c
}
