package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Server.Environment = "test"
	cfg.Server.Port = "0"
	cfg.Storage.Dir = t.TempDir()
	cfg.Log.Development = false
	cfg.Log.Level = "error"
	cfg.Feedback.Backend = config.BackendAnthropic
	cfg.Feedback.AnthropicAPIKey = "sk-ant-REDACTED"
	return &cfg
}

func TestInitializeApp(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true

	application, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Same(t, cfg, application.Config)
	assert.Equal(t, cfg.Storage.Dir, application.Store.Dir())

	w := httptest.NewRecorder()
	application.Server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	application.Server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "go_goroutines")
	assert.Contains(t, w.Body.String(), "vyakaranaa_artifacts_in_flight")
}

func TestInitializePipeline(t *testing.T) {
	p, cleanup, err := InitializePipeline(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, p)
}

func TestInitializeAppPropagatesProviderErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.Backend = "carrier-pigeon"

	_, _, err := InitializeApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown transcription backend")

	cfg = testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RedisURL = "not-a-url"
	_, _, err = InitializeApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "parse redis url")
}
