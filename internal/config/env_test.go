package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeminiKey = "AIzaTest-1234567890abcdef1234567890"

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VYAKARANAA_CONFIG", "HOST", "PORT", "APP_ENV", "CORS_ALLOW_ORIGINS",
		"RESPONSE_INCLUDE_TRANSCRIPT", "SHUTDOWN_TIMEOUT", "MAX_FILE_SIZE_BYTES",
		"ALLOWED_MIME", "UPLOAD_SNIFF_CONTENT", "TMP_DIR", "TMP_SWEEP_AFTER",
		"STT_BACKEND", "STT_LANGUAGE", "STT_TIMEOUT", "WHISPER_BIN", "WHISPER_MODEL",
		"WHISPER_CPP_BINARY", "WHISPER_CPP_MODEL", "FFMPEG_BIN", "FFPROBE_BIN",
		"WHISPER_SERVER_URL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "STT_OPENAI_MODEL",
		"FEEDBACK_BACKEND", "FEEDBACK_FAILURE_POLICY", "FEEDBACK_TEMPERATURE",
		"FEEDBACK_MAX_TOKENS", "FEEDBACK_TIMEOUT", "FEEDBACK_MAX_RETRIES",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "FEEDBACK_OPENAI_MODEL",
		"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "ANTHROPIC_MODEL",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "REDIS_URL",
		"LOG_DEVELOPMENT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", testGeminiKey)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, int64(25*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, DefaultAllowedMime, cfg.Upload.AllowedMime)
	assert.Equal(t, "./public/uploads", cfg.Storage.Dir)
	assert.Equal(t, BackendWhisperCLI, cfg.Transcription.Backend)
	assert.Equal(t, "en", cfg.Transcription.Language)
	assert.Equal(t, BackendGemini, cfg.Feedback.Backend)
	assert.Equal(t, PolicyDegrade, cfg.Feedback.FailurePolicy)
	assert.Equal(t, float32(0.2), cfg.Feedback.Temperature)
	assert.Equal(t, 512, cfg.Feedback.MaxTokens)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Server.IncludeTranscript)
	assert.True(t, cfg.Log.Development)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", testGeminiKey)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MAX_FILE_SIZE_BYTES", "1024")
	t.Setenv("ALLOWED_MIME", " audio/WAV, audio/ogg ,,audio/wav")
	t.Setenv("STT_TIMEOUT", "12000")
	t.Setenv("FEEDBACK_TIMEOUT", "45s")
	t.Setenv("FEEDBACK_FAILURE_POLICY", "fail")
	t.Setenv("RESPONSE_INCLUDE_TRANSCRIPT", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, int64(1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, []string{"audio/wav", "audio/ogg"}, cfg.Upload.AllowedMime)
	assert.Equal(t, 12*time.Second, cfg.Transcription.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Feedback.Timeout)
	assert.Equal(t, PolicyFail, cfg.Feedback.FailurePolicy)
	assert.False(t, cfg.Server.IncludeTranscript)
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", testGeminiKey)
	t.Setenv("ANTHROPIC_KEY_FROM_VAULT", "sk-ant-REDACTED")
	t.Setenv("FEEDBACK_MAX_TOKENS", "300")

	path := filepath.Join(t.TempDir(), "vyakaranaa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "5000"
storage:
  dir: /tmp/vyakaranaa
transcription:
  timeout: 90s
feedback:
  backend: anthropic
  anthropic_api_key: ${ANTHROPIC_KEY_FROM_VAULT}
  max_tokens: 256
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "/tmp/vyakaranaa", cfg.Storage.Dir)
	assert.Equal(t, 90*time.Second, cfg.Transcription.Timeout)
	assert.Equal(t, BackendAnthropic, cfg.Feedback.Backend)
	assert.Equal(t, "sk-ant-REDACTED", cfg.Feedback.AnthropicAPIKey)
	// environment wins over the file
	assert.Equal(t, 300, cfg.Feedback.MaxTokens)
}

func TestLoadRejectsInvalidConfiguration(t *testing.T) {
	testCases := []struct {
		name          string
		env           map[string]string
		errorContains string
	}{
		{
			name:          "missing feedback key",
			env:           map[string]string{},
			errorContains: "Gemini API key is required",
		},
		{
			name:          "unknown transcription backend",
			env:           map[string]string{"GEMINI_API_KEY": testGeminiKey, "STT_BACKEND": "dictaphone"},
			errorContains: "Transcription.Backend",
		},
		{
			name:          "unknown failure policy",
			env:           map[string]string{"GEMINI_API_KEY": testGeminiKey, "FEEDBACK_FAILURE_POLICY": "maybe"},
			errorContains: "FailurePolicy",
		},
		{
			name:          "non numeric size",
			env:           map[string]string{"GEMINI_API_KEY": testGeminiKey, "MAX_FILE_SIZE_BYTES": "big"},
			errorContains: "MAX_FILE_SIZE_BYTES",
		},
		{
			name:          "whisper server without url",
			env:           map[string]string{"GEMINI_API_KEY": testGeminiKey, "STT_BACKEND": "whisper_server"},
			errorContains: "WHISPER_SERVER_URL is required",
		},
		{
			name: "sweep shorter than a run",
			env: map[string]string{
				"GEMINI_API_KEY":  testGeminiKey,
				"TMP_SWEEP_AFTER": "10m",
				"STT_TIMEOUT":     "20m",
			},
			errorContains: "TMP_SWEEP_AFTER",
		},
		{
			name: "openai key without base url keeps the prefix rule",
			env: map[string]string{
				"FEEDBACK_BACKEND": "openai",
				"OPENAI_API_KEY":   "local-token-0123456789abcdef",
			},
			errorContains: "must start with 'sk-'",
		},
		{
			name:          "malformed gemini key",
			env:           map[string]string{"GEMINI_API_KEY": "not-a-gemini-key-at-all"},
			errorContains: "must start with 'AIza'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestLoadAcceptsCompatibleOpenAIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_BACKEND", "openai")
	t.Setenv("FEEDBACK_BACKEND", "openai")
	t.Setenv("OPENAI_API_KEY", "local-token")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local-token", cfg.Feedback.OpenAIAPIKey)
	assert.Equal(t, "local-token", cfg.Transcription.OpenAIAPIKey)
}

func TestSweepWindowMustOutlastRun(t *testing.T) {
	testCases := []struct {
		name    string
		sweep   time.Duration
		wantErr bool
	}{
		{"disabled", 0, false},
		{"longer than run", time.Hour, false},
		{"equal to run", 20*time.Minute + 2*time.Minute, true},
		{"shorter than transcription", 10 * time.Minute, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Transcription.Timeout = 20 * time.Minute
			cfg.Feedback.Timeout = time.Minute
			cfg.Feedback.MaxRetries = 1
			cfg.Storage.SweepAfter = tc.sweep

			err := cfg.validateSweep()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRedactedHidesCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.Feedback.GeminiAPIKey = testGeminiKey
	cfg.Transcription.OpenAIAPIKey = "sk-1234567890abcdef1234567890abcdef"
	cfg.RateLimit.RedisURL = "redis://:secret@cache:6379/0"

	redacted := cfg.Redacted()

	assert.Equal(t, "AIza****", redacted.Feedback.GeminiAPIKey)
	assert.Equal(t, "sk-1****", redacted.Transcription.OpenAIAPIKey)
	assert.Equal(t, "redis://****", redacted.RateLimit.RedisURL)
	// the source config is untouched
	assert.Equal(t, testGeminiKey, cfg.Feedback.GeminiAPIKey)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseList("a, B ,,a"))
	assert.Empty(t, ParseList(" , "))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// godotenv never overrides a variable that already exists, even when empty
	t.Setenv("VYAKARANAA_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("VYAKARANAA_DOTENV_PROBE"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VYAKARANAA_DOTENV_PROBE=from-file\n"), 0o600))

	loaded, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "from-file", os.Getenv("VYAKARANAA_DOTENV_PROBE"))
}
