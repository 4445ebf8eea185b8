package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/logging"
)

// Config is the complete, immutable service configuration. It is built once
// at startup and each component receives only the section it needs.
type Config struct {
	Server        Server        `yaml:"server"`
	Upload        Upload        `yaml:"upload"`
	Storage       Storage       `yaml:"storage"`
	Transcription Transcription `yaml:"transcription"`
	Feedback      Feedback      `yaml:"feedback"`
	RateLimit     RateLimit     `yaml:"rate_limit"`
	Log           Log           `yaml:"log"`
}

type Server struct {
	Host              string        `yaml:"host" validate:"required"`
	Port              string        `yaml:"port" validate:"required,numeric"`
	Environment       string        `yaml:"environment" validate:"oneof=development test production"`
	ReadTimeout       time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	CORSAllowOrigins  []string      `yaml:"cors_allow_origins"`
	IncludeTranscript bool          `yaml:"include_transcript"`
}

type Upload struct {
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes" validate:"gt=0"`
	AllowedMime      []string `yaml:"allowed_mime" validate:"min=1,dive,required,contains=/"`
	SniffContent     bool     `yaml:"sniff_content"`
}

type Storage struct {
	Dir        string        `yaml:"dir" validate:"required"`
	SweepAfter time.Duration `yaml:"sweep_after" validate:"gte=0"`
}

type Transcription struct {
	Backend          string        `yaml:"backend" validate:"oneof=whisper_cli whisper_cpp openai whisper_server"`
	Language         string        `yaml:"language" validate:"required"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	WhisperBin       string        `yaml:"whisper_bin"`
	WhisperModel     string        `yaml:"whisper_model"`
	WhisperCppBinary string        `yaml:"whisper_cpp_binary"`
	WhisperCppModel  string        `yaml:"whisper_cpp_model"`
	FFmpegBin        string        `yaml:"ffmpeg_bin"`
	FFprobeBin       string        `yaml:"ffprobe_bin"`
	ServerURL        string        `yaml:"server_url" validate:"omitempty,url"`
	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url" validate:"omitempty,url"`
	OpenAIModel      string        `yaml:"openai_model"`
}

type Feedback struct {
	Backend          string        `yaml:"backend" validate:"oneof=gemini openai anthropic"`
	FailurePolicy    string        `yaml:"failure_policy" validate:"oneof=degrade fail"`
	Temperature      float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens        int           `yaml:"max_tokens" validate:"gt=0"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries       int           `yaml:"max_retries" validate:"gte=0,lte=5"`
	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model"`
	GeminiBaseURL    string        `yaml:"gemini_base_url" validate:"omitempty,url"`
	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url" validate:"omitempty,url"`
	OpenAIModel      string        `yaml:"openai_model"`
	AnthropicAPIKey  string        `yaml:"anthropic_api_key"`
	AnthropicBaseURL string        `yaml:"anthropic_base_url" validate:"omitempty,url"`
	AnthropicModel   string        `yaml:"anthropic_model"`
}

type RateLimit struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests" validate:"gt=0"`
	Window   time.Duration `yaml:"window" validate:"gt=0"`
	RedisURL string        `yaml:"redis_url"`
}

type Log struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// process environment, in that order of precedence (environment wins).
// When path is empty VYAKARANAA_CONFIG is consulted.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = getEnvOrDefault("VYAKARANAA_CONFIG", "")
	}
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	// ${VAR} references let secrets stay out of the file.
	data = []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	s := &c.Server
	s.Host = getEnvOrDefault("HOST", s.Host)
	s.Port = getEnvOrDefault("PORT", s.Port)
	s.Environment = getEnvOrDefault("APP_ENV", s.Environment)
	s.CORSAllowOrigins = getEnvList("CORS_ALLOW_ORIGINS", s.CORSAllowOrigins)
	var err error
	s.IncludeTranscript, err = getEnvBool("RESPONSE_INCLUDE_TRANSCRIPT", s.IncludeTranscript)
	collect(err)
	s.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	collect(err)

	u := &c.Upload
	u.MaxFileSizeBytes, err = getEnvInt64("MAX_FILE_SIZE_BYTES", u.MaxFileSizeBytes)
	collect(err)
	u.AllowedMime = getEnvList("ALLOWED_MIME", u.AllowedMime)
	u.SniffContent, err = getEnvBool("UPLOAD_SNIFF_CONTENT", u.SniffContent)
	collect(err)

	c.Storage.Dir = getEnvOrDefault("TMP_DIR", c.Storage.Dir)
	c.Storage.SweepAfter, err = getEnvDuration("TMP_SWEEP_AFTER", c.Storage.SweepAfter)
	collect(err)

	t := &c.Transcription
	t.Backend = getEnvOrDefault("STT_BACKEND", t.Backend)
	t.Language = getEnvOrDefault("STT_LANGUAGE", t.Language)
	t.Timeout, err = getEnvDuration("STT_TIMEOUT", t.Timeout)
	collect(err)
	t.WhisperBin = getEnvOrDefault("WHISPER_BIN", t.WhisperBin)
	t.WhisperModel = getEnvOrDefault("WHISPER_MODEL", t.WhisperModel)
	t.WhisperCppBinary = getEnvOrDefault("WHISPER_CPP_BINARY", t.WhisperCppBinary)
	t.WhisperCppModel = getEnvOrDefault("WHISPER_CPP_MODEL", t.WhisperCppModel)
	t.FFmpegBin = getEnvOrDefault("FFMPEG_BIN", t.FFmpegBin)
	t.FFprobeBin = getEnvOrDefault("FFPROBE_BIN", t.FFprobeBin)
	t.ServerURL = getEnvOrDefault("WHISPER_SERVER_URL", t.ServerURL)
	t.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", t.OpenAIAPIKey)
	t.OpenAIBaseURL = getEnvOrDefault("OPENAI_BASE_URL", t.OpenAIBaseURL)
	t.OpenAIModel = getEnvOrDefault("STT_OPENAI_MODEL", t.OpenAIModel)

	f := &c.Feedback
	f.Backend = getEnvOrDefault("FEEDBACK_BACKEND", f.Backend)
	f.FailurePolicy = getEnvOrDefault("FEEDBACK_FAILURE_POLICY", f.FailurePolicy)
	f.Temperature, err = getEnvFloat32("FEEDBACK_TEMPERATURE", f.Temperature)
	collect(err)
	f.MaxTokens, err = getEnvInt("FEEDBACK_MAX_TOKENS", f.MaxTokens)
	collect(err)
	f.Timeout, err = getEnvDuration("FEEDBACK_TIMEOUT", f.Timeout)
	collect(err)
	f.MaxRetries, err = getEnvInt("FEEDBACK_MAX_RETRIES", f.MaxRetries)
	collect(err)
	f.GeminiAPIKey = getEnvOrDefault("GEMINI_API_KEY", f.GeminiAPIKey)
	f.GeminiModel = getEnvOrDefault("GEMINI_MODEL", f.GeminiModel)
	f.GeminiBaseURL = getEnvOrDefault("GEMINI_BASE_URL", f.GeminiBaseURL)
	f.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", f.OpenAIAPIKey)
	f.OpenAIBaseURL = getEnvOrDefault("OPENAI_BASE_URL", f.OpenAIBaseURL)
	f.OpenAIModel = getEnvOrDefault("FEEDBACK_OPENAI_MODEL", f.OpenAIModel)
	f.AnthropicAPIKey = getEnvOrDefault("ANTHROPIC_API_KEY", f.AnthropicAPIKey)
	f.AnthropicBaseURL = getEnvOrDefault("ANTHROPIC_BASE_URL", f.AnthropicBaseURL)
	f.AnthropicModel = getEnvOrDefault("ANTHROPIC_MODEL", f.AnthropicModel)

	r := &c.RateLimit
	r.Enabled, err = getEnvBool("RATE_LIMIT_ENABLED", r.Enabled)
	collect(err)
	r.Requests, err = getEnvInt("RATE_LIMIT_REQUESTS", r.Requests)
	collect(err)
	r.Window, err = getEnvDuration("RATE_LIMIT_WINDOW", r.Window)
	collect(err)
	r.RedisURL = getEnvOrDefault("REDIS_URL", r.RedisURL)

	c.Log.Development = c.Log.Development && s.Environment != "production"
	c.Log.Development, err = getEnvBool("LOG_DEVELOPMENT", c.Log.Development)
	collect(err)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Redacted returns a copy that is safe to log: every credential is masked.
func (c Config) Redacted() Config {
	c.Transcription.OpenAIAPIKey = logging.MaskSecret(c.Transcription.OpenAIAPIKey)
	c.Feedback.GeminiAPIKey = logging.MaskSecret(c.Feedback.GeminiAPIKey)
	c.Feedback.OpenAIAPIKey = logging.MaskSecret(c.Feedback.OpenAIAPIKey)
	c.Feedback.AnthropicAPIKey = logging.MaskSecret(c.Feedback.AnthropicAPIKey)
	if c.RateLimit.RedisURL != "" {
		c.RateLimit.RedisURL = "redis://****"
	}
	return c
}
