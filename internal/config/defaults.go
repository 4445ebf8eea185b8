package config

import "time"

const (
	// Server defaults
	DefaultHost            = "0.0.0.0"
	DefaultPort            = "4000"
	DefaultEnvironment     = "development"
	DefaultReadTimeout     = 2 * time.Minute
	DefaultWriteTimeout    = 25 * time.Minute
	DefaultIdleTimeout     = 2 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second

	// Upload defaults
	DefaultMaxFileSizeBytes int64 = 25 * 1024 * 1024

	// Storage defaults
	DefaultTmpDir     = "./public/uploads"
	DefaultSweepAfter = time.Hour

	// Transcription defaults
	BackendWhisperCLI    = "whisper_cli"
	BackendWhisperCpp    = "whisper_cpp"
	BackendOpenAI        = "openai"
	BackendWhisperServer = "whisper_server"

	DefaultTranscriptionBackend = BackendWhisperCLI
	DefaultLanguage             = "en"
	DefaultTranscriptionTimeout = 20 * time.Minute
	DefaultWhisperBin           = "whisper"
	DefaultWhisperModel         = "small"
	DefaultOpenAISTTModel       = "whisper-1"
	DefaultFFmpegBin            = "ffmpeg"
	DefaultFFprobeBin           = "ffprobe"

	// Feedback defaults
	BackendGemini    = "gemini"
	BackendAnthropic = "anthropic"

	PolicyDegrade = "degrade"
	PolicyFail    = "fail"

	DefaultFeedbackBackend     = BackendGemini
	DefaultFailurePolicy       = PolicyDegrade
	DefaultGeminiModel         = "gemini-1.5-flash"
	DefaultOpenAIChatModel     = "gpt-4o-mini"
	DefaultAnthropicModel      = "claude-3-haiku-20240307"
	DefaultFeedbackTemperature = float32(0.2)
	DefaultFeedbackMaxTokens   = 512
	DefaultFeedbackTimeout     = 60 * time.Second
	DefaultFeedbackMaxRetries  = 1

	// Rate limit defaults, applied per client IP to the /api group
	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 10 * time.Minute
)

// DefaultAllowedMime is the upload allow-set used when ALLOWED_MIME is unset.
var DefaultAllowedMime = []string{
	"audio/webm",
	"audio/wav",
	"audio/ogg",
	"audio/mpeg",
	"audio/mp3",
	"audio/mp4",
	"audio/m4a",
}

// Defaults returns a configuration populated only with built-in defaults.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:              DefaultHost,
			Port:              DefaultPort,
			Environment:       DefaultEnvironment,
			ReadTimeout:       DefaultReadTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
			CORSAllowOrigins:  []string{"*"},
			IncludeTranscript: true,
		},
		Upload: Upload{
			MaxFileSizeBytes: DefaultMaxFileSizeBytes,
			AllowedMime:      append([]string(nil), DefaultAllowedMime...),
		},
		Storage: Storage{
			Dir:        DefaultTmpDir,
			SweepAfter: DefaultSweepAfter,
		},
		Transcription: Transcription{
			Backend:      DefaultTranscriptionBackend,
			Language:     DefaultLanguage,
			Timeout:      DefaultTranscriptionTimeout,
			WhisperBin:   DefaultWhisperBin,
			WhisperModel: DefaultWhisperModel,
			FFmpegBin:    DefaultFFmpegBin,
			FFprobeBin:   DefaultFFprobeBin,
			OpenAIModel:  DefaultOpenAISTTModel,
		},
		Feedback: Feedback{
			Backend:        DefaultFeedbackBackend,
			FailurePolicy:  DefaultFailurePolicy,
			Temperature:    DefaultFeedbackTemperature,
			MaxTokens:      DefaultFeedbackMaxTokens,
			Timeout:        DefaultFeedbackTimeout,
			MaxRetries:     DefaultFeedbackMaxRetries,
			GeminiModel:    DefaultGeminiModel,
			OpenAIModel:    DefaultOpenAIChatModel,
			AnthropicModel: DefaultAnthropicModel,
		},
		RateLimit: RateLimit{
			Enabled:  true,
			Requests: DefaultRateLimitRequests,
			Window:   DefaultRateLimitWindow,
		},
		Log: Log{
			Development: true,
		},
	}
}
