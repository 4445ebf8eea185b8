package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the requirements of the selected
// backends. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), redactValue(fe)))
			}
		} else {
			errs = append(errs, err)
		}
	}

	errs = append(errs, ValidateTimeout(c.Transcription.Timeout, "transcription"))
	errs = append(errs, ValidateTimeout(c.Feedback.Timeout, "feedback"))

	switch c.Transcription.Backend {
	case BackendWhisperCLI:
		if c.Transcription.WhisperBin == "" {
			errs = append(errs, errors.New("WHISPER_BIN is required for the whisper_cli backend"))
		}
	case BackendWhisperCpp:
		if c.Transcription.WhisperCppBinary == "" || c.Transcription.WhisperCppModel == "" {
			errs = append(errs, errors.New("WHISPER_CPP_BINARY and WHISPER_CPP_MODEL are required for the whisper_cpp backend"))
		}
	case BackendOpenAI:
		errs = append(errs, validateOpenAIKey(c.Transcription.OpenAIAPIKey, c.Transcription.OpenAIBaseURL))
	case BackendWhisperServer:
		if c.Transcription.ServerURL == "" {
			errs = append(errs, errors.New("WHISPER_SERVER_URL is required for the whisper_server backend"))
		}
	}

	switch c.Feedback.Backend {
	case BackendGemini:
		errs = append(errs, ValidateAPIKey(c.Feedback.GeminiAPIKey, "Gemini"))
	case BackendOpenAI:
		errs = append(errs, validateOpenAIKey(c.Feedback.OpenAIAPIKey, c.Feedback.OpenAIBaseURL))
	case BackendAnthropic:
		errs = append(errs, ValidateAPIKey(c.Feedback.AnthropicAPIKey, "Anthropic"))
	}

	errs = append(errs, c.validateSweep())

	return errors.Join(errs...)
}

// validateSweep keeps the stale-upload sweep from removing an artifact that a
// run can still be reading: the window must outlast the longest possible run.
func (c *Config) validateSweep() error {
	if c.Storage.SweepAfter <= 0 {
		return nil
	}
	longest := c.Transcription.Timeout + time.Duration(c.Feedback.MaxRetries+1)*c.Feedback.Timeout
	if c.Storage.SweepAfter <= longest {
		return fmt.Errorf("TMP_SWEEP_AFTER (%v) must be longer than the longest run (%v: STT_TIMEOUT + FEEDBACK_TIMEOUT per attempt)",
			c.Storage.SweepAfter, longest)
	}
	return nil
}

// OpenAI-compatible servers behind a custom base URL issue their own key formats.
func validateOpenAIKey(apiKey, baseURL string) error {
	if baseURL != "" {
		if apiKey == "" {
			return errors.New("OpenAI API key is required")
		}
		return nil
	}
	return ValidateAPIKey(apiKey, "OpenAI")
}

// credentials never show up in validation messages
func redactValue(fe validator.FieldError) any {
	if strings.HasSuffix(fe.Field(), "APIKey") {
		return "****"
	}
	return fe.Value()
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > time.Hour {
		return fmt.Errorf("%s timeout too large (max 1 hour)", name)
	}
	return nil
}

// ValidateAPIKey validates API key presence and format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
	case "Anthropic":
		if !strings.HasPrefix(apiKey, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format: must start with 'sk-ant-'")
		}
	}
	if len(apiKey) < 20 {
		return fmt.Errorf("invalid %s API key format: too short", keyType)
	}

	return nil
}
