package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/audio"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

// WhisperCpp runs a whisper.cpp binary. Uploads that are not already 16 kHz
// PCM are converted with ffmpeg into a scratch directory first.
type WhisperCpp struct {
	binary  string
	model   string
	timeout time.Duration
	tools   audio.Tools
	logger  *zap.Logger
}

func NewWhisperCpp(binary, model string, timeout time.Duration, tools audio.Tools, logger *zap.Logger) *WhisperCpp {
	return &WhisperCpp{
		binary:  binary,
		model:   model,
		timeout: timeout,
		tools:   tools,
		logger:  logger,
	}
}

func audioTools(cfg config.Transcription) audio.Tools {
	return audio.Tools{FFmpeg: cfg.FFmpegBin, FFprobe: cfg.FFprobeBin}
}

func (w *WhisperCpp) Name() string { return "whisper_cpp" }

func (w *WhisperCpp) Transcribe(ctx context.Context, artifact *storage.Artifact, language string) (string, error) {
	if artifact == nil || artifact.Path == "" {
		return "", newError(w.Name(), CodeInput, fmt.Errorf("no artifact"))
	}

	// conversion and inference share one deadline
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	scratch, err := os.MkdirTemp("", "whisper_cpp_")
	if err != nil {
		return "", newError(w.Name(), CodeExec, fmt.Errorf("create scratch dir: %w", err))
	}
	defer os.RemoveAll(scratch)

	input := artifact.Path
	ok, err := w.tools.Is16kHzWav(ctx, input)
	if err != nil {
		w.logger.Debug("ffprobe failed, converting anyway", zap.Error(err))
	}
	if !ok {
		input, err = w.tools.ConvertTo16kHzWav(ctx, artifact.Path, scratch)
		if err != nil {
			if ctx.Err() != nil {
				return "", newError(w.Name(), CodeTimeout, fmt.Errorf("conversion did not finish within %s", w.timeout))
			}
			return "", newError(w.Name(), CodeConvert, err)
		}
	}

	outBase := filepath.Join(scratch, "transcript")
	args := []string{
		"-m", w.model,
		"-l", language,
		"-nt",
		"-otxt",
		"-f", input,
		"-of", outBase,
	}

	w.logger.Debug("running whisper.cpp", zap.String("artifact", artifact.Name))

	deadline, _ := ctx.Deadline()
	if err := runCommand(ctx, w.Name(), time.Until(deadline), w.binary, args...); err != nil {
		return "", err
	}

	text, err := readOutputFile(outBase + ".txt")
	if err != nil {
		return "", newError(w.Name(), CodeNoOutput, err)
	}
	return text, nil
}
