package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
)

// WhisperCLI runs the openai-whisper command line tool on the artifact and
// reads back the .txt file it produces.
type WhisperCLI struct {
	binary  string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewWhisperCLI(binary, model string, timeout time.Duration, logger *zap.Logger) *WhisperCLI {
	return &WhisperCLI{
		binary:  binary,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

func (w *WhisperCLI) Name() string { return "whisper_cli" }

func (w *WhisperCLI) Transcribe(ctx context.Context, artifact *storage.Artifact, language string) (string, error) {
	if artifact == nil || artifact.Path == "" {
		return "", newError(w.Name(), CodeInput, fmt.Errorf("no artifact"))
	}

	outDir, err := os.MkdirTemp("", "whisper_out_")
	if err != nil {
		return "", newError(w.Name(), CodeExec, fmt.Errorf("create scratch dir: %w", err))
	}
	defer os.RemoveAll(outDir)

	args := []string{
		artifact.Path,
		"--model", w.model,
		"--language", language,
		"--fp16", "False",
		"--task", "transcribe",
		"--output_format", "txt",
		"--output_dir", outDir,
	}

	w.logger.Debug("running whisper",
		zap.String("binary", w.binary),
		zap.String("artifact", artifact.Name),
		zap.String("model", w.model),
	)

	start := time.Now()
	if err := runCommand(ctx, w.Name(), w.timeout, w.binary, args...); err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(filepath.Base(artifact.Path), filepath.Ext(artifact.Path))
	text, err := readOutputFile(filepath.Join(outDir, stem+".txt"))
	if err != nil {
		return "", newError(w.Name(), CodeNoOutput, err)
	}

	w.logger.Debug("whisper finished",
		zap.String("artifact", artifact.Name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// readOutputFile returns the trimmed content of a transcript file. A missing
// file is an error; an engine that produced nothing must not look like silence.
func readOutputFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript output: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
