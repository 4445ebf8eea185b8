package transcribe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/cmdutil"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/logging"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
	stt "github.com/ManojKumarRabidas/Vyakaranaa/internal/app/transcribe"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/transcript"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

var audioFile string

func init() {
	Cmd.Flags().StringVarP(&audioFile, "file", "f", "", "audio file to transcribe")
	_ = Cmd.MarkFlagRequired("file")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe a local file with the configured speech-to-text backend",
	Long: `Transcribe a local file with the configured speech-to-text backend only.

Useful to check a whisper binary, model path or whisper-server URL before
serving. The file is read in place and never copied or deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := logging.NewLogger(cfg.Log.Development, cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()

		transcriber, err := stt.New(cfg.Transcription, logger)
		if err != nil {
			return err
		}

		absPath, err := filepath.Abs(audioFile)
		if err != nil {
			return fmt.Errorf("resolve audio path: %w", err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return fmt.Errorf("audio file not found: %w", err)
		}

		artifact := &storage.Artifact{
			Path:     absPath,
			Name:     filepath.Base(absPath),
			MimeType: upload.MimeForFilename(absPath),
			Size:     info.Size(),
		}

		cmd.PrintErrf("backend: %s\nfile: %s (%.2f MB)\n", transcriber.Name(), artifact.Name, float64(info.Size())/(1024*1024))

		start := time.Now()
		raw, err := transcriber.Transcribe(cmd.Context(), artifact, cfg.Transcription.Language)
		if err != nil {
			return err
		}

		cmd.PrintErrf("elapsed: %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintln(cmd.OutOrStdout(), transcript.Sanitize(raw))
		return nil
	},
}
