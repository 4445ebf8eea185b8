package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/cmdutil"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/dto"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

var (
	audioFile string
	mimeType  string
)

func init() {
	Cmd.Flags().StringVarP(&audioFile, "file", "f", "", "audio file to analyze, example: ./testdata/clip.wav")
	Cmd.Flags().StringVarP(&mimeType, "mime", "m", "", "media type of the file (guessed from the extension when omitted)")

	_ = Cmd.MarkFlagRequired("file")
}

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one local recording through the feedback pipeline",
	Long: `Run one local recording through the feedback pipeline and print the JSON
response the API would return.

- The file is copied into the temp dir like an upload and removed afterwards
- Validation, transcription and feedback use the same configuration as serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig(cmd)
		if err != nil {
			return err
		}

		p, cleanup, err := app.InitializePipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		f, err := os.Open(audioFile)
		if err != nil {
			return fmt.Errorf("open audio file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat audio file: %w", err)
		}

		if mimeType == "" {
			mimeType = upload.MimeForFilename(audioFile)
		}

		result, err := p.Run(cmd.Context(), upload.Request{
			Filename:     filepath.Base(audioFile),
			DeclaredMime: mimeType,
			DeclaredSize: info.Size(),
			Body:         f,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dto.AnalyzeResponse{
			FeedbackText: result.FeedbackText,
			Transcript:   result.Transcript,
		})
	},
}
