package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Tools runs ffprobe/ffmpeg. Zero values fall back to binaries on PATH.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

func (t Tools) ffmpeg() string {
	if t.FFmpeg == "" {
		return "ffmpeg"
	}
	return t.FFmpeg
}

func (t Tools) ffprobe() string {
	if t.FFprobe == "" {
		return "ffprobe"
	}
	return t.FFprobe
}

// Duration returns the container duration reported by ffprobe.
func (t Tools) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe(), "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	return parseDuration(output)
}

func parseDuration(output []byte) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %v", seconds)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Is16kHzWav reports whether the file already holds 16 kHz PCM, the only
// input whisper.cpp accepts.
func (t Tools) Is16kHzWav(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe(), "-v", "quiet", "-print_format", "json", "-show_streams", path)
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("ffprobe streams: %w", err)
	}
	return is16kHzPCM(output)
}

func is16kHzPCM(output []byte) (bool, error) {
	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return false, fmt.Errorf("parse ffprobe output: %w", err)
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == "16000" {
			return true, nil
		}
	}
	return false, nil
}

// ConvertTo16kHzWav writes a mono 16 kHz PCM copy of input into outDir and
// returns its path. The input is never modified.
func (t Tools) ConvertTo16kHzWav(ctx context.Context, input, outDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	output := filepath.Join(outDir, base+"_16khz.wav")

	cmd := exec.CommandContext(ctx, t.ffmpeg(), "-nostdin", "-y", "-i", input, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", output)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg error: %w, stderr: %s", err, Tail(stderr.String(), 512))
	}
	return output, nil
}

// Tail returns at most n trailing bytes of s, trimmed.
func Tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
