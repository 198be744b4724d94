package download

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// RemuxStrategy acquires a video by letting ffmpeg pull the source stream
// and remux it into the target container. Both tracks are stream-copied;
// the audio bitstream filter fixes ADTS AAC for MP4. There is no fallback
// for videos: when the tool fails the item fails.
type RemuxStrategy struct {
	binary string
	logger *slog.Logger
}

// NewRemuxStrategy builds the ffmpeg-backed video strategy.
func NewRemuxStrategy(binary string, logger *slog.Logger) *RemuxStrategy {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &RemuxStrategy{binary: binary, logger: logger}
}

// Name identifies the strategy in logs.
func (s *RemuxStrategy) Name() string { return "remux" }

// Fetch runs ffmpeg with stream-copy flags. The tool's diagnostic stream
// is surfaced verbatim on failure.
func (s *RemuxStrategy) Fetch(ctx context.Context, req Request) error {
	args := []string{
		"-i", req.URL,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		req.DestPath,
		"-y",
	}

	s.logger.Info("remuxing source stream", "url", req.URL, "dest", req.DestPath)

	cmd := exec.CommandContext(ctx, s.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg remux: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
