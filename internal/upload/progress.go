package upload

import (
	"log/slog"

	"github.com/dustin/go-humanize"
)

// ProgressFunc receives transfer progress from the transport.
type ProgressFunc func(sent, total int64)

// Sink converts raw byte counts into bounded-cadence progress lines. It
// holds the last reported percentage itself so duplicate prints for the
// same rounded value are suppressed.
type Sink struct {
	step   int
	last   int
	logger *slog.Logger
}

// NewSink builds a progress sink printing at most once per step percent.
func NewSink(stepPercent int, logger *slog.Logger) *Sink {
	if stepPercent < 1 {
		stepPercent = 10
	}
	return &Sink{step: stepPercent, last: -1, logger: logger}
}

// Report logs the transfer position when it crosses a reporting step.
func (s *Sink) Report(sent, total int64) {
	if total <= 0 {
		return
	}
	percent := int(sent * 100 / total)
	if percent%s.step != 0 || percent == s.last {
		return
	}
	s.last = percent
	s.logger.Info("uploading",
		"pct", percent,
		"sent", humanize.IBytes(uint64(sent)),
		"total", humanize.IBytes(uint64(total)))
}
