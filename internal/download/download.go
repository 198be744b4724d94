package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"courier/internal/classify"
	"courier/internal/fileutil"
)

var (
	// ErrUnsupportedSource marks items whose hosting is policy-excluded.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrHardBlock marks a deliberate, non-transient denial by the source.
	// It ends the current strategy immediately but still allows fallback.
	ErrHardBlock = errors.New("hard block")
)

// Request describes one acquisition target.
type Request struct {
	URL      string
	DestPath string
	MIMEType string
}

// Outcome is the successful result of an acquisition.
type Outcome struct {
	Path     string
	Size     int64
	MIMEType string
}

// Strategy is one way of acquiring the asset.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, req Request) error
}

// Chain tries strategies in order until one produces the file.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewChain builds a chain over the given strategies.
func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// Fetch runs the chain. A hard block or exhaustion of one strategy moves
// on to the next; when every strategy has failed the item's download is a
// failure.
func (c *Chain) Fetch(ctx context.Context, req Request) (Outcome, error) {
	if len(c.strategies) == 0 {
		return Outcome{}, ErrUnsupportedSource
	}

	var lastErr error
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		err := strategy.Fetch(ctx, req)
		if err == nil {
			info, statErr := os.Stat(req.DestPath)
			if statErr != nil {
				return Outcome{}, fmt.Errorf("downloaded file missing: %w", statErr)
			}
			return Outcome{Path: req.DestPath, Size: info.Size(), MIMEType: req.MIMEType}, nil
		}
		lastErr = err
		if errors.Is(err, ErrHardBlock) {
			c.logger.Warn("strategy hard-blocked, falling back", "strategy", strategy.Name(), "error", err)
		} else {
			c.logger.Warn("strategy exhausted, falling back", "strategy", strategy.Name(), "error", err)
		}
		// Partial writes from the failed attempt must not leak into the
		// next strategy's slot.
		_ = fileutil.RemoveIfExists(req.DestPath)
	}
	return Outcome{}, fmt.Errorf("all download strategies failed: %w", lastErr)
}

// ChainFor returns the acquisition chain for a media kind.
func ChainFor(kind classify.Kind, logger *slog.Logger, remux *RemuxStrategy, proxy *ProxyStrategy, impersonate *ImpersonateStrategy) (*Chain, error) {
	switch kind {
	case classify.KindVideo:
		return NewChain(logger, remux), nil
	case classify.KindDocument:
		return NewChain(logger, proxy, impersonate), nil
	default:
		return nil, ErrUnsupportedSource
	}
}
