package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"courier/internal/classify"
	"courier/internal/config"
	"courier/internal/download"
	"courier/internal/fileutil"
	"courier/internal/finalize"
	"courier/internal/logging"
	"courier/internal/upload"
)

// Runner drives one batch over the shared connection.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	syncer *finalize.Syncer

	remux       *download.RemuxStrategy
	proxy       *download.ProxyStrategy
	impersonate *download.ImpersonateStrategy

	sleep func(context.Context, time.Duration) error
	runID string
}

// New builds a runner with the default acquisition strategies.
func New(cfg *config.Config, logger *slog.Logger, syncer *finalize.Syncer) *Runner {
	timeout := time.Duration(cfg.Worker.RequestTimeout) * time.Second
	downloadLogger := logging.WithComponent(logger, "download")
	return &Runner{
		cfg:         cfg,
		logger:      logger,
		syncer:      syncer,
		remux:       download.NewRemuxStrategy(cfg.FFmpegBinary(), downloadLogger),
		proxy:       download.NewProxyStrategy(cfg.Worker.URL, nil, downloadLogger),
		impersonate: download.NewImpersonateStrategy(timeout, downloadLogger),
		sleep:       sleepCtx,
		runID:       uuid.NewString(),
	}
}

// RunID identifies this batch in logs.
func (r *Runner) RunID() string { return r.runID }

// LockWorkDir takes the exclusive working-directory lock. The directory
// holds a single file slot, so two concurrent runs must never share it.
func (r *Runner) LockWorkDir() (func(), error) {
	lock := flock.New(filepath.Join(r.cfg.Paths.WorkDir, ".courier.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock work dir: %w", err)
	}
	if !locked {
		return nil, errors.New("work dir is locked by another courier run")
	}
	return func() { _ = lock.Unlock() }, nil
}

// Select classifies the manifest and picks the items this run will
// transfer, honoring the per-run cap. Unsupported items are reported but
// never consume a slot.
func Select(items []classify.Plan, cap int) (selected, skipped []classify.Plan) {
	for _, plan := range items {
		if plan.Kind == classify.KindUnsupported {
			skipped = append(skipped, plan)
			continue
		}
		if len(selected) < cap {
			selected = append(selected, plan)
		}
	}
	return selected, skipped
}

// Process runs the pipeline for every selected plan. Errors are contained
// per item; after a cancellation-classified failure the shared transport
// gets one reconnect attempt so a half-open link cannot poison the items
// that follow.
func (r *Runner) Process(ctx context.Context, transport upload.Transport, plans []classify.Plan) {
	cooldown := time.Duration(r.cfg.Transfer.ItemCooldownSeconds * float64(time.Second))

	for i, plan := range plans {
		if ctx.Err() != nil {
			r.logger.Warn("run context finished, stopping batch", "remaining", len(plans)-i)
			return
		}

		r.logger.Info("processing item",
			"index", i+1, "of", len(plans),
			"title", plan.Item.Title, "kind", string(plan.Kind), "dest", plan.Peer.String())

		if err := r.processItem(ctx, transport, plan); err != nil {
			r.logger.Error("item failed, batch continues", "title", plan.Item.Title, "error", err)
			if isCancellation(err) && ctx.Err() == nil {
				if reconnectErr := transport.Reconnect(ctx); reconnectErr != nil {
					r.logger.Warn("reconnect after cancellation failed", "error", reconnectErr)
				}
			}
		}

		if cooldown > 0 && i < len(plans)-1 {
			if err := r.sleep(ctx, cooldown); err != nil {
				return
			}
		}
	}
}

func (r *Runner) processItem(ctx context.Context, transport upload.Transport, plan classify.Plan) (err error) {
	destPath := filepath.Join(r.cfg.Paths.WorkDir, plan.Filename)

	// The working slot is single-occupancy: whatever happens to this item,
	// the file must be gone before the next one starts.
	defer func() {
		if removeErr := fileutil.RemoveIfExists(destPath); removeErr != nil {
			r.logger.Warn("could not remove working file", "path", destPath, "error", removeErr)
		}
	}()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("item pipeline panicked: %v", recovered)
		}
	}()

	chain, err := download.ChainFor(plan.Kind, r.logger, r.remux, r.proxy, r.impersonate)
	if err != nil {
		return err
	}

	r.logger.Info("stage 1: downloading", "url", plan.Item.URL, "file", plan.Filename)
	outcome, err := chain.Fetch(ctx, download.Request{
		URL:      plan.Item.URL,
		DestPath: destPath,
		MIMEType: plan.MIMEType,
	})
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	r.logger.Info("download complete", "bytes", outcome.Size)

	r.logger.Info("stage 2: uploading", "dest", plan.Peer.String())
	uploadLogger := logging.WithComponent(r.logger, "upload")
	manager := upload.NewManager(transport, r.cfg.Transfer.UploadMaxRetries, uploadLogger)
	sink := upload.NewSink(r.cfg.Transfer.ProgressStepPercent, uploadLogger)
	result, err := manager.Upload(ctx, plan.Peer, outcome.Path, plan.Caption(), sink.Report)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	r.logger.Info("upload complete", "message_id", result.MessageID)

	r.logger.Info("stage 3: finalizing")
	if err := r.syncer.Finalize(ctx, plan, outcome.Size, result.MessageID); err != nil {
		return err
	}
	return nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
