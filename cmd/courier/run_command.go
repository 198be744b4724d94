package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"courier/internal/classify"
	"courier/internal/deps"
	"courier/internal/finalize"
	"courier/internal/runner"
	"courier/internal/services/backend"
	"courier/internal/services/telegram"
	"courier/internal/services/worker"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <manifest>",
		Short: "Transfer the manifest's items into Telegram",
		Long: "Run a one-shot batch: download each manifest item, upload it to its\n" +
			"Telegram destination, and record the delivery in the metadata stores.\n" +
			"The manifest is a JSON file path, inline JSON, or - for stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.newLogger()
			if err != nil {
				return err
			}

			items, err := readManifest(cmd, args[0])
			if err != nil {
				return err
			}

			plans := make([]classify.Plan, 0, len(items))
			for _, item := range items {
				plans = append(plans, classify.Classify(item))
			}
			selected, skipped := runner.Select(plans, cfg.Transfer.MaxItemsPerRun)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPlanTable(out, selected, skipped))
			if len(selected) == 0 {
				logger.Info("nothing to transfer")
				return nil
			}

			hasVideo := false
			for _, plan := range selected {
				if plan.Kind == classify.KindVideo {
					hasVideo = true
					break
				}
			}
			for _, status := range deps.CheckBinaries(deps.ForTransfer(cfg.FFmpegBinary(), hasVideo)) {
				if !status.Available {
					logger.Warn("external dependency missing, video items may fail",
						"name", status.Name, "detail", status.Detail)
				}
			}

			timeout := time.Duration(cfg.Worker.RequestTimeout) * time.Second
			syncer := finalize.NewSyncer(
				backend.New(cfg.Backend.APIURL, timeout),
				worker.New(cfg.Worker.URL, cfg.Backend.AdminToken, timeout),
				cfg.Backend.AdminToken,
				logger,
			)

			r := runner.New(cfg, logger, syncer)
			release, err := r.LockWorkDir()
			if err != nil {
				return err
			}
			defer release()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting batch", "run_id", r.RunID(),
				"items", len(selected), "skipped", len(skipped))

			manager := telegram.NewManager(cfg.Telegram, cfg.Transfer.UploadPartSizeKB, logger)
			err = manager.Run(ctx, func(ctx context.Context, sess *telegram.Session) error {
				if sess.FreshCredential != "" {
					fmt.Fprintln(out, "New session string (store it, it will not be shown again):")
					fmt.Fprintln(out, sess.FreshCredential)
				}
				r.Process(ctx, sess.Transport, selected)
				return nil
			})
			if err != nil {
				return fmt.Errorf("connect to telegram: %w", err)
			}

			logger.Info("batch finished", "run_id", r.RunID())
			return nil
		},
	}
}
