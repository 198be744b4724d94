package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"courier/internal/services/telegram"
)

func newSessionCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Issue a fresh Telegram session string",
		Long: "Log in with the configured bot credentials on a brand-new session\n" +
			"and print the resulting session string. Store it as TELEGRAM_SESSION\n" +
			"(or session_string in the config file) so later runs reuse the\n" +
			"authorization instead of logging in every time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.newLogger()
			if err != nil {
				return err
			}

			// A configured session string would be reused verbatim; blank it
			// so the manager must mint a new credential.
			tgCfg := cfg.Telegram
			tgCfg.SessionString = ""

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			manager := telegram.NewManager(tgCfg, cfg.Transfer.UploadPartSizeKB, logger)
			err = manager.Run(ctx, func(ctx context.Context, sess *telegram.Session) error {
				if sess.FreshCredential == "" {
					return errors.New("backend did not yield an exportable session")
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Session string (keep it secret, it grants full bot access):")
				fmt.Fprintln(out, sess.FreshCredential)
				return nil
			})
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}
			return nil
		},
	}
}
