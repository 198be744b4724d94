package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tgerr"

	"courier/internal/config"
)

// Session is the live connection handed to the batch body.
type Session struct {
	Mode      Mode
	Transport *Transport
	// FreshCredential is set only when a brand-new ephemeral session was
	// issued with no persisted credential configured; it is the operator's
	// only copy.
	FreshCredential string
}

// Manager establishes the backend connection for one batch run.
type Manager struct {
	cfg    config.Telegram
	part   int
	logger *slog.Logger
}

// NewManager builds a session manager from telegram config.
func NewManager(cfg config.Telegram, partSizeKB int, logger *slog.Logger) *Manager {
	return &Manager{cfg: cfg, part: partSizeKB * 1024, logger: logger}
}

// Run connects and executes fn within the connection's lifetime.
//
// A configured session string is preferred for continuity. When the
// backend reports the stored auth key was duplicated across hosts and
// revoked before the batch body has begun, the manager abandons it and
// restarts on a fresh in-memory credential, downgrading the run to
// ephemeral mode; the operator is warned to rotate the stored secret.
// Once fn has started, items may already be delivered and finalized, so
// the same failure ends the run instead: fn is never invoked twice. Any
// other startup failure is fatal to the batch. Mode is never upgraded
// mid-run.
func (m *Manager) Run(ctx context.Context, fn func(context.Context, *Session) error) error {
	if m.cfg.SessionString != "" {
		storage, err := storageFromString(ctx, m.cfg.SessionString)
		if err != nil {
			return err
		}
		var batchStarted bool
		err = m.runWith(ctx, storage, ModePersisted, func(ctx context.Context, sess *Session) error {
			batchStarted = true
			return fn(ctx, sess)
		})
		if err == nil || !shouldFallback(err, batchStarted) {
			return err
		}
		m.logger.Warn("stored session auth key was duplicated across hosts and revoked by the backend")
		m.logger.Warn("falling back to a fresh in-memory session for this run; rotate the stored session secret")
	}

	return m.runWith(ctx, new(session.StorageMemory), ModeEphemeral, fn)
}

// shouldFallback reports whether a persisted-session failure may restart
// the run on a fresh credential. Only auth-key duplication surfacing
// before the batch body ran qualifies; afterwards a restart would rerun
// items that were already finalized.
func shouldFallback(err error, batchStarted bool) bool {
	return !batchStarted && isAuthKeyDuplicated(err)
}

func (m *Manager) runWith(ctx context.Context, storage *session.StorageMemory, mode Mode, fn func(context.Context, *Session) error) error {
	client := telegram.NewClient(m.cfg.APIID, m.cfg.APIHash, telegram.Options{
		SessionStorage: storage,
	})

	return client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			if _, err := client.Auth().Bot(ctx, m.cfg.BotToken); err != nil {
				return fmt.Errorf("bot login: %w", err)
			}
		}

		sess := &Session{
			Mode:      mode,
			Transport: newTransport(client, m.part),
		}

		if mode == ModeEphemeral && m.cfg.SessionString == "" {
			credential, err := exportSessionString(ctx, storage)
			if err != nil {
				m.logger.Warn("could not export fresh session string", "error", err)
			} else {
				sess.FreshCredential = credential
			}
		}

		return fn(ctx, sess)
	})
}

func isAuthKeyDuplicated(err error) bool {
	return tgerr.Is(err, "AUTH_KEY_DUPLICATED")
}
