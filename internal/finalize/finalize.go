package finalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"courier/internal/classify"
	"courier/internal/services/backend"
)

// PrimaryStore records the delivery authoritatively.
type PrimaryStore interface {
	Finalize(ctx context.Context, record backend.Record, bearerToken string) error
}

// SecondaryStore receives the best-effort uploaded flag.
type SecondaryStore interface {
	MarkUploaded(ctx context.Context, id json.RawMessage, mediaType string) error
}

// Syncer drives the two-phase finalization.
type Syncer struct {
	primary    PrimaryStore
	secondary  SecondaryStore
	adminToken string
	logger     *slog.Logger
}

// NewSyncer builds a syncer over the two stores.
func NewSyncer(primary PrimaryStore, secondary SecondaryStore, adminToken string, logger *slog.Logger) *Syncer {
	return &Syncer{primary: primary, secondary: secondary, adminToken: adminToken, logger: logger}
}

// Finalize writes the delivery record. The returned error means the file
// was delivered but is not recorded in the primary store, a real
// inconsistency the caller must surface loudly. A secondary-store miss is
// only a logged discrepancy.
func (s *Syncer) Finalize(ctx context.Context, plan classify.Plan, size int64, messageID int64) error {
	record := backend.Record{
		Name:       plan.RecordName(),
		Size:       size,
		MIMEType:   plan.MIMEType,
		FolderID:   plan.Item.FolderID,
		TelegramID: strconv.FormatInt(messageID, 10),
	}

	token := strings.TrimSpace(plan.Item.Token)
	if token == "" {
		token = s.adminToken
	}

	if err := s.primary.Finalize(ctx, record, token); err != nil {
		return fmt.Errorf("finalization: %w", err)
	}
	s.logger.Info("primary store finalized", "name", record.Name, "telegram_id", record.TelegramID)

	if err := s.secondary.MarkUploaded(ctx, plan.Item.ID, string(plan.Kind)); err != nil {
		s.logger.Warn("secondary store sync discrepancy", "error", err)
		return nil
	}
	s.logger.Info("secondary store synced")
	return nil
}
