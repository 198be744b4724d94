package telegram

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gotd/td/session"
)

// Mode records which kind of credential the run is using.
type Mode string

const (
	// ModePersisted means the configured session string was accepted.
	ModePersisted Mode = "persisted"
	// ModeEphemeral means the run is on a throwaway in-memory credential.
	ModeEphemeral Mode = "ephemeral"
)

// storageFromString loads a configured session string into an in-memory
// session store. Telethon-format strings (the generator tool's historical
// output) and base64-wrapped native session payloads are both accepted.
func storageFromString(ctx context.Context, value string) (*session.StorageMemory, error) {
	value = strings.TrimSpace(value)
	storage := new(session.StorageMemory)

	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil && len(decoded) > 0 && decoded[0] == '{' {
		if err := storage.StoreSession(ctx, decoded); err != nil {
			return nil, fmt.Errorf("load session payload: %w", err)
		}
		return storage, nil
	}

	data, err := session.TelethonSession(value)
	if err != nil {
		return nil, fmt.Errorf("parse session string: %w", err)
	}
	loader := session.Loader{Storage: storage}
	if err := loader.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return storage, nil
}

// exportSessionString renders the current session as a value the operator
// can persist for future runs.
func exportSessionString(ctx context.Context, storage *session.StorageMemory) (string, error) {
	payload, err := storage.LoadSession(ctx)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}
