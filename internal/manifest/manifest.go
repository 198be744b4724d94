package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Item is one requested media transfer as provided by the caller.
type Item struct {
	URL      string          `json:"url"`
	Title    string          `json:"title"`
	FolderID json.RawMessage `json:"folder_id,omitempty"`
	Peer     string          `json:"peer,omitempty"`
	Type     string          `json:"type,omitempty"`
	ID       json.RawMessage `json:"id,omitempty"`
	Token    string          `json:"token,omitempty"`
}

// Validate checks the fields a transfer cannot run without.
func (i Item) Validate() error {
	if strings.TrimSpace(i.URL) == "" {
		return errors.New("item url is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("item title is required")
	}
	return nil
}

// Destination returns the delivery peer, defaulting to the bot's own chat.
func (i Item) Destination() string {
	if peer := strings.TrimSpace(i.Peer); peer != "" {
		return peer
	}
	return "me"
}

// Parse decodes a JSON payload into items. A single object payload is
// normalized to a one-element slice.
func Parse(payload []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, errors.New("empty manifest payload")
	}

	var items []Item
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse manifest array: %w", err)
		}
	} else {
		var single Item
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("parse manifest object: %w", err)
		}
		items = []Item{single}
	}

	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
	}
	return items, nil
}

// ParseFile reads and decodes a manifest file.
func ParseFile(path string) ([]Item, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(payload)
}
