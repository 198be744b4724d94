package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "Courier/0.1.0"

// Record is the finalization payload for one delivered file.
type Record struct {
	Name       string          `json:"name"`
	Size       int64           `json:"size"`
	MIMEType   string          `json:"mime_type"`
	FolderID   json.RawMessage `json:"folder_id"`
	TelegramID string          `json:"telegram_id"`
}

// Client talks to the primary metadata store.
type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a backend client for the given API base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Finalize records the delivery in the primary store. Exactly HTTP 200 is
// success; anything else is a finalization failure carrying the response
// body.
func (c *Client) Finalize(ctx context.Context, record Record, bearerToken string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode finalize payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/finalize", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build finalize request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("finalize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("finalize returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
