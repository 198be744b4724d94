package worker

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

// Client talks to the worker's sync API.
type Client struct {
	baseURL    string
	adminToken string
	client     *http.Client
}

// New builds a worker client with the fixed-purpose admin token.
func New(baseURL, adminToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		client:     &http.Client{Timeout: timeout},
	}
}

type markUploadedPayload struct {
	ID   json.RawMessage `json:"id"`
	Type string          `json:"type"`
}

// MarkUploaded records in the worker DB that the item was delivered.
// Exactly HTTP 200 is success.
func (c *Client) MarkUploaded(ctx context.Context, id json.RawMessage, mediaType string) error {
	payload, err := json.Marshal(markUploadedPayload{ID: id, Type: mediaType})
	if err != nil {
		return fmt.Errorf("encode sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/mark_uploaded", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.adminToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sync request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("mark_uploaded returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
