package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"courier/internal/fileutil"
)

const (
	proxyMaxAttempts = 3
	proxyBackoffUnit = 3 * time.Second
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// transientStatuses are origin responses worth retrying within the budget.
var transientStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusConflict:            true,
	http.StatusTooEarly:            true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// ProxyStrategy fetches a document through the worker's proxy-download
// endpoint, presenting browser-shaped headers to get past naive bot
// filters. An HTTP 403 is a WAF verdict that will not self-resolve within
// the retry window, so it aborts the strategy immediately.
type ProxyStrategy struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	sleep   func(context.Context, time.Duration) error
}

// NewProxyStrategy builds the worker-proxy document strategy.
func NewProxyStrategy(baseURL string, client *http.Client, logger *slog.Logger) *ProxyStrategy {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &ProxyStrategy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Name identifies the strategy in logs.
func (s *ProxyStrategy) Name() string { return "proxy" }

// Fetch retries transient outcomes with linear backoff and streams the
// body to the destination file.
func (s *ProxyStrategy) Fetch(ctx context.Context, req Request) error {
	endpoint := fmt.Sprintf("%s/api/proxy-download?url=%s", s.baseURL, url.QueryEscape(req.URL))

	var lastErr error
	for attempt := 1; attempt <= proxyMaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, time.Duration(attempt-1)*proxyBackoffUnit); err != nil {
				return err
			}
		}

		err := s.attempt(ctx, endpoint, req)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrHardBlock) {
			return err
		}
		lastErr = err
		s.logger.Warn("proxy attempt failed", "attempt", attempt, "max", proxyMaxAttempts, "error", err)
	}
	return fmt.Errorf("proxy download exhausted after %d attempts: %w", proxyMaxAttempts, lastErr)
}

func (s *ProxyStrategy) attempt(ctx context.Context, endpoint string, req Request) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build proxy request: %w", err)
	}
	applyBrowserHeaders(httpReq, req.URL)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("proxy transport: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		written, err := fileutil.WriteStream(req.DestPath, resp.Body)
		if err != nil {
			return err
		}
		s.logger.Info("proxy download complete", "bytes", written)
		return nil
	case resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: proxy returned 403: %s", ErrHardBlock, strings.TrimSpace(string(body)))
	case transientStatuses[resp.StatusCode]:
		return fmt.Errorf("proxy returned transient status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("proxy returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// applyBrowserHeaders shapes the request the way a real browser tab
// navigating from the target's own origin would.
func applyBrowserHeaders(req *http.Request, target string) {
	origin := ""
	if parsed, err := url.Parse(target); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		origin = parsed.Scheme + "://" + parsed.Host
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if origin != "" {
		req.Header.Set("Referer", origin+"/")
		req.Header.Set("Origin", origin)
	}
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
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
