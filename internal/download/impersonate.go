package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"courier/internal/fileutil"
)

const (
	impersonateMaxAttempts = 2
	impersonateBackoffUnit = 2 * time.Second
)

// fingerprintProfile pairs a browser identity with the client tweak that
// applies its TLS/HTTP fingerprint.
type fingerprintProfile struct {
	name  string
	apply func(*req.Client) *req.Client
}

func defaultProfiles() []fingerprintProfile {
	return []fingerprintProfile{
		{name: "chrome", apply: (*req.Client).ImpersonateChrome},
		{name: "firefox", apply: (*req.Client).ImpersonateFirefox},
		{name: "safari", apply: (*req.Client).ImpersonateSafari},
	}
}

// ImpersonateStrategy fetches a document directly from the origin using a
// client that mimics a real browser's TLS and header fingerprint, walking
// an ordered list of profiles until one is let through. Origins running
// datacenter TLS fingerprinting tend to accept at least one of them.
type ImpersonateStrategy struct {
	profiles []fingerprintProfile
	timeout  time.Duration
	logger   *slog.Logger
	sleep    func(context.Context, time.Duration) error
}

// NewImpersonateStrategy builds the direct-fetch fallback strategy.
func NewImpersonateStrategy(timeout time.Duration, logger *slog.Logger) *ImpersonateStrategy {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ImpersonateStrategy{
		profiles: defaultProfiles(),
		timeout:  timeout,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Name identifies the strategy in logs.
func (s *ImpersonateStrategy) Name() string { return "impersonate" }

// Fetch tries every profile per outer attempt. An explicit authorization
// block from the origin short-circuits the remaining profiles: the origin
// has identified the client and a different fingerprint will not help.
func (s *ImpersonateStrategy) Fetch(ctx context.Context, req Request) error {
	var lastErr error
	for attempt := 1; attempt <= impersonateMaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, time.Duration(attempt-1)*impersonateBackoffUnit); err != nil {
				return err
			}
		}

		for _, profile := range s.profiles {
			err := s.attempt(ctx, profile, req)
			if err == nil {
				return nil
			}
			if isHardBlock(err) {
				return err
			}
			lastErr = err
			s.logger.Warn("impersonation profile rejected",
				"profile", profile.name, "attempt", attempt, "error", err)
		}
	}
	return fmt.Errorf("impersonation exhausted after %d attempts: %w", impersonateMaxAttempts, lastErr)
}

func (s *ImpersonateStrategy) attempt(ctx context.Context, profile fingerprintProfile, request Request) error {
	client := profile.apply(req.C()).
		DisableAutoReadResponse().
		SetTimeout(s.timeout)

	resp, err := client.R().SetContext(ctx).Get(request.URL)
	if err != nil {
		return fmt.Errorf("impersonated fetch (%s): %w", profile.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		written, err := fileutil.WriteStream(request.DestPath, resp.Body)
		if err != nil {
			return err
		}
		s.logger.Info("impersonated download complete", "profile", profile.name, "bytes", written)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if isAuthBlock(resp.StatusCode, string(body)) {
		return fmt.Errorf("%w: origin rejected %s fingerprint with %d: %s",
			ErrHardBlock, profile.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("origin returned status %d to %s fingerprint", resp.StatusCode, profile.name)
}

// isAuthBlock matches the origin's explicit authorization-block signature.
func isAuthBlock(status int, body string) bool {
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return false
	}
	lowered := strings.ToLower(body)
	return strings.Contains(lowered, "unauthorized") || strings.Contains(lowered, "access denied")
}

func isHardBlock(err error) bool {
	return errors.Is(err, ErrHardBlock)
}
