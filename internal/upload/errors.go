package upload

import (
	"fmt"
	"time"
)

// RateLimitedError reports that the backend asked the client to wait the
// given duration before retrying.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited for %s", e.Wait)
}

// ConnectionLostError reports a transport-level failure (drop, timeout,
// OS-level I/O error) that a reconnect may resolve.
type ConnectionLostError struct {
	Err error
}

func (e *ConnectionLostError) Error() string {
	return fmt.Sprintf("connection lost: %v", e.Err)
}

func (e *ConnectionLostError) Unwrap() error { return e.Err }
