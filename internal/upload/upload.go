package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"courier/internal/classify"
)

// Transport is the messaging-backend surface the state machine drives.
// SendFile maps backend failures to this package's typed errors.
type Transport interface {
	SendFile(ctx context.Context, dest classify.PeerRef, path, caption string, progress ProgressFunc) (int64, error)
	Healthy(ctx context.Context) bool
	Reconnect(ctx context.Context) error
}

// Outcome carries the sole result needed downstream.
type Outcome struct {
	MessageID int64
}

// State names the position of the retry machine.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateRetrying   State = "retrying"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

const (
	connectionBackoffUnit = 8 * time.Second
	rateLimitMargin       = time.Second
)

// Manager runs the upload state machine.
type Manager struct {
	transport  Transport
	maxRetries int
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error

	state      State
	retryCount int
}

// NewManager builds an upload manager with the given attempt budget.
func NewManager(transport Transport, maxRetries int, logger *slog.Logger) *Manager {
	if maxRetries < 1 {
		maxRetries = 4
	}
	return &Manager{
		transport:  transport,
		maxRetries: maxRetries,
		logger:     logger,
		sleep:      sleepCtx,
		state:      StateIdle,
	}
}

// State exposes the machine's current state.
func (m *Manager) State() State { return m.state }

// RetryCount exposes how many retries the last Upload consumed.
func (m *Manager) RetryCount() int { return m.retryCount }

// Upload pushes the file to the destination, retrying within the budget.
// Success always carries a non-zero message ID; a zero ID after the loop
// is itself a failure.
func (m *Manager) Upload(ctx context.Context, dest classify.PeerRef, path, caption string, progress ProgressFunc) (Outcome, error) {
	m.state = StateIdle
	m.retryCount = 0

	var messageID int64
	var done bool

	for !done && m.retryCount < m.maxRetries {
		m.state = StateAttempting
		id, err := m.transport.SendFile(ctx, dest, path, caption, progress)
		if err == nil {
			messageID = id
			done = true
			break
		}

		switch failure := classifyFailure(ctx, err); failure.kind {
		case failureRateLimited:
			m.retryCount++
			wait := failure.wait + rateLimitMargin
			m.logger.Warn("backend rate limited upload",
				"wait", wait, "attempt", m.retryCount, "max", m.maxRetries)
			if m.retryCount >= m.maxRetries {
				m.state = StateFailed
				return Outcome{}, fmt.Errorf("upload failed: budget exhausted while rate limited: %w", err)
			}
			m.state = StateRetrying
			if sleepErr := m.sleep(ctx, wait); sleepErr != nil {
				m.state = StateFailed
				return Outcome{}, sleepErr
			}
		case failureConnectionLost:
			m.retryCount++
			m.logger.Warn("connection lost during upload",
				"attempt", m.retryCount, "max", m.maxRetries, "error", err)
			if m.retryCount >= m.maxRetries {
				m.state = StateFailed
				return Outcome{}, fmt.Errorf("upload failed: budget exhausted after connection loss: %w", err)
			}
			m.state = StateRetrying
			if !m.transport.Healthy(ctx) {
				if reconnectErr := m.transport.Reconnect(ctx); reconnectErr != nil {
					m.logger.Warn("reconnect before retry failed", "error", reconnectErr)
				}
			}
			backoff := time.Duration(m.retryCount) * connectionBackoffUnit
			if sleepErr := m.sleep(ctx, backoff); sleepErr != nil {
				m.state = StateFailed
				return Outcome{}, sleepErr
			}
		default:
			m.state = StateFailed
			return Outcome{}, fmt.Errorf("upload failed: %w", err)
		}
	}

	if messageID == 0 {
		m.state = StateFailed
		return Outcome{}, errors.New("upload failed: no message resolved after retries")
	}
	m.state = StateSuccess
	return Outcome{MessageID: messageID}, nil
}

type failureKind int

const (
	failureFatal failureKind = iota
	failureRateLimited
	failureConnectionLost
)

type failure struct {
	kind failureKind
	wait time.Duration
}

// classifyFailure decides the transition for a transport error. A
// cancellation is only retryable when the run's own context is still
// alive; otherwise the whole batch is shutting down.
func classifyFailure(ctx context.Context, err error) failure {
	var rateLimited *RateLimitedError
	if errors.As(err, &rateLimited) {
		return failure{kind: failureRateLimited, wait: rateLimited.Wait}
	}

	var connectionLost *ConnectionLostError
	if errors.As(err, &connectionLost) {
		return failure{kind: failureConnectionLost}
	}

	if ctx.Err() == nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return failure{kind: failureConnectionLost}
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return failure{kind: failureConnectionLost}
		}
		var sysErr *os.SyscallError
		if errors.As(err, &sysErr) {
			return failure{kind: failureConnectionLost}
		}
	}
	return failure{kind: failureFatal}
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
