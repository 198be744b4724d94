package telegram

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/gotd/td/tgerr"

	"courier/internal/upload"
)

// mapTransportError translates backend failures into the upload state
// machine's vocabulary. Flood waits carry the server-specified duration;
// dropped links become reconnectable connection losses; everything else
// passes through untouched and fails the item.
func mapTransportError(err error) error {
	if err == nil {
		return nil
	}

	if wait, ok := tgerr.AsFloodWait(err); ok {
		return &upload.RateLimitedError{Wait: wait}
	}

	if isConnectionError(err) {
		return &upload.ConnectionLostError{Err: err}
	}
	return err
}

func isConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
