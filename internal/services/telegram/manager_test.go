package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gotd/td/tgerr"
)

func TestShouldFallback(t *testing.T) {
	duplicated := fmt.Errorf("run: %w", tgerr.New(406, "AUTH_KEY_DUPLICATED"))

	tests := []struct {
		name         string
		err          error
		batchStarted bool
		want         bool
	}{
		{name: "duplicated key before batch", err: duplicated, batchStarted: false, want: true},
		{name: "duplicated key after batch started", err: duplicated, batchStarted: true, want: false},
		{name: "other failure before batch", err: errors.New("dial: refused"), batchStarted: false, want: false},
		{name: "other failure after batch started", err: errors.New("dial: refused"), batchStarted: true, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldFallback(tc.err, tc.batchStarted); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
