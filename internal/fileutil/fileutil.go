// Package fileutil holds working-slot file helpers shared by the
// download strategies and the runner.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const streamBufferSize = 256 * 1024

// WriteStream copies body to dest in bounded chunks and flushes it to
// disk, so large payloads never sit fully in memory. It returns the
// number of bytes written.
func WriteStream(dest string, body io.Reader) (int64, error) {
	file, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}
	defer file.Close()

	buf := make([]byte, streamBufferSize)
	written, err := io.CopyBuffer(file, body, buf)
	if err != nil {
		return written, fmt.Errorf("stream to %s: %w", dest, err)
	}
	if err := file.Sync(); err != nil {
		return written, fmt.Errorf("flush %s: %w", dest, err)
	}
	return written, nil
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
