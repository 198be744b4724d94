package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteStream(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "payload.bin")
	payload := bytes.Repeat([]byte("abc"), 100_000)

	written, err := WriteStream(dest, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("WriteStream: %v", err)
	}
	if written != int64(len(payload)) {
		t.Fatalf("expected %d bytes written, got %d", len(payload), written)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("written content differs from source")
	}
}

func TestWriteStreamTruncatesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(dest, []byte("stale content that is longer"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, err := WriteStream(dest, strings.NewReader("fresh")); err != nil {
		t.Fatalf("WriteStream: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "fresh" {
		t.Fatalf("expected truncated rewrite, got %q", got)
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("remove existing: %v", err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("remove missing must succeed: %v", err)
	}
}
