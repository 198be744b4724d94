package download

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"courier/internal/classify"
)

func writeFFmpegStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}

func TestRemuxInvokesStreamCopyFlags(t *testing.T) {
	stub := writeFFmpegStub(t, "#!/bin/sh\nprintf '%s\\n' \"$@\" > \"$0.args\"\nexit 0\n")
	dest := filepath.Join(t.TempDir(), "algebra_lecture.mp4")

	strategy := NewRemuxStrategy(stub, testLogger())
	if err := strategy.Fetch(context.Background(), Request{URL: "https://host/stream.m3u8", DestPath: dest}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	recorded, err := os.ReadFile(stub + ".args")
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	args := strings.Split(strings.TrimSpace(string(recorded)), "\n")
	want := []string{"-i", "https://host/stream.m3u8", "-c", "copy", "-bsf:a", "aac_adtstoasc", dest, "-y"}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d: %q", len(want), len(args), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d: expected %q, got %q (full: %q)", i, want[i], args[i], args)
		}
	}
}

func TestRemuxSurfacesToolStderr(t *testing.T) {
	stub := writeFFmpegStub(t, "#!/bin/sh\necho 'moov atom not found' >&2\nexit 1\n")
	dest := filepath.Join(t.TempDir(), "broken.mp4")

	strategy := NewRemuxStrategy(stub, testLogger())
	err := strategy.Fetch(context.Background(), Request{URL: "https://host/stream.m3u8", DestPath: dest})
	if err == nil {
		t.Fatal("expected remux failure")
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("tool stderr must surface verbatim, got: %v", err)
	}
}

func TestRemuxHasNoFallbackInVideoChain(t *testing.T) {
	stub := writeFFmpegStub(t, "#!/bin/sh\nexit 1\n")
	logger := testLogger()

	chain, err := ChainFor(classify.KindVideo, logger, NewRemuxStrategy(stub, logger), nil, nil)
	if err != nil {
		t.Fatalf("ChainFor: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "lecture.mp4")
	if _, err := chain.Fetch(context.Background(), Request{URL: "https://host/stream.m3u8", DestPath: dest}); err == nil {
		t.Fatal("a remux failure must fail the video item")
	}
}
