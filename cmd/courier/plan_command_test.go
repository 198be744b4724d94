package main

import (
	"os"
	"path/filepath"
	"testing"
)

const planManifest = `[
  {"url": "https://host/calculus.pdf", "title": "Calculus Notes"},
  {"url": "https://youtube.com/watch?v=abc", "title": "Blocked Lecture"},
  {"url": "https://host/lecture.mp4", "title": "Algebra Lecture", "peer": "@archive"}
]`

func TestPlanRendersManifestFile(t *testing.T) {
	configPath := setupCLITestEnv(t)

	manifestPath := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(manifestPath, []byte(planManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	out, _, err := runCLI(t, []string{"plan", manifestPath}, configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	requireContains(t, out, "Calculus Notes")
	requireContains(t, out, "calculus_notes.pdf")
	requireContains(t, out, "Algebra Lecture")
	requireContains(t, out, "archive")
	requireContains(t, out, "Blocked Lecture")
	requireContains(t, out, "skipped (unsupported source)")
}

func TestPlanAcceptsInlineJSON(t *testing.T) {
	configPath := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"plan", `[{"url": "https://host/a.pdf", "title": "Inline"}]`}, configPath)
	if err != nil {
		t.Fatalf("plan inline: %v", err)
	}
	requireContains(t, out, "Inline")
}

func TestPlanRejectsMalformedManifest(t *testing.T) {
	configPath := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"plan", `{"title": "no url"}`}, configPath); err == nil {
		t.Fatal("expected a manifest without url to be rejected")
	}
}

func TestRunRequiresManifestArgument(t *testing.T) {
	configPath := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"run"}, configPath); err == nil {
		t.Fatal("expected run without a manifest to fail")
	}
}
