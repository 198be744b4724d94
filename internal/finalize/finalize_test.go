package finalize_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courier/internal/classify"
	"courier/internal/finalize"
	"courier/internal/manifest"
	"courier/internal/services/backend"
	"courier/internal/services/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pdfPlan() classify.Plan {
	return classify.Classify(manifest.Item{
		URL:      "https://x/a.pdf",
		Title:    "Algebra Notes",
		FolderID: json.RawMessage("42"),
		ID:       json.RawMessage(`"item-1"`),
	})
}

func TestFinalizeSendsPrimaryThenSecondary(t *testing.T) {
	var primaryBody, secondaryBody map[string]any
	var primaryAuth, secondaryAuth string
	var secondaryCalls int

	primaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload/finalize" {
			t.Fatalf("unexpected primary path %q", r.URL.Path)
		}
		primaryAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&primaryBody); err != nil {
			t.Fatalf("decode primary body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer primaryServer.Close()

	secondaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls++
		if r.URL.Path != "/api/mark_uploaded" {
			t.Fatalf("unexpected secondary path %q", r.URL.Path)
		}
		secondaryAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&secondaryBody); err != nil {
			t.Fatalf("decode secondary body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer secondaryServer.Close()

	syncer := finalize.NewSyncer(
		backend.New(primaryServer.URL, 5*time.Second),
		worker.New(secondaryServer.URL, "admin-token", 5*time.Second),
		"admin-token",
		testLogger(),
	)

	if err := syncer.Finalize(context.Background(), pdfPlan(), 2048, 555); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if primaryAuth != "Bearer admin-token" {
		t.Fatalf("unexpected primary auth %q", primaryAuth)
	}
	if primaryBody["name"] != "Algebra Notes.pdf" {
		t.Fatalf("unexpected record name %v", primaryBody["name"])
	}
	if primaryBody["mime_type"] != "application/pdf" {
		t.Fatalf("unexpected mime %v", primaryBody["mime_type"])
	}
	if primaryBody["size"] != float64(2048) {
		t.Fatalf("unexpected size %v", primaryBody["size"])
	}
	if primaryBody["folder_id"] != float64(42) {
		t.Fatalf("folder id must pass through verbatim, got %v", primaryBody["folder_id"])
	}
	if primaryBody["telegram_id"] != "555" {
		t.Fatalf("unexpected telegram id %v", primaryBody["telegram_id"])
	}

	if secondaryCalls != 1 {
		t.Fatalf("expected one secondary call, got %d", secondaryCalls)
	}
	if secondaryAuth != "Bearer admin-token" {
		t.Fatalf("unexpected secondary auth %q", secondaryAuth)
	}
	if secondaryBody["id"] != "item-1" || secondaryBody["type"] != "document" {
		t.Fatalf("unexpected sync payload %v", secondaryBody)
	}
}

func TestPrimaryFailureSkipsSecondary(t *testing.T) {
	primaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("duplicate record"))
	}))
	defer primaryServer.Close()

	var secondaryCalls int
	secondaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls++
		w.WriteHeader(http.StatusOK)
	}))
	defer secondaryServer.Close()

	syncer := finalize.NewSyncer(
		backend.New(primaryServer.URL, 5*time.Second),
		worker.New(secondaryServer.URL, "admin-token", 5*time.Second),
		"admin-token",
		testLogger(),
	)

	err := syncer.Finalize(context.Background(), pdfPlan(), 2048, 555)
	if err == nil {
		t.Fatal("expected finalization error")
	}
	if secondaryCalls != 0 {
		t.Fatalf("secondary must never be called after primary failure, got %d calls", secondaryCalls)
	}
}

func TestSecondaryFailureIsNotFatal(t *testing.T) {
	primaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer primaryServer.Close()

	secondaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer secondaryServer.Close()

	syncer := finalize.NewSyncer(
		backend.New(primaryServer.URL, 5*time.Second),
		worker.New(secondaryServer.URL, "admin-token", 5*time.Second),
		"admin-token",
		testLogger(),
	)

	if err := syncer.Finalize(context.Background(), pdfPlan(), 2048, 555); err != nil {
		t.Fatalf("sync discrepancy must not fail the item: %v", err)
	}
}

func TestItemTokenOverridesAdminToken(t *testing.T) {
	var primaryAuth string
	primaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer primaryServer.Close()

	secondaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer secondaryServer.Close()

	plan := pdfPlan()
	plan.Item.Token = "item-token"

	syncer := finalize.NewSyncer(
		backend.New(primaryServer.URL, 5*time.Second),
		worker.New(secondaryServer.URL, "admin-token", 5*time.Second),
		"admin-token",
		testLogger(),
	)

	if err := syncer.Finalize(context.Background(), plan, 1, 2); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if primaryAuth != "Bearer item-token" {
		t.Fatalf("expected item token to win, got %q", primaryAuth)
	}
}
