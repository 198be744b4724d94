package manifest

import "testing"

func TestParseArray(t *testing.T) {
	payload := `[{"url":"https://x/a.pdf","title":"Algebra Notes"},{"url":"https://x/b.mp4","title":"Lecture"}]`
	items, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Algebra Notes" {
		t.Fatalf("unexpected title: %q", items[0].Title)
	}
}

func TestParseNormalizesSingleObject(t *testing.T) {
	items, err := Parse([]byte(`{"url":"https://x/a.mp4","title":"One"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected single-element slice, got %d", len(items))
	}
}

func TestParseRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ``},
		{name: "missing url", payload: `[{"title":"No URL"}]`},
		{name: "missing title", payload: `[{"url":"https://x/a.mp4"}]`},
		{name: "malformed", payload: `[{"url":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.payload)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestDestinationDefaultsToSelf(t *testing.T) {
	item := Item{URL: "https://x/a.mp4", Title: "One"}
	if got := item.Destination(); got != "me" {
		t.Fatalf("expected default destination me, got %q", got)
	}
	item.Peer = "-1001234567890"
	if got := item.Destination(); got != "-1001234567890" {
		t.Fatalf("expected explicit peer, got %q", got)
	}
}

func TestFolderIDPreservedVerbatim(t *testing.T) {
	items, err := Parse([]byte(`[{"url":"https://x/a.pdf","title":"T","folder_id":42,"id":"abc"}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(items[0].FolderID) != "42" {
		t.Fatalf("expected raw folder id 42, got %q", string(items[0].FolderID))
	}
	if string(items[0].ID) != `"abc"` {
		t.Fatalf("expected raw id \"abc\", got %q", string(items[0].ID))
	}
}
