package snapshot_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/snapshot"
	"github.com/nikbrunner/marks/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "marks.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExport(t *testing.T) {
	s := newTestStore(t)

	work, err := s.CreateCollection(model.NewCollectionParams{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}
	docs, err := s.CreateFolder(model.NewFolderParams{Name: "Docs", CollectionID: work.ID})
	if err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}
	if _, err := s.CreateBookmark(model.NewBookmarkParams{
		Title: "Inside", URL: "https://example.com/inside", CollectionID: work.ID, FolderID: &docs.ID,
	}); err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}
	if _, err := s.CreateBookmark(model.NewBookmarkParams{
		Title: "Root", URL: "https://example.com/root", CollectionID: work.ID,
	}); err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}

	snap, err := snapshot.Export(s)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	if snap.Meta.Version != snapshot.Version {
		t.Errorf("expected version %q, got %q", snapshot.Version, snap.Meta.Version)
	}
	if snap.Meta.SourceApp != snapshot.SourceApp {
		t.Errorf("expected source app %q, got %q", snapshot.SourceApp, snap.Meta.SourceApp)
	}
	if snap.Meta.ExportedAt.IsZero() {
		t.Error("expected exported-at timestamp to be set")
	}

	if len(snap.Data) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(snap.Data))
	}
	col := snap.Data[0]
	if col.Name != "Work" {
		t.Errorf("expected collection 'Work', got %q", col.Name)
	}
	if len(col.Folders) != 1 || col.Folders[0].Name != "Docs" {
		t.Fatalf("expected folder 'Docs' in export")
	}
	if len(col.Folders[0].Bookmarks) != 1 || col.Folders[0].Bookmarks[0].Title != "Inside" {
		t.Errorf("expected 'Inside' under the folder")
	}
	if len(col.Bookmarks) != 1 || col.Bookmarks[0].Title != "Root" {
		t.Errorf("expected 'Root' at the collection root")
	}
}

func TestExport_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	snap, err := snapshot.Export(s)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	if snap.Data == nil {
		t.Fatal("expected empty data array, got nil")
	}
	if len(snap.Data) != 0 {
		t.Errorf("expected no collections, got %d", len(snap.Data))
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	work, err := s.CreateCollection(model.NewCollectionParams{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}
	if _, err := s.CreateBookmark(model.NewBookmarkParams{
		Title: "Root", URL: "https://example.com", CollectionID: work.ID,
	}); err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}

	snap, err := snapshot.Export(s)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	decoded, err := snapshot.Decode(data)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(decoded.Data) != 1 || decoded.Data[0].Slug != work.Slug {
		t.Errorf("round trip lost collection data")
	}
	if decoded.Meta.Version != snapshot.Version {
		t.Errorf("round trip lost metadata")
	}
}

func TestRestoreRoundTrip_DeepTree(t *testing.T) {
	source := newTestStore(t)

	work, err := source.CreateCollection(model.NewCollectionParams{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}

	// Three folder levels with a bookmark at every level.
	var parent *string
	for _, name := range []string{"L1", "L2", "L3"} {
		f, err := source.CreateFolder(model.NewFolderParams{Name: name, CollectionID: work.ID, ParentID: parent})
		if err != nil {
			t.Fatalf("failed to create folder %s: %v", name, err)
		}
		if _, err := source.CreateBookmark(model.NewBookmarkParams{
			Title: "in-" + name, URL: "https://example.com/" + name, CollectionID: work.ID, FolderID: &f.ID,
		}); err != nil {
			t.Fatalf("failed to create bookmark: %v", err)
		}
		id := f.ID
		parent = &id
	}
	if _, err := source.CreateBookmark(model.NewBookmarkParams{
		Title: "at-root", URL: "https://example.com/root", CollectionID: work.ID,
	}); err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}

	snap, err := snapshot.Export(source)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	decoded, err := snapshot.Decode(data)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	target := newTestStore(t)
	if err := target.Restore(context.Background(), decoded); err != nil {
		t.Fatalf("failed to restore: %v", err)
	}

	// Restoring the same document twice must converge on the same tree.
	if err := target.Restore(context.Background(), decoded); err != nil {
		t.Fatalf("failed to restore a second time: %v", err)
	}

	again, err := snapshot.Export(target)
	if err != nil {
		t.Fatalf("failed to re-export: %v", err)
	}
	want, err := snapshot.Export(source)
	if err != nil {
		t.Fatalf("failed to re-export source: %v", err)
	}

	// Comparing the data payloads byte-for-byte checks names, parent
	// links, sibling order and ids all at once.
	wantJSON, _ := json.Marshal(want.Data)
	gotJSON, _ := json.Marshal(again.Data)
	if string(wantJSON) != string(gotJSON) {
		t.Errorf("round trip changed the tree:\nwant %s\ngot  %s", wantJSON, gotJSON)
	}
}

func TestDecode_RejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{"meta": {`},
		{"missing data", `{"meta": {"version": "1.0"}}`},
		{"null data", `{"meta": {"version": "1.0"}, "data": null}`},
		{"data not an array", `{"meta": {"version": "1.0"}, "data": {"id": "x"}}`},
		{"collection missing id", `{"meta": {"version": "1.0"}, "data": [{"name": "Work"}]}`},
		{"bookmark missing url", `{"meta": {"version": "1.0"}, "data": [{"id": "c1", "name": "Work", "bookmarks": [{"id": "b1"}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := snapshot.Decode([]byte(tc.data)); !fault.IsKind(err, fault.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	data := `{
		"meta": {"version": "1.0", "exportedAt": "2024-01-01T00:00:00Z", "sourceApp": "marks", "extra": true},
		"data": [{"id": "c1", "name": "Work", "slug": "work", "futureField": 7}]
	}`
	snap, err := snapshot.Decode([]byte(data))
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(snap.Data) != 1 || snap.Data[0].ID != "c1" {
		t.Errorf("expected collection to survive unknown fields")
	}
}
