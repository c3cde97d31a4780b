package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/marks/internal/model"
)

func snapshotWith(collections ...model.SnapshotCollection) *model.Snapshot {
	return &model.Snapshot{
		Meta: model.SnapshotMeta{Version: "1.0", SourceApp: "marks"},
		Data: collections,
	}
}

func TestExportHTML_EmptySnapshot(t *testing.T) {
	html := ExportHTML(snapshotWith())

	// Should have basic structure even when empty
	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if !strings.Contains(html, "<H1>Bookmarks</H1>") {
		t.Error("expected H1 element")
	}
}

func TestExportHTML_RootBookmark(t *testing.T) {
	html := ExportHTML(snapshotWith(model.SnapshotCollection{
		Collection: model.Collection{ID: "c1", Name: "Work"},
		Bookmarks: []model.Bookmark{
			{
				ID:           "b1",
				Title:        "GitHub",
				URL:          "https://github.com",
				CollectionID: "c1",
				CreatedAt:    time.Unix(1700000000, 0),
			},
		},
	}))

	if !strings.Contains(html, "Work</H3>") {
		t.Error("expected collection rendered as folder")
	}
	if !strings.Contains(html, `<A HREF="https://github.com"`) {
		t.Error("expected bookmark URL")
	}
	if !strings.Contains(html, "GitHub</A>") {
		t.Error("expected bookmark title")
	}
	if !strings.Contains(html, `ADD_DATE="1700000000"`) {
		t.Error("expected ADD_DATE timestamp")
	}
}

func TestExportHTML_NestedFolders(t *testing.T) {
	parentID := "f1"
	html := ExportHTML(snapshotWith(model.SnapshotCollection{
		Collection: model.Collection{ID: "c1", Name: "Work"},
		Folders: []model.SnapshotFolder{
			{
				Folder: model.Folder{ID: "f1", Name: "Development", CollectionID: "c1"},
			},
			{
				Folder: model.Folder{ID: "f2", Name: "Go", CollectionID: "c1", ParentID: &parentID},
				Bookmarks: []model.Bookmark{
					{ID: "b1", Title: "Docs", URL: "https://go.dev", CollectionID: "c1", FolderID: &parentID},
				},
			},
		},
	}))

	if !strings.Contains(html, "Development</H3>") {
		t.Error("expected parent folder name")
	}
	if !strings.Contains(html, "Go</H3>") {
		t.Error("expected child folder name")
	}
	// The child folder must appear inside the parent's list.
	dev := strings.Index(html, "Development</H3>")
	child := strings.Index(html, "Go</H3>")
	if child < dev {
		t.Error("expected child folder to render after its parent")
	}
	if !strings.Contains(html, "Docs</A>") {
		t.Error("expected bookmark inside nested folder")
	}
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	html := ExportHTML(snapshotWith(model.SnapshotCollection{
		Collection: model.Collection{ID: "c1", Name: "R&D"},
		Bookmarks: []model.Bookmark{
			{
				ID:           "b1",
				Title:        `Tom & Jerry <"quotes">`,
				URL:          "https://example.com?a=1&b=2",
				CollectionID: "c1",
				CreatedAt:    time.Unix(1700000000, 0),
			},
		},
	}))

	if !strings.Contains(html, "R&amp;D</H3>") {
		t.Error("expected escaped collection name")
	}
	if !strings.Contains(html, "Tom &amp; Jerry &lt;&#34;quotes&#34;&gt;</A>") {
		t.Error("expected escaped bookmark title")
	}
	if !strings.Contains(html, `HREF="https://example.com?a=1&amp;b=2"`) {
		t.Error("expected escaped URL")
	}
	if strings.Contains(html, `Tom & Jerry <"`) {
		t.Error("raw special characters leaked into output")
	}
}

func TestExportHTML_PreservesSiblingOrder(t *testing.T) {
	html := ExportHTML(snapshotWith(model.SnapshotCollection{
		Collection: model.Collection{ID: "c1", Name: "Work"},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "First", URL: "https://example.com/1", CollectionID: "c1", SortOrder: 0},
			{ID: "b2", Title: "Second", URL: "https://example.com/2", CollectionID: "c1", SortOrder: 1},
		},
	}))

	if strings.Index(html, "First</A>") > strings.Index(html, "Second</A>") {
		t.Error("expected bookmarks in sort order")
	}
}
