package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/marks/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/marks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("marks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders a snapshot in Netscape bookmark HTML format. Each
// collection becomes a top-level folder; nested folders and sibling order
// are preserved.
func ExportHTML(snap *model.Snapshot) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, col := range snap.Data {
		writeCollection(&b, col, 1)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeCollection(b *strings.Builder, col model.SnapshotCollection, indent int) {
	prefix := strings.Repeat("    ", indent)

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(col.Name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)

	folders := make([]model.Folder, len(col.Folders))
	bookmarksByFolder := make(map[string][]model.Bookmark, len(col.Folders))
	for i, f := range col.Folders {
		folders[i] = f.Folder
		bookmarksByFolder[f.ID] = f.Bookmarks
	}

	for _, node := range model.BuildFolderForest(folders) {
		writeFolder(b, node, bookmarksByFolder, indent+1)
	}
	writeBookmarks(b, col.Bookmarks, indent+1)

	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

// writeFolder recursively writes a folder node with its bookmarks.
func writeFolder(b *strings.Builder, node *model.FolderNode, bookmarksByFolder map[string][]model.Bookmark, indent int) {
	prefix := strings.Repeat("    ", indent)

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(node.Name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)

	for _, child := range node.Children {
		writeFolder(b, child, bookmarksByFolder, indent+1)
	}
	writeBookmarks(b, bookmarksByFolder[node.ID], indent+1)

	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

func writeBookmarks(b *strings.Builder, bookmarks []model.Bookmark, indent int) {
	prefix := strings.Repeat("    ", indent)
	for _, bookmark := range bookmarks {
		timestamp := bookmark.CreatedAt.Unix()
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(bookmark.URL),
			timestamp,
			html.EscapeString(bookmark.Title),
		)
	}
}
