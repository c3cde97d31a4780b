package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/tui"
)

// recordingStore captures reorder calls and can be set to fail.
type recordingStore struct {
	folderCalls   [][]string
	bookmarkCalls [][]string
	err           error
}

func (r *recordingStore) ReorderFolders(ids []string) error {
	r.folderCalls = append(r.folderCalls, ids)
	return r.err
}

func (r *recordingStore) ReorderBookmarks(ids []string) error {
	r.bookmarkCalls = append(r.bookmarkCalls, ids)
	return r.err
}

func testApp(store tui.Reorderer) tui.App {
	devID := "folder-dev"
	return tui.NewApp(tui.AppParams{
		Collections: []model.Collection{
			{ID: "col-work", Name: "Work", Slug: "work", SortOrder: 0},
			{ID: "col-personal", Name: "Personal", Slug: "personal", SortOrder: 1},
		},
		Folders: []model.Folder{
			{ID: devID, Name: "Development", CollectionID: "col-work", SortOrder: 0},
			{ID: "folder-tools", Name: "Tools", CollectionID: "col-work", SortOrder: 1},
		},
		Bookmarks: []model.Bookmark{
			{ID: "bm-gh", Title: "GitHub", URL: "https://github.com", CollectionID: "col-work", SortOrder: 0},
			{ID: "bm-hn", Title: "Hacker News", URL: "https://news.ycombinator.com", CollectionID: "col-work", SortOrder: 1},
			{ID: "bm-go", Title: "Go Docs", URL: "https://go.dev", CollectionID: "col-work", FolderID: &devID, SortOrder: 0},
		},
		Store: store,
	})
}

func press(t *testing.T, app tui.App, runes ...rune) tui.App {
	t.Helper()
	for _, r := range runes {
		updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		app = updated.(tui.App)
	}
	return app
}

func TestApp_Navigation_JK(t *testing.T) {
	app := testApp(&recordingStore{})

	if app.Cursor() != 0 {
		t.Errorf("expected initial cursor 0, got %d", app.Cursor())
	}

	app = press(t, app, 'j')
	if app.Cursor() != 1 {
		t.Errorf("after j, expected cursor 1, got %d", app.Cursor())
	}

	// j at the bottom stays put (no wrap)
	app = press(t, app, 'j')
	if app.Cursor() != 1 {
		t.Errorf("j at bottom should stay at 1, got %d", app.Cursor())
	}

	app = press(t, app, 'k')
	if app.Cursor() != 0 {
		t.Errorf("after k, expected cursor 0, got %d", app.Cursor())
	}
	app = press(t, app, 'k')
	if app.Cursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.Cursor())
	}
}

func TestApp_Navigation_TopBottom(t *testing.T) {
	app := testApp(&recordingStore{})

	app = press(t, app, 'G')
	if app.Cursor() != len(app.Items())-1 {
		t.Errorf("after G, expected cursor at last item, got %d", app.Cursor())
	}

	// A single g is not a jump yet
	app = press(t, app, 'g')
	if app.Cursor() != len(app.Items())-1 {
		t.Errorf("single g must not move the cursor, got %d", app.Cursor())
	}
	app = press(t, app, 'g')
	if app.Cursor() != 0 {
		t.Errorf("after gg, expected cursor 0, got %d", app.Cursor())
	}
}

func TestApp_EnterAndBack(t *testing.T) {
	app := testApp(&recordingStore{})

	// Overview lists the two collections.
	if len(app.Items()) != 2 {
		t.Fatalf("expected 2 collections in overview, got %d", len(app.Items()))
	}
	if app.Items()[0].Kind != tui.ItemCollection {
		t.Fatal("expected collections in the overview")
	}

	// Enter "Work": folders first, then root bookmarks.
	app = press(t, app, 'l')
	items := app.Items()
	if len(items) != 4 {
		t.Fatalf("expected 2 folders + 2 root bookmarks, got %d items", len(items))
	}
	if items[0].Kind != tui.ItemFolder || items[0].Title() != "Development" {
		t.Errorf("expected 'Development' first, got %q", items[0].Title())
	}
	if items[2].Kind != tui.ItemBookmark || items[2].Title() != "GitHub" {
		t.Errorf("expected 'GitHub' after the folders, got %q", items[2].Title())
	}

	// Enter the folder: only its bookmark is visible.
	app = press(t, app, 'l')
	items = app.Items()
	if len(items) != 1 || items[0].Title() != "Go Docs" {
		t.Fatalf("expected only 'Go Docs' inside the folder, got %d items", len(items))
	}

	// h walks back up to the collection, then the overview.
	app = press(t, app, 'h')
	if len(app.Items()) != 4 {
		t.Errorf("expected collection root after h, got %d items", len(app.Items()))
	}
	app = press(t, app, 'h')
	if len(app.Items()) != 2 || app.Items()[0].Kind != tui.ItemCollection {
		t.Error("expected collections overview after second h")
	}
}

func TestApp_Filter(t *testing.T) {
	app := testApp(&recordingStore{})
	app = press(t, app, 'l') // into Work

	app = press(t, app, '/', 'g', 'i', 't')
	items := app.Items()
	if len(items) != 1 || items[0].Title() != "GitHub" {
		t.Fatalf("expected fuzzy filter to match only 'GitHub', got %d items", len(items))
	}

	// Esc clears the filter and restores the listing.
	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = updated.(tui.App)
	if len(app.Items()) != 4 {
		t.Errorf("expected full listing after esc, got %d items", len(app.Items()))
	}
}

func TestApp_FilterMatchesFolders(t *testing.T) {
	app := testApp(&recordingStore{})
	app = press(t, app, 'l') // into Work

	app = press(t, app, '/', 'd', 'e', 'v')
	items := app.Items()
	if len(items) != 1 || items[0].Kind != tui.ItemFolder || items[0].Title() != "Development" {
		t.Fatalf("expected the filter to match the 'Development' folder, got %d items", len(items))
	}

	// Entering a matched folder works straight from the filtered list.
	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = updated.(tui.App)
	app = press(t, app, 'l')
	items = app.Items()
	if len(items) != 1 || items[0].Title() != "Go Docs" {
		t.Fatalf("expected the folder's bookmark after entering, got %d items", len(items))
	}
}

func TestApp_MoveBookmark(t *testing.T) {
	store := &recordingStore{}
	app := testApp(store)
	app = press(t, app, 'l') // into Work
	app = press(t, app, 'j', 'j')

	// Cursor on "GitHub", the first root bookmark. J swaps it downward.
	app = press(t, app, 'J')

	if len(store.bookmarkCalls) != 1 {
		t.Fatalf("expected 1 reorder call, got %d", len(store.bookmarkCalls))
	}
	got := store.bookmarkCalls[0]
	want := []string{"bm-hn", "bm-gh"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected reorder %v, got %v", want, got)
	}

	items := app.Items()
	if items[2].Title() != "Hacker News" || items[3].Title() != "GitHub" {
		t.Errorf("expected the swap applied to the visible list")
	}
	if app.Cursor() != 3 {
		t.Errorf("expected cursor to follow the moved item, got %d", app.Cursor())
	}
}

func TestApp_MoveBookmark_RevertsOnFailure(t *testing.T) {
	store := &recordingStore{err: fault.New(fault.KindValidation, "ids do not match the sibling group")}
	app := testApp(store)
	app = press(t, app, 'l')
	app = press(t, app, 'j', 'j')

	app = press(t, app, 'J')

	// The optimistic swap is rolled back and the failure surfaced.
	items := app.Items()
	if items[2].Title() != "GitHub" || items[3].Title() != "Hacker News" {
		t.Error("expected the original order after a failed reorder")
	}
	if app.Cursor() != 2 {
		t.Errorf("expected cursor back on the original position, got %d", app.Cursor())
	}
	if app.Status() == "" {
		t.Error("expected a status message after a failed reorder")
	}
}

func TestApp_MoveStopsAtKindBoundary(t *testing.T) {
	store := &recordingStore{}
	app := testApp(store)
	app = press(t, app, 'l')
	app = press(t, app, 'j') // cursor on "Tools", the last folder

	// Moving the folder down would cross into the bookmarks; nothing happens.
	app = press(t, app, 'J')
	if len(store.folderCalls) != 0 {
		t.Errorf("expected no reorder call at the group boundary, got %d", len(store.folderCalls))
	}

	// Moving it up within the folder group works.
	app = press(t, app, 'K')
	if len(store.folderCalls) != 1 {
		t.Fatalf("expected 1 folder reorder call, got %d", len(store.folderCalls))
	}
	got := store.folderCalls[0]
	if got[0] != "folder-tools" || got[1] != "folder-dev" {
		t.Errorf("expected folders swapped, got %v", got)
	}
}

func TestApp_MoveIgnoresCollections(t *testing.T) {
	store := &recordingStore{}
	app := testApp(store)

	app = press(t, app, 'J')
	if len(store.folderCalls) != 0 || len(store.bookmarkCalls) != 0 {
		t.Error("collections are not reorderable from the overview")
	}
}
