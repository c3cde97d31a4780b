package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/search"
)

// Reorderer persists a new sibling ordering. The reorder is applied to the
// visible list first and rolled back if persistence fails, so the view
// never stays out of sync with the store.
type Reorderer interface {
	ReorderFolders(ids []string) error
	ReorderBookmarks(ids []string) error
}

// App is the main bubbletea model for the collection browser.
type App struct {
	collections []model.Collection
	folders     []model.Folder
	bookmarks   []model.Bookmark
	store       Reorderer

	keys   KeyMap
	styles Styles

	// Navigation state
	currentCollection *model.Collection // nil = collections overview
	currentFolderID   *string           // nil = collection root
	folderStack       []string          // breadcrumb trail of folder IDs
	cursor            int
	items             []Item

	// Filter state
	filtering bool   // typing in the filter prompt
	filter    string // active fuzzy query

	status string

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Collections []model.Collection
	Folders     []model.Folder
	Bookmarks   []model.Bookmark
	Store       Reorderer
	Keys        *KeyMap // optional, uses default if nil
	Styles      *Styles // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	app := App{
		collections: params.Collections,
		folders:     params.Folders,
		bookmarks:   params.Bookmarks,
		store:       params.Store,
		keys:        keys,
		styles:      styles,
		width:       80,
		height:      24,
	}

	app.refreshItems()
	return app
}

// refreshItems rebuilds the items slice for the current location.
func (a *App) refreshItems() {
	a.items = []Item{}

	if a.filter != "" {
		for _, result := range search.Fuzzy(a.filterScope(), a.filter) {
			if result.Folder != nil {
				a.items = append(a.items, Item{Kind: ItemFolder, Folder: result.Folder})
			} else {
				a.items = append(a.items, Item{Kind: ItemBookmark, Bookmark: result.Bookmark})
			}
		}
		return
	}

	if a.currentCollection == nil {
		for i := range a.collections {
			a.items = append(a.items, Item{Kind: ItemCollection, Collection: &a.collections[i]})
		}
		return
	}

	// Folders first, then bookmarks, each in sibling order.
	folders := model.FoldersIn(a.folders, a.currentCollection.ID, a.currentFolderID)
	for i := range folders {
		f := folders[i]
		a.items = append(a.items, Item{Kind: ItemFolder, Folder: &f})
	}
	bookmarks := model.BookmarksIn(a.bookmarks, a.currentCollection.ID, a.currentFolderID)
	for i := range bookmarks {
		b := bookmarks[i]
		a.items = append(a.items, Item{Kind: ItemBookmark, Bookmark: &b})
	}
}

// filterScope returns the folders and bookmarks the fuzzy filter runs
// over: the current collection's, or everything from the overview.
func (a *App) filterScope() search.Source {
	if a.currentCollection == nil {
		return search.Source{Folders: a.folders, Bookmarks: a.bookmarks}
	}
	var src search.Source
	for _, f := range a.folders {
		if f.CollectionID == a.currentCollection.ID {
			src.Folders = append(src.Folders, f)
		}
	}
	for _, b := range a.bookmarks {
		if b.CollectionID == a.currentCollection.ID {
			src.Bookmarks = append(src.Bookmarks, b)
		}
	}
	return src
}

// Items returns the current list of items.
func (a App) Items() []Item {
	return a.items
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Status returns the current status line.
func (a App) Status() string {
	return a.status
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if a.filtering {
			return a.updateFilterInput(msg), nil
		}

		// Handle gg sequence
		if key.Matches(msg, a.keys.Top) {
			if a.lastKeyWasG {
				a.cursor = 0
				a.lastKeyWasG = false
				return a, nil
			}
			a.lastKeyWasG = true
			return a, nil
		}
		a.lastKeyWasG = false

		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.Down):
			if len(a.items) > 0 && a.cursor < len(a.items)-1 {
				a.cursor++
			}

		case key.Matches(msg, a.keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}

		case key.Matches(msg, a.keys.Bottom):
			if len(a.items) > 0 {
				a.cursor = len(a.items) - 1
			}

		case key.Matches(msg, a.keys.Right):
			a.enterSelected()

		case key.Matches(msg, a.keys.Left):
			a.goBack()

		case key.Matches(msg, a.keys.MoveDown):
			a.moveSelected(1)

		case key.Matches(msg, a.keys.MoveUp):
			a.moveSelected(-1)

		case key.Matches(msg, a.keys.YankURL):
			a.yankSelected()

		case key.Matches(msg, a.keys.Filter):
			a.filtering = true
			a.status = ""
		}
	}

	return a, nil
}

// updateFilterInput handles keys while the filter prompt is active.
func (a App) updateFilterInput(msg tea.KeyMsg) App {
	switch msg.Type {
	case tea.KeyEsc:
		a.filtering = false
		a.filter = ""
	case tea.KeyEnter:
		a.filtering = false
	case tea.KeyBackspace:
		if len(a.filter) > 0 {
			a.filter = a.filter[:len(a.filter)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		a.filter += string(msg.Runes)
	}

	a.cursor = 0
	a.refreshItems()
	return a
}

// enterSelected descends into the selected collection or folder.
func (a *App) enterSelected() {
	if len(a.items) == 0 || a.cursor >= len(a.items) {
		return
	}

	switch item := a.items[a.cursor]; item.Kind {
	case ItemCollection:
		col := *item.Collection
		a.currentCollection = &col
		a.currentFolderID = nil
		a.folderStack = nil
	case ItemFolder:
		if a.currentFolderID != nil {
			a.folderStack = append(a.folderStack, *a.currentFolderID)
		}
		id := item.Folder.ID
		a.currentFolderID = &id
	default:
		return
	}

	a.cursor = 0
	a.filter = ""
	a.refreshItems()
}

// goBack ascends one level: folder → parent → collection root →
// collections overview.
func (a *App) goBack() {
	switch {
	case a.filter != "":
		a.filter = ""
	case a.currentFolderID != nil:
		if len(a.folderStack) > 0 {
			lastIdx := len(a.folderStack) - 1
			parentID := a.folderStack[lastIdx]
			a.folderStack = a.folderStack[:lastIdx]
			a.currentFolderID = &parentID
		} else {
			a.currentFolderID = nil
		}
	case a.currentCollection != nil:
		a.currentCollection = nil
	default:
		return
	}

	a.cursor = 0
	a.refreshItems()
}

// moveSelected swaps the selected item with its neighbor and persists the
// new sibling order. The swap is applied optimistically; on failure the
// previous order is restored and the failure shown in the status line.
func (a *App) moveSelected(delta int) {
	if a.filter != "" || len(a.items) == 0 {
		return
	}
	item := a.items[a.cursor]
	if item.Kind == ItemCollection {
		return
	}

	target := a.cursor + delta
	if target < 0 || target >= len(a.items) || a.items[target].Kind != item.Kind {
		return // at the edge of the sibling group
	}

	prev := a.siblingIDs(item.Kind)
	ids := make([]string, len(prev))
	copy(ids, prev)
	pos := indexOf(ids, item.ID())
	ids[pos], ids[pos+delta] = ids[pos+delta], ids[pos]

	a.applyOrder(item.Kind, ids)
	a.refreshItems()
	a.cursor = target

	var err error
	if item.Kind == ItemFolder {
		err = a.store.ReorderFolders(ids)
	} else {
		err = a.store.ReorderBookmarks(ids)
	}
	if err != nil {
		// Revert to the last known-good order.
		a.applyOrder(item.Kind, prev)
		a.refreshItems()
		a.cursor = target - delta
		a.status = fmt.Sprintf("reorder failed: %v", err)
		return
	}
	a.status = ""
}

// siblingIDs returns the ordered ids of the selected kind in the current
// sibling group.
func (a *App) siblingIDs(kind ItemKind) []string {
	var ids []string
	for _, item := range a.items {
		if item.Kind == kind {
			ids = append(ids, item.ID())
		}
	}
	return ids
}

// applyOrder rewrites the local sort orders of a sibling group to match
// the given id order.
func (a *App) applyOrder(kind ItemKind, ids []string) {
	for order, id := range ids {
		if kind == ItemFolder {
			for i := range a.folders {
				if a.folders[i].ID == id {
					a.folders[i].SortOrder = order
				}
			}
		} else {
			for i := range a.bookmarks {
				if a.bookmarks[i].ID == id {
					a.bookmarks[i].SortOrder = order
				}
			}
		}
	}
}

// yankSelected copies the selected bookmark's URL to the clipboard.
func (a *App) yankSelected() {
	if len(a.items) == 0 || a.items[a.cursor].Kind != ItemBookmark {
		return
	}
	url := a.items[a.cursor].Bookmark.URL
	if err := clipboard.WriteAll(url); err != nil {
		a.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	a.status = "URL copied"
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
