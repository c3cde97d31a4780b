package tui

import "github.com/nikbrunner/marks/internal/model"

// ItemKind distinguishes the entity kinds shown in a list.
type ItemKind int

const (
	ItemCollection ItemKind = iota
	ItemFolder
	ItemBookmark
)

// Item represents a collection, folder or bookmark in the list.
type Item struct {
	Kind       ItemKind
	Collection *model.Collection
	Folder     *model.Folder
	Bookmark   *model.Bookmark
}

// ID returns the item's ID regardless of type.
func (i Item) ID() string {
	switch i.Kind {
	case ItemCollection:
		return i.Collection.ID
	case ItemFolder:
		return i.Folder.ID
	default:
		return i.Bookmark.ID
	}
}

// Title returns a display title for the item.
func (i Item) Title() string {
	switch i.Kind {
	case ItemCollection:
		return i.Collection.Name
	case ItemFolder:
		return i.Folder.Name
	default:
		return i.Bookmark.Title
	}
}
