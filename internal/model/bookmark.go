package model

import "time"

// Bookmark represents a saved URL with metadata. CollectionID is carried
// even when the bookmark lives inside a folder, so sibling lookups never
// need to join through the folder table.
type Bookmark struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Description  *string   `json:"description"`
	Icon         *string   `json:"icon"`
	IsFeatured   bool      `json:"isFeatured"`
	SortOrder    int       `json:"sortOrder"`
	CollectionID string    `json:"collectionId"`
	FolderID     *string   `json:"folderId"` // nil = collection root
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Title        string
	URL          string
	Description  *string
	Icon         *string
	IsFeatured   bool
	CollectionID string
	FolderID     *string
}

// NewBookmark creates a Bookmark with generated UUID and timestamps.
// SortOrder is left at zero; the store assigns the append position.
func NewBookmark(params NewBookmarkParams) Bookmark {
	now := time.Now()
	return Bookmark{
		ID:           NewID(),
		Title:        params.Title,
		URL:          params.URL,
		Description:  params.Description,
		Icon:         params.Icon,
		IsFeatured:   params.IsFeatured,
		CollectionID: params.CollectionID,
		FolderID:     params.FolderID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
