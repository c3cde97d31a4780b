package model

import "time"

// Collection is a top-level namespace for folders and bookmarks.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // url-safe, unique across collections
	IsPublic  bool      `json:"isPublic"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCollectionParams holds parameters for creating a new Collection.
type NewCollectionParams struct {
	Name     string
	Slug     string // optional, derived from Name if empty
	IsPublic bool
}

// NewCollection creates a Collection with generated UUID and timestamps.
func NewCollection(params NewCollectionParams) Collection {
	slug := params.Slug
	if slug == "" {
		slug = Slugify(params.Name)
	}

	now := time.Now()
	return Collection{
		ID:        NewID(),
		Name:      params.Name,
		Slug:      slug,
		IsPublic:  params.IsPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
