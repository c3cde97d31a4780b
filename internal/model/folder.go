package model

import "time"

// Folder is a node in a tree scoped to exactly one Collection.
type Folder struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Icon         *string   `json:"icon"`
	IsPublic     bool      `json:"isPublic"`
	Password     *string   `json:"password"` // optional access secret
	SortOrder    int       `json:"sortOrder"`
	CollectionID string    `json:"collectionId"`
	ParentID     *string   `json:"parentId"` // nil = collection root
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name         string
	Icon         *string
	IsPublic     bool
	Password     *string
	CollectionID string
	ParentID     *string
}

// NewFolder creates a Folder with generated UUID and timestamps.
// SortOrder is left at zero; the store assigns the append position.
func NewFolder(params NewFolderParams) Folder {
	now := time.Now()
	return Folder{
		ID:           NewID(),
		Name:         params.Name,
		Icon:         params.Icon,
		IsPublic:     params.IsPublic,
		Password:     params.Password,
		CollectionID: params.CollectionID,
		ParentID:     params.ParentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
