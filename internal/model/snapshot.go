package model

import "time"

// Snapshot is a self-contained, point-in-time export of every collection
// with its full folder and bookmark tree. It is immutable once produced and
// is the unit of transfer to and from the remote store.
//
// Folders are carried as a flat list with parentId references rather than
// nested, which is why restoring requires the two-phase parent patch.
type Snapshot struct {
	Meta SnapshotMeta         `json:"meta"`
	Data []SnapshotCollection `json:"data"`
}

// SnapshotMeta identifies the format and origin of a snapshot.
type SnapshotMeta struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	SourceApp  string    `json:"sourceApp"`
}

// SnapshotCollection is a collection with its complete subtree.
// Bookmarks holds the collection-root bookmarks; folder-scoped bookmarks
// are inlined in their folder.
type SnapshotCollection struct {
	Collection
	Folders   []SnapshotFolder `json:"folders"`
	Bookmarks []Bookmark       `json:"bookmarks"`
}

// SnapshotFolder is a folder with its direct bookmarks.
type SnapshotFolder struct {
	Folder
	Bookmarks []Bookmark `json:"bookmarks"`
}
