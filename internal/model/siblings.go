package model

import "sort"

// FoldersIn returns the folders belonging to the exact
// (collectionID, parentID) sibling group, ordered by SortOrder.
// Pass nil parentID for collection-root folders.
func FoldersIn(folders []Folder, collectionID string, parentID *string) []Folder {
	var result []Folder
	for _, f := range folders {
		if f.CollectionID == collectionID && ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result
}

// BookmarksIn returns the bookmarks belonging to the exact
// (collectionID, folderID) sibling group, ordered by SortOrder.
// Pass nil folderID for collection-root bookmarks.
func BookmarksIn(bookmarks []Bookmark, collectionID string, folderID *string) []Bookmark {
	var result []Bookmark
	for _, b := range bookmarks {
		if b.CollectionID == collectionID && ptrEqual(b.FolderID, folderID) {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
