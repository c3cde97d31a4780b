package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
)

// CreateBookmark inserts a new bookmark at the end of its sibling group.
// The folder, when set, must belong to the bookmark's collection.
func (s *Store) CreateBookmark(params model.NewBookmarkParams) (model.Bookmark, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.URL) == "" || params.CollectionID == "" {
		return model.Bookmark{}, fault.New(fault.KindValidation, "bookmark title, url and collection are required")
	}

	bookmark := model.NewBookmark(params)

	tx, err := s.db.Begin()
	if err != nil {
		return model.Bookmark{}, fault.Wrap(fault.KindInternal, err, "begin transaction")
	}
	defer tx.Rollback()

	if err := collectionExists(tx, bookmark.CollectionID); err != nil {
		return model.Bookmark{}, err
	}
	if bookmark.FolderID != nil {
		if err := folderInCollection(tx, *bookmark.FolderID, bookmark.CollectionID); err != nil {
			return model.Bookmark{}, err
		}
	}

	bookmark.SortOrder, err = nextSortOrder(tx, "bookmarks", "folder_id", bookmark.CollectionID, bookmark.FolderID)
	if err != nil {
		return model.Bookmark{}, err
	}

	_, err = tx.Exec(`
		INSERT INTO bookmarks (id, title, url, description, icon, is_featured, sort_order, collection_id, folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, bookmark.ID, bookmark.Title, bookmark.URL, nullStr(bookmark.Description), nullStr(bookmark.Icon),
		boolInt(bookmark.IsFeatured), bookmark.SortOrder, bookmark.CollectionID, nullStr(bookmark.FolderID),
		bookmark.CreatedAt.Format(time.RFC3339), bookmark.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return model.Bookmark{}, fault.Wrap(fault.KindInternal, err, "insert bookmark")
	}

	if err := tx.Commit(); err != nil {
		return model.Bookmark{}, fault.Wrap(fault.KindInternal, err, "commit bookmark")
	}
	return bookmark, nil
}

// ListBookmarks returns all bookmarks of a collection ordered by sort order.
func (s *Store) ListBookmarks(collectionID string) ([]model.Bookmark, error) {
	rows, err := s.db.Query(`
		SELECT id, title, url, description, icon, is_featured, sort_order, collection_id, folder_id, created_at, updated_at
		FROM bookmarks
		WHERE collection_id = ?
		ORDER BY sort_order, created_at
	`, collectionID)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "query bookmarks")
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fault.Wrap(fault.KindInternal, err, "scan bookmark")
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "iterate bookmarks")
	}

	return bookmarks, nil
}

// MoveBookmark moves a bookmark to another folder of the same collection
// (nil = collection root) and appends it at the end of the destination
// sibling group.
func (s *Store) MoveBookmark(id string, newFolderID *string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "begin transaction")
	}
	defer tx.Rollback()

	var collectionID string
	err = tx.QueryRow("SELECT collection_id FROM bookmarks WHERE id = ?", id).Scan(&collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindNotFound, "bookmark %q not found", id)
	}
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query bookmark")
	}

	if newFolderID != nil {
		if err := folderInCollection(tx, *newFolderID, collectionID); err != nil {
			return err
		}
	}

	sortOrder, err := nextSortOrder(tx, "bookmarks", "folder_id", collectionID, newFolderID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE bookmarks SET folder_id = ?, sort_order = ?, updated_at = ? WHERE id = ?
	`, nullStr(newFolderID), sortOrder, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "update bookmark folder")
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "commit move")
	}
	return nil
}

// DeleteBookmark removes a single bookmark.
func (s *Store) DeleteBookmark(id string) error {
	res, err := s.db.Exec("DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "delete bookmark")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fault.New(fault.KindNotFound, "bookmark %q not found", id)
	}
	return nil
}

func scanBookmark(sc scanner) (model.Bookmark, error) {
	var b model.Bookmark
	var description, icon, folderID sql.NullString
	var isFeatured int
	var createdAt, updatedAt string

	if err := sc.Scan(&b.ID, &b.Title, &b.URL, &description, &icon, &isFeatured,
		&b.SortOrder, &b.CollectionID, &folderID, &createdAt, &updatedAt); err != nil {
		return model.Bookmark{}, err
	}

	b.Description = strPtr(description)
	b.Icon = strPtr(icon)
	b.IsFeatured = isFeatured == 1
	b.FolderID = strPtr(folderID)
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return b, nil
}
