package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
)

// CreateFolder inserts a new folder at the end of its sibling group.
// The parent, when set, must exist and belong to the same collection.
func (s *Store) CreateFolder(params model.NewFolderParams) (model.Folder, error) {
	if strings.TrimSpace(params.Name) == "" || params.CollectionID == "" {
		return model.Folder{}, fault.New(fault.KindValidation, "folder name and collection are required")
	}

	folder := model.NewFolder(params)

	tx, err := s.db.Begin()
	if err != nil {
		return model.Folder{}, fault.Wrap(fault.KindInternal, err, "begin transaction")
	}
	defer tx.Rollback()

	if err := collectionExists(tx, folder.CollectionID); err != nil {
		return model.Folder{}, err
	}
	if folder.ParentID != nil {
		if err := folderInCollection(tx, *folder.ParentID, folder.CollectionID); err != nil {
			return model.Folder{}, err
		}
	}

	// Append at the end of the (collection, parent) sibling group.
	folder.SortOrder, err = nextSortOrder(tx, "folders", "parent_id", folder.CollectionID, folder.ParentID)
	if err != nil {
		return model.Folder{}, err
	}

	_, err = tx.Exec(`
		INSERT INTO folders (id, name, icon, is_public, password, sort_order, collection_id, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, folder.ID, folder.Name, nullStr(folder.Icon), boolInt(folder.IsPublic), nullStr(folder.Password),
		folder.SortOrder, folder.CollectionID, nullStr(folder.ParentID),
		folder.CreatedAt.Format(time.RFC3339), folder.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return model.Folder{}, fault.Wrap(fault.KindInternal, err, "insert folder")
	}

	if err := tx.Commit(); err != nil {
		return model.Folder{}, fault.Wrap(fault.KindInternal, err, "commit folder")
	}
	return folder, nil
}

// ListFolders returns all folders of a collection ordered by sort order.
func (s *Store) ListFolders(collectionID string) ([]model.Folder, error) {
	rows, err := s.db.Query(`
		SELECT id, name, icon, is_public, password, sort_order, collection_id, parent_id, created_at, updated_at
		FROM folders
		WHERE collection_id = ?
		ORDER BY sort_order, created_at
	`, collectionID)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "query folders")
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fault.Wrap(fault.KindInternal, err, "scan folder")
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "iterate folders")
	}

	return folders, nil
}

// MoveFolder reparents a folder within its collection and appends it at the
// end of the destination sibling group. Cross-collection parents and moves
// that would make the folder its own ancestor are rejected.
func (s *Store) MoveFolder(id string, newParentID *string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "begin transaction")
	}
	defer tx.Rollback()

	var collectionID string
	err = tx.QueryRow("SELECT collection_id FROM folders WHERE id = ?", id).Scan(&collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindNotFound, "folder %q not found", id)
	}
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query folder")
	}

	if newParentID != nil {
		if *newParentID == id {
			return fault.New(fault.KindConflict, "folder cannot be its own parent")
		}
		if err := folderInCollection(tx, *newParentID, collectionID); err != nil {
			return err
		}
		if err := checkNoCycle(tx, id, *newParentID); err != nil {
			return err
		}
	}

	sortOrder, err := nextSortOrder(tx, "folders", "parent_id", collectionID, newParentID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE folders SET parent_id = ?, sort_order = ?, updated_at = ? WHERE id = ?
	`, nullStr(newParentID), sortOrder, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "update folder parent")
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "commit move")
	}
	return nil
}

// DeleteFolder removes a folder, its descendant folders, and every bookmark
// under any of them, in one transaction.
func (s *Store) DeleteFolder(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "begin transaction")
	}
	defer tx.Rollback()

	var collectionID string
	err = tx.QueryRow("SELECT collection_id FROM folders WHERE id = ?", id).Scan(&collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindNotFound, "folder %q not found", id)
	}
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query folder")
	}

	subtree, err := subtreeIDs(tx, collectionID, id)
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(subtree)), ",")
	args := make([]any, len(subtree))
	for i, fid := range subtree {
		args[i] = fid
	}

	if _, err := tx.Exec("DELETE FROM bookmarks WHERE folder_id IN ("+placeholders+")", args...); err != nil {
		return fault.Wrap(fault.KindInternal, err, "delete subtree bookmarks")
	}
	if _, err := tx.Exec("DELETE FROM folders WHERE id IN ("+placeholders+")", args...); err != nil {
		return fault.Wrap(fault.KindInternal, err, "delete subtree folders")
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "commit delete")
	}
	return nil
}

// subtreeIDs returns id plus every descendant folder id, computed from the
// collection's folder list so a single query suffices.
func subtreeIDs(tx *sql.Tx, collectionID, id string) ([]string, error) {
	rows, err := tx.Query("SELECT id, parent_id FROM folders WHERE collection_id = ?", collectionID)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "query collection folders")
	}
	defer rows.Close()

	children := map[string][]string{}
	for rows.Next() {
		var fid string
		var parentID sql.NullString
		if err := rows.Scan(&fid, &parentID); err != nil {
			return nil, fault.Wrap(fault.KindInternal, err, "scan folder row")
		}
		if parentID.Valid {
			children[parentID.String] = append(children[parentID.String], fid)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "iterate folder rows")
	}

	subtree := []string{id}
	for i := 0; i < len(subtree); i++ {
		subtree = append(subtree, children[subtree[i]]...)
	}
	return subtree, nil
}

// checkNoCycle walks up from newParentID; finding id on the way means the
// move would make the folder its own ancestor.
func checkNoCycle(tx *sql.Tx, id, newParentID string) error {
	current := newParentID
	seen := map[string]bool{}
	for {
		if current == id {
			return fault.New(fault.KindConflict, "moving folder %q under %q would create a cycle", id, newParentID)
		}
		if seen[current] {
			// Pre-existing cycle in the chain; the move cannot make it worse
			// but is still refused.
			return fault.New(fault.KindConflict, "parent chain of %q already contains a cycle", newParentID)
		}
		seen[current] = true

		var parentID sql.NullString
		err := tx.QueryRow("SELECT parent_id FROM folders WHERE id = ?", current).Scan(&parentID)
		if errors.Is(err, sql.ErrNoRows) || err == nil && !parentID.Valid {
			return nil
		}
		if err != nil {
			return fault.Wrap(fault.KindInternal, err, "walk parent chain")
		}
		current = parentID.String
	}
}

// folderInCollection verifies the folder exists and belongs to the given
// collection.
func folderInCollection(tx *sql.Tx, folderID, collectionID string) error {
	var actual string
	err := tx.QueryRow("SELECT collection_id FROM folders WHERE id = ?", folderID).Scan(&actual)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindConflict, "parent folder %q does not exist", folderID)
	}
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query parent folder")
	}
	if actual != collectionID {
		return fault.New(fault.KindConflict, "folder %q belongs to another collection", folderID)
	}
	return nil
}

func collectionExists(tx *sql.Tx, id string) error {
	var one int
	err := tx.QueryRow("SELECT 1 FROM collections WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindNotFound, "collection %q not found", id)
	}
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query collection")
	}
	return nil
}

// nextSortOrder computes max(sort_order)+1 for the exact (collection,
// parent) sibling group, so new items append at the end of the visible
// order. An empty group yields 0.
func nextSortOrder(tx *sql.Tx, table, parentCol, collectionID string, parentID *string) (int, error) {
	var maxOrder sql.NullInt64
	err := tx.QueryRow(
		"SELECT MAX(sort_order) FROM "+table+" WHERE collection_id = ? AND "+parentCol+" IS ?",
		collectionID, nullStr(parentID),
	).Scan(&maxOrder)
	if err != nil {
		return 0, fault.Wrap(fault.KindInternal, err, "compute sort order")
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func scanFolder(sc scanner) (model.Folder, error) {
	var f model.Folder
	var icon, password, parentID sql.NullString
	var isPublic int
	var createdAt, updatedAt string

	if err := sc.Scan(&f.ID, &f.Name, &icon, &isPublic, &password, &f.SortOrder,
		&f.CollectionID, &parentID, &createdAt, &updatedAt); err != nil {
		return model.Folder{}, err
	}

	f.Icon = strPtr(icon)
	f.IsPublic = isPublic == 1
	f.Password = strPtr(password)
	f.ParentID = strPtr(parentID)
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	f.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return f, nil
}
