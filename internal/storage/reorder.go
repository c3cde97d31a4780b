package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
)

// ReorderFolders applies a new sibling ordering for folders. The ids must
// be all and only the current siblings of one (collection, parent) group,
// in their desired order; position in the slice becomes the sort order.
func (s *Store) ReorderFolders(ids []string) error {
	return s.reorder("folders", "parent_id", ids)
}

// ReorderBookmarks applies a new sibling ordering for bookmarks, with the
// same contract as ReorderFolders over (collection, folder) groups.
func (s *Store) ReorderBookmarks(ids []string) error {
	return s.reorder("bookmarks", "folder_id", ids)
}

// reorder validates the asserted sibling set against the stored group and
// rewrites every sort_order in a single transaction. Any mismatch aborts
// before a single row is touched, so concurrent readers only ever see the
// old order or the new one.
func (s *Store) reorder(table, parentCol string, ids []string) error {
	if len(ids) == 0 {
		return fault.New(fault.KindValidation, "reorder: empty id list")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fault.New(fault.KindValidation, "reorder: duplicate id %q", id)
		}
		seen[id] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "begin transaction")
	}
	defer tx.Rollback()

	// The first id anchors the sibling group being reordered.
	var collectionID string
	var parentID sql.NullString
	err = tx.QueryRow(
		"SELECT collection_id, "+parentCol+" FROM "+table+" WHERE id = ?", ids[0],
	).Scan(&collectionID, &parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindValidation, "reorder: unknown id %q", ids[0])
	}
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query anchor row")
	}

	rows, err := tx.Query(
		"SELECT id FROM "+table+" WHERE collection_id = ? AND "+parentCol+" IS ?",
		collectionID, parentID,
	)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "query sibling group")
	}
	siblings := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fault.Wrap(fault.KindInternal, err, "scan sibling id")
		}
		siblings[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "iterate sibling group")
	}

	// The asserted set must match the stored group exactly.
	if len(ids) != len(siblings) {
		return fault.New(fault.KindValidation,
			"reorder: got %d ids for a sibling group of %d", len(ids), len(siblings))
	}
	for _, id := range ids {
		if !siblings[id] {
			return fault.New(fault.KindValidation, "reorder: id %q is not part of the sibling group", id)
		}
	}

	stmt, err := tx.Prepare("UPDATE " + table + " SET sort_order = ?, updated_at = ? WHERE id = ?")
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "prepare update")
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for i, id := range ids {
		if _, err := stmt.Exec(i, now, id); err != nil {
			return fault.Wrap(fault.KindInternal, err, "update sort order")
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "commit reorder")
	}
	return nil
}
