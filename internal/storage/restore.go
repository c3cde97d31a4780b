package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
)

// RestoreTimeout bounds a full wipe-and-reload. Bulk restores over
// thousands of rows are expected, but exceeding the budget is a hard
// failure with full rollback, never a partial commit.
const RestoreTimeout = 60 * time.Second

// Restore destructively replaces the entire store with the snapshot's
// contents inside one transaction. Existing bookmarks, folders and
// collections are deleted in that order; the snapshot's rows are then
// reinstated verbatim, identifiers included.
//
// Folder rows self-reference through parent_id and the snapshot does not
// guarantee parents precede children, so folders are materialized in two
// phases: every row is inserted with a null parent first, then the rows
// that had one get their parent patched in. By the second phase every
// target id exists, so the reference is always satisfiable.
func (s *Store) Restore(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return fault.New(fault.KindValidation, "restore: nil snapshot")
	}
	if err := checkFolderGraph(snap); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, RestoreTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "begin restore transaction")
	}
	defer tx.Rollback()

	// Wipe, children before owners.
	for _, table := range []string{"bookmarks", "folders", "collections"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fault.Wrap(fault.KindInternal, err, "clear %s", table)
		}
	}

	for _, col := range snap.Data {
		if err := restoreCollection(ctx, tx, col); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "commit restore")
	}
	return nil
}

// checkFolderGraph enforces the hierarchy invariants the two insert phases
// cannot: every parent reference must name a folder of the same collection,
// and no parent chain may loop. Runs before the wipe, so a bad document
// never costs any local data.
func checkFolderGraph(snap *model.Snapshot) error {
	for _, col := range snap.Data {
		parents := make(map[string]*string, len(col.Folders))
		for _, f := range col.Folders {
			parents[f.ID] = f.ParentID
		}

		for _, f := range col.Folders {
			seen := map[string]bool{f.ID: true}
			current := f.ParentID
			for current != nil {
				next, ok := parents[*current]
				if !ok {
					return fault.New(fault.KindConflict,
						"restore: folder %q references parent %q outside collection %q", f.ID, *current, col.Slug)
				}
				if seen[*current] {
					return fault.New(fault.KindConflict,
						"restore: folder %q sits in a parent cycle in collection %q", f.ID, col.Slug)
				}
				seen[*current] = true
				current = next
			}
		}
	}
	return nil
}

func restoreCollection(ctx context.Context, tx *sql.Tx, col model.SnapshotCollection) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO collections (id, name, slug, is_public, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, col.ID, col.Name, col.Slug, boolInt(col.IsPublic), col.SortOrder,
		col.CreatedAt.Format(time.RFC3339), col.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "restore collection %q", col.Slug)
	}

	// Phase A: every folder row exists before any parent reference is
	// written.
	folderStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO folders (id, name, icon, is_public, password, sort_order, collection_id, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
	`)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "prepare folder insert")
	}
	defer folderStmt.Close()

	for _, f := range col.Folders {
		_, err := folderStmt.ExecContext(ctx, f.ID, f.Name, nullStr(f.Icon), boolInt(f.IsPublic),
			nullStr(f.Password), f.SortOrder, col.ID,
			f.CreatedAt.Format(time.RFC3339), f.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return fault.Wrap(fault.KindInternal, err, "restore folder %q", f.Name)
		}
	}

	// Phase B: patch the recorded parents.
	parentStmt, err := tx.PrepareContext(ctx, "UPDATE folders SET parent_id = ? WHERE id = ?")
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "prepare parent update")
	}
	defer parentStmt.Close()

	for _, f := range col.Folders {
		if f.ParentID == nil {
			continue
		}
		if _, err := parentStmt.ExecContext(ctx, *f.ParentID, f.ID); err != nil {
			return fault.Wrap(fault.KindInternal, err, "link folder %q to its parent", f.Name)
		}
	}

	// Bookmarks always carry both folder_id and collection_id so the
	// restored rows satisfy the same-collection invariant.
	bookmarkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bookmarks (id, title, url, description, icon, is_featured, sort_order, collection_id, folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "prepare bookmark insert")
	}
	defer bookmarkStmt.Close()

	insertBookmark := func(b model.Bookmark, folderID *string) error {
		_, err := bookmarkStmt.ExecContext(ctx, b.ID, b.Title, b.URL, nullStr(b.Description),
			nullStr(b.Icon), boolInt(b.IsFeatured), b.SortOrder, col.ID, nullStr(folderID),
			b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return fault.Wrap(fault.KindInternal, err, "restore bookmark %q", b.Title)
		}
		return nil
	}

	for _, f := range col.Folders {
		folderID := f.ID
		for _, b := range f.Bookmarks {
			if err := insertBookmark(b, &folderID); err != nil {
				return err
			}
		}
	}
	for _, b := range col.Bookmarks {
		if err := insertBookmark(b, nil); err != nil {
			return err
		}
	}

	return nil
}
