package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
)

// CreateCollection inserts a new collection. An empty slug is derived from
// the name; a taken slug gets a numeric suffix so it stays unique.
func (s *Store) CreateCollection(params model.NewCollectionParams) (model.Collection, error) {
	if strings.TrimSpace(params.Name) == "" {
		return model.Collection{}, fault.New(fault.KindValidation, "collection name is required")
	}

	col := model.NewCollection(params)
	if col.Slug == "" {
		return model.Collection{}, fault.New(fault.KindValidation, "collection name %q yields an empty slug", params.Name)
	}

	slug, err := s.uniqueSlug(col.Slug)
	if err != nil {
		return model.Collection{}, err
	}
	col.Slug = slug

	var maxOrder sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(sort_order) FROM collections").Scan(&maxOrder); err != nil {
		return model.Collection{}, fault.Wrap(fault.KindInternal, err, "compute collection sort order")
	}
	if maxOrder.Valid {
		col.SortOrder = int(maxOrder.Int64) + 1
	}

	_, err = s.db.Exec(`
		INSERT INTO collections (id, name, slug, is_public, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, col.ID, col.Name, col.Slug, boolInt(col.IsPublic), col.SortOrder,
		col.CreatedAt.Format(time.RFC3339), col.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return model.Collection{}, fault.Wrap(fault.KindInternal, err, "insert collection")
	}

	return col, nil
}

// uniqueSlug appends -2, -3, ... until the slug is free.
func (s *Store) uniqueSlug(base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var exists int
		err := s.db.QueryRow("SELECT 1 FROM collections WHERE slug = ?", slug).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", fault.Wrap(fault.KindInternal, err, "check slug")
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// ListCollections returns all collections ordered by sort order.
func (s *Store) ListCollections() ([]model.Collection, error) {
	rows, err := s.db.Query(`
		SELECT id, name, slug, is_public, sort_order, created_at, updated_at
		FROM collections
		ORDER BY sort_order, created_at
	`)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "query collections")
	}
	defer rows.Close()

	collections := []model.Collection{}
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, fault.Wrap(fault.KindInternal, err, "scan collection")
		}
		collections = append(collections, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "iterate collections")
	}

	return collections, nil
}

// GetCollectionBySlug returns the collection with the given slug.
func (s *Store) GetCollectionBySlug(slug string) (model.Collection, error) {
	row := s.db.QueryRow(`
		SELECT id, name, slug, is_public, sort_order, created_at, updated_at
		FROM collections
		WHERE slug = ?
	`, slug)

	col, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Collection{}, fault.New(fault.KindNotFound, "collection %q not found", slug)
	}
	if err != nil {
		return model.Collection{}, fault.Wrap(fault.KindInternal, err, "query collection")
	}
	return col, nil
}

// DeleteCollection removes a collection and everything it owns. The delete
// runs bookmarks first, then folders, then the collection row, in one
// transaction, so no dangling child can survive a partial failure.
func (s *Store) DeleteCollection(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "begin delete transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bookmarks WHERE collection_id = ?", id); err != nil {
		return fault.Wrap(fault.KindInternal, err, "delete collection bookmarks")
	}
	if _, err := tx.Exec("DELETE FROM folders WHERE collection_id = ?", id); err != nil {
		return fault.Wrap(fault.KindInternal, err, "delete collection folders")
	}

	res, err := tx.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "delete collection")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fault.New(fault.KindNotFound, "collection %q not found", id)
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindInternal, err, "commit delete")
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanCollection(sc scanner) (model.Collection, error) {
	var col model.Collection
	var isPublic int
	var createdAt, updatedAt string

	if err := sc.Scan(&col.ID, &col.Name, &col.Slug, &isPublic, &col.SortOrder, &createdAt, &updatedAt); err != nil {
		return model.Collection{}, err
	}

	col.IsPublic = isPublic == 1
	col.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	col.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return col, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
