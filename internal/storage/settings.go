package storage

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/nikbrunner/marks/internal/fault"
)

// Settings are opaque key/value rows used by collaborators (remote sync
// configuration, feature flags). They are not part of the hierarchy and
// survive a snapshot restore untouched.

// GetSetting returns the value for key, or "" if the key is unset.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fault.Wrap(fault.KindInternal, err, "query setting %q", key)
	}
	return value, nil
}

// SetSetting upserts a key/value pair. The group column is derived from
// the key prefix so related settings can be listed together.
func (s *Store) SetSetting(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fault.New(fault.KindValidation, "setting key is required")
	}

	grp := "system"
	if strings.HasPrefix(key, "webdav_") {
		grp = "webdav"
	}

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, grp) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value, grp)
	if err != nil {
		return fault.Wrap(fault.KindInternal, err, "save setting %q", key)
	}
	return nil
}

// ListSettings returns all settings of a group as a key/value map.
func (s *Store) ListSettings(group string) (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings WHERE grp = ?", group)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "query settings")
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fault.Wrap(fault.KindInternal, err, "scan setting")
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "iterate settings")
	}

	return settings, nil
}
