// Package snapshot turns the whole store into a portable, versioned
// document and validates incoming documents before they reach the
// destructive restore path.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/storage"
)

const (
	// Version tags the snapshot format. Additions to the document must be
	// ignorable by older restore logic; the tag only bumps on breaking
	// changes.
	Version = "1.0"

	// SourceApp identifies the producing application in snapshot metadata.
	SourceApp = "marks"
)

// Export reads every collection with its full folder and bookmark tree and
// wraps it in snapshot metadata. The read is a deep bulk dump; nothing is
// mutated, sort orders and timestamps are carried verbatim.
func Export(store *storage.Store) (*model.Snapshot, error) {
	collections, err := store.ListCollections()
	if err != nil {
		return nil, err
	}

	snap := &model.Snapshot{
		Meta: model.SnapshotMeta{
			Version:    Version,
			ExportedAt: time.Now().UTC(),
			SourceApp:  SourceApp,
		},
		Data: []model.SnapshotCollection{},
	}

	for _, col := range collections {
		folders, err := store.ListFolders(col.ID)
		if err != nil {
			return nil, err
		}
		bookmarks, err := store.ListBookmarks(col.ID)
		if err != nil {
			return nil, err
		}

		// Group bookmarks under their folder; the rest sit at the
		// collection root.
		byFolder := map[string][]model.Bookmark{}
		root := []model.Bookmark{}
		for _, b := range bookmarks {
			if b.FolderID != nil {
				byFolder[*b.FolderID] = append(byFolder[*b.FolderID], b)
			} else {
				root = append(root, b)
			}
		}

		exported := model.SnapshotCollection{
			Collection: col,
			Folders:    []model.SnapshotFolder{},
			Bookmarks:  root,
		}
		for _, f := range folders {
			sf := model.SnapshotFolder{Folder: f, Bookmarks: byFolder[f.ID]}
			if sf.Bookmarks == nil {
				sf.Bookmarks = []model.Bookmark{}
			}
			exported.Folders = append(exported.Folders, sf)
		}

		snap.Data = append(snap.Data, exported)
	}

	return snap, nil
}

// Encode serializes a snapshot as indented JSON, the payload written to the
// remote store.
func Encode(snap *model.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, err, "encode snapshot")
	}
	return data, nil
}

// Decode parses and validates a snapshot document. Malformed documents are
// rejected here, before any destructive restore step begins. Unknown extra
// fields are ignored for forward compatibility.
func Decode(data []byte) (*model.Snapshot, error) {
	// Shape check first, so a non-array data field reports a clear error
	// instead of a generic unmarshal failure.
	var shell struct {
		Meta json.RawMessage `json:"meta"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &shell); err != nil {
		return nil, fault.Wrap(fault.KindValidation, err, "snapshot is not valid JSON")
	}
	if len(shell.Data) == 0 || string(shell.Data) == "null" {
		return nil, fault.New(fault.KindValidation, "snapshot has no data array")
	}
	if shell.Data[0] != '[' {
		return nil, fault.New(fault.KindValidation, "snapshot data is not an array")
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fault.Wrap(fault.KindValidation, err, "snapshot does not match the expected shape")
	}

	if err := validate(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// validate checks the identifiers the restore engine relies on.
func validate(snap *model.Snapshot) error {
	for _, col := range snap.Data {
		if col.ID == "" || col.Name == "" {
			return fault.New(fault.KindValidation, "snapshot collection missing id or name")
		}
		for _, f := range col.Folders {
			if f.ID == "" {
				return fault.New(fault.KindValidation, "snapshot folder in %q missing id", col.Name)
			}
			for _, b := range f.Bookmarks {
				if b.ID == "" || b.URL == "" {
					return fault.New(fault.KindValidation, "snapshot bookmark in %q missing id or url", col.Name)
				}
			}
		}
		for _, b := range col.Bookmarks {
			if b.ID == "" || b.URL == "" {
				return fault.New(fault.KindValidation, "snapshot bookmark in %q missing id or url", col.Name)
			}
		}
	}
	return nil
}
