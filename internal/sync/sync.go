// Package sync orchestrates snapshot backups against the remote store:
// upload (export, write latest + timestamped copy, rotate old copies),
// download (fetch, validate, destructive restore), and the scheduling gate
// for automatic runs.
package sync

import (
	"context"
	"log"
	"path"
	"sort"
	"time"

	"github.com/nikbrunner/marks/internal/fault"
	"github.com/nikbrunner/marks/internal/snapshot"
	"github.com/nikbrunner/marks/internal/storage"
	"github.com/nikbrunner/marks/internal/webdav"
)

// Persisted configuration keys. The values live in the store's settings
// table; inline CLI parameters override them per call.
const (
	SettingURL      = "webdav_url"
	SettingUsername = "webdav_username"
	SettingPassword = "webdav_password"
	SettingPath     = "webdav_path"
	SettingAutoSync = "webdav_autosync"
)

const (
	// LatestObject is overwritten on every upload so a consumer wanting
	// only the newest state never has to enumerate the directory.
	LatestObject = "bookmarks.json"

	backupPrefix     = "backup-"
	backupSuffix     = ".json"
	backupTimeFormat = "20060102-150405"

	// retainBackups is the number of timestamped copies kept next to the
	// latest object. Older copies are pruned after each upload.
	retainBackups = 3

	// defaultRemotePath is used when no remote directory is configured.
	defaultRemotePath = "/marks"
)

// Remote is the file-store surface the engine needs. *webdav.Client
// implements it; tests substitute an in-memory fake.
type Remote interface {
	Check(dir string) error
	Get(path string) ([]byte, error)
	Put(path string, data []byte) error
	Exists(path string) (bool, error)
	List(dir string) ([]webdav.Entry, error)
	Delete(path string) error
}

// Engine runs backup and restore operations against one store.
type Engine struct {
	store     *storage.Store
	newRemote func(webdav.Config) Remote
	now       func() time.Time
	logf      func(format string, args ...any)
}

// Params holds parameters for creating an Engine. NewRemote, Now and Logf
// are optional and default to the real implementations.
type Params struct {
	Store     *storage.Store
	NewRemote func(webdav.Config) Remote
	Now       func() time.Time
	Logf      func(format string, args ...any)
}

// New creates an Engine.
func New(params Params) *Engine {
	e := &Engine{
		store:     params.Store,
		newRemote: params.NewRemote,
		now:       params.Now,
		logf:      params.Logf,
	}
	if e.newRemote == nil {
		e.newRemote = func(cfg webdav.Config) Remote { return webdav.New(cfg) }
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logf == nil {
		e.logf = log.Printf
	}
	return e
}

// LoadConfig reads the persisted remote-store configuration.
func (e *Engine) LoadConfig() (webdav.Config, error) {
	var cfg webdav.Config
	var err error

	if cfg.URL, err = e.store.GetSetting(SettingURL); err != nil {
		return cfg, err
	}
	if cfg.Username, err = e.store.GetSetting(SettingUsername); err != nil {
		return cfg, err
	}
	if cfg.Password, err = e.store.GetSetting(SettingPassword); err != nil {
		return cfg, err
	}
	if cfg.RemotePath, err = e.store.GetSetting(SettingPath); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveConfig fills empty override fields from the persisted settings.
func (e *Engine) resolveConfig(override webdav.Config) (webdav.Config, error) {
	saved, err := e.LoadConfig()
	if err != nil {
		return webdav.Config{}, err
	}

	cfg := override
	if cfg.URL == "" {
		cfg.URL = saved.URL
	}
	if cfg.Username == "" {
		cfg.Username = saved.Username
	}
	if cfg.Password == "" {
		cfg.Password = saved.Password
	}
	if cfg.RemotePath == "" {
		cfg.RemotePath = saved.RemotePath
	}
	if cfg.RemotePath == "" {
		cfg.RemotePath = defaultRemotePath
	}
	return cfg, cfg.Validate()
}

// Test checks credentials, reachability, and that the backup directory
// exists (creating it if needed).
func (e *Engine) Test(override webdav.Config) error {
	cfg, err := e.resolveConfig(override)
	if err != nil {
		return err
	}
	return e.newRemote(cfg).Check(cfg.RemotePath)
}

// UploadResult reports what an upload produced.
type UploadResult struct {
	Collections int    // collections in the exported snapshot
	Backup      string // name of the timestamped backup object
}

// Upload exports the full store and writes it to the remote: the latest
// object is overwritten, a timestamped backup copy is added, and copies
// beyond the retention count are pruned. Rotation failures are logged and
// swallowed; the export itself already succeeded and stays the result.
func (e *Engine) Upload(override webdav.Config) (UploadResult, error) {
	cfg, err := e.resolveConfig(override)
	if err != nil {
		return UploadResult{}, err
	}

	remote := e.newRemote(cfg)
	if err := remote.Check(cfg.RemotePath); err != nil {
		return UploadResult{}, err
	}

	snap, err := snapshot.Export(e.store)
	if err != nil {
		return UploadResult{}, err
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		return UploadResult{}, err
	}

	if err := remote.Put(path.Join(cfg.RemotePath, LatestObject), data); err != nil {
		return UploadResult{}, err
	}

	backupName := backupPrefix + e.now().UTC().Format(backupTimeFormat) + backupSuffix
	if err := remote.Put(path.Join(cfg.RemotePath, backupName), data); err != nil {
		return UploadResult{}, err
	}

	e.rotate(remote, cfg.RemotePath)

	return UploadResult{Collections: len(snap.Data), Backup: backupName}, nil
}

// AutoUpload is the time-triggered entry point. It consults the persisted
// auto-sync flag first: when disabled it reports a no-op success, never an
// error. Manual uploads bypass this gate entirely.
func (e *Engine) AutoUpload() (UploadResult, bool, error) {
	enabled, err := e.store.GetSetting(SettingAutoSync)
	if err != nil {
		return UploadResult{}, false, err
	}
	if enabled != "true" {
		return UploadResult{}, false, nil
	}

	result, err := e.Upload(webdav.Config{})
	return result, true, err
}

// Download fetches the latest snapshot from the remote and restores it,
// destructively replacing all local data. Validation happens before the
// wipe; a malformed remote document leaves the store untouched.
func (e *Engine) Download(override webdav.Config) error {
	cfg, err := e.resolveConfig(override)
	if err != nil {
		return err
	}

	remote := e.newRemote(cfg)
	latest := path.Join(cfg.RemotePath, LatestObject)

	exists, err := remote.Exists(latest)
	if err != nil {
		return err
	}
	if !exists {
		return fault.New(fault.KindNotFound, "no backup found at %s", latest)
	}

	data, err := remote.Get(latest)
	if err != nil {
		return err
	}

	snap, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	return e.store.Restore(context.Background(), snap)
}

// rotate prunes timestamped backups beyond the retention count, newest
// first by recorded modification time. Failures here never fail the
// upload; they are logged and the next rotation gets another chance.
func (e *Engine) rotate(remote Remote, dir string) {
	entries, err := remote.List(dir)
	if err != nil {
		e.logf("backup rotation: list %s: %v", dir, err)
		return
	}

	var backups []webdav.Entry
	for _, entry := range entries {
		if len(entry.Name) > len(backupPrefix)+len(backupSuffix) &&
			entry.Name[:len(backupPrefix)] == backupPrefix &&
			entry.Name[len(entry.Name)-len(backupSuffix):] == backupSuffix {
			backups = append(backups, entry)
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].ModifiedAt.Equal(backups[j].ModifiedAt) {
			return backups[i].ModifiedAt.After(backups[j].ModifiedAt)
		}
		// The name embeds the export timestamp, so it breaks ties when the
		// server reports coarse modification times.
		return backups[i].Name > backups[j].Name
	})

	for _, stale := range backups[min(retainBackups, len(backups)):] {
		if err := remote.Delete(path.Join(dir, stale.Name)); err != nil {
			e.logf("backup rotation: delete %s: %v", stale.Name, err)
		}
	}
}
