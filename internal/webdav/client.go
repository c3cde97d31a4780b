// Package webdav wraps the remote file store used for snapshot backups.
// The remote holds only derived, replaceable data; the client exposes the
// small get/put/exists/list/delete surface the sync engine needs and maps
// transport failures onto the shared error taxonomy.
package webdav

import (
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/nikbrunner/marks/internal/fault"
)

// connectTimeout bounds every remote call so a stalled server surfaces as
// a transport error instead of a hung operation.
const connectTimeout = 10 * time.Second

// Config holds the connection parameters for a WebDAV server.
type Config struct {
	URL      string
	Username string
	Password string
	// RemotePath is the directory on the server that holds the backups.
	RemotePath string
}

// Validate checks that the connection parameters are complete.
func (c Config) Validate() error {
	if c.URL == "" || c.Username == "" || c.Password == "" {
		return fault.New(fault.KindValidation, "webdav configuration incomplete: url, username and password are required")
	}
	return nil
}

// Entry is a remote directory listing entry.
type Entry struct {
	Name       string
	ModifiedAt time.Time
}

// Client is a thin WebDAV client with basic-auth credentials and a fixed
// per-call timeout.
type Client struct {
	dav *gowebdav.Client
}

// New creates a Client for the given server.
func New(cfg Config) *Client {
	dav := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	dav.SetTimeout(connectTimeout)
	return &Client{dav: dav}
}

// Check validates credentials and reachability, and creates dir on the
// server if it does not exist yet. Called before the first export so an
// upload never fails on a missing target directory.
func (c *Client) Check(dir string) error {
	if err := c.dav.Connect(); err != nil {
		return wrapRemote(err, "connect to webdav server")
	}

	dir = strings.Trim(dir, "/")
	if dir == "" {
		return nil
	}
	if _, err := c.dav.Stat(dir); err != nil {
		if !gowebdav.IsErrNotFound(err) {
			return wrapRemote(err, "stat remote directory")
		}
		if err := c.dav.MkdirAll(dir, 0755); err != nil {
			return wrapRemote(err, "create remote directory")
		}
	}
	return nil
}

// Get reads a remote file.
func (c *Client) Get(path string) ([]byte, error) {
	data, err := c.dav.Read(path)
	if err != nil {
		return nil, wrapRemote(err, "read %s", path)
	}
	return data, nil
}

// Put writes a remote file, overwriting any existing content.
func (c *Client) Put(path string, data []byte) error {
	if err := c.dav.Write(path, data, 0644); err != nil {
		return wrapRemote(err, "write %s", path)
	}
	return nil
}

// Exists reports whether a remote file is present.
func (c *Client) Exists(path string) (bool, error) {
	_, err := c.dav.Stat(path)
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return false, nil
		}
		return false, wrapRemote(err, "stat %s", path)
	}
	return true, nil
}

// List returns the entries of a remote directory with their modification
// times.
func (c *Client) List(dir string) ([]Entry, error) {
	infos, err := c.dav.ReadDir(dir)
	if err != nil {
		return nil, wrapRemote(err, "list %s", dir)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		entries = append(entries, Entry{Name: info.Name(), ModifiedAt: info.ModTime()})
	}
	return entries, nil
}

// Delete removes a remote file.
func (c *Client) Delete(path string) error {
	if err := c.dav.Remove(path); err != nil {
		return wrapRemote(err, "delete %s", path)
	}
	return nil
}

// wrapRemote classifies a gowebdav error. Authentication failures and
// timeouts stay transport errors but get distinct messages, since a caller
// can sensibly retry a timeout and not a bad password.
func wrapRemote(err error, format string, args ...any) error {
	switch {
	case gowebdav.IsErrNotFound(err):
		return fault.Wrap(fault.KindNotFound, err, format, args...)
	case gowebdav.IsErrCode(err, 401), gowebdav.IsErrCode(err, 403):
		return fault.Wrap(fault.KindTransport, errors.New("authentication failed: check username and password"), format, args...)
	case isTimeout(err):
		return fault.Wrap(fault.KindTransport, errors.New("connection timed out: check that the server is reachable"), format, args...)
	default:
		return fault.Wrap(fault.KindTransport, err, format, args...)
	}
}

func isTimeout(err error) bool {
	if os.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
