package store

import (
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yagro/gostore/internal/config"
	"github.com/yagro/gostore/pkg/errors"
)

// LocalStore persists uploaded files on the local filesystem. It resolves
// logical filenames to absolute paths under a base directory and to
// public URLs under a configured prefix, and performs a race-safe write
// of uploaded bytes into the resolved location.
//
// Files are written directly to their destination with overwrite
// semantics: there is no locking and no atomic rename, so concurrent
// writers to the same filename race and the last write wins, and a reader
// observing Exists mid-write may see a partial file. Callers that need
// uniqueness or atomicity layer it above this store.
type LocalStore struct {
	basePath    string
	urlPrefix   string
	domain      string
	destination string
}

// NewLocalStore creates a local store from the given configuration.
// Unset settings receive their defaults (base path: working directory,
// URL prefix: /flaskstore) without disturbing explicitly set values, and
// the base path is resolved to an absolute path up front.
func NewLocalStore(cfg *config.StoreConfig) (*LocalStore, error) {
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, errors.ConfigError("failed to apply store defaults", err)
	}

	return &LocalStore{
		basePath:    cfg.BasePath,
		urlPrefix:   cfg.URLPrefix,
		domain:      cfg.Domain,
		destination: cfg.Destination,
	}, nil
}

// BasePath returns the absolute directory under which all files live.
func (s *LocalStore) BasePath() string {
	return s.basePath
}

// Join joins path segments safely: every segment after the first has
// leading separators stripped before concatenation, so a segment like
// /etc/passwd cannot anchor the join to the filesystem root. Any
// trailing separator is stripped from the result. This is the single
// path-safety primitive; every other path and URL builder is built on
// the same stripping rule.
func (s *LocalStore) Join(parts ...string) string {
	sep := string(filepath.Separator)

	joined := ""
	for i, part := range parts {
		if i > 0 {
			part = strings.TrimLeft(part, sep)
		}
		joined = filepath.Join(joined, part)
	}

	return strings.TrimRight(joined, sep)
}

// urlJoin applies the same separator-stripping join to URL segments.
func (s *LocalStore) urlJoin(parts ...string) string {
	joined := ""
	for i, part := range parts {
		if i > 0 {
			part = strings.TrimLeft(part, "/")
		}
		joined = path.Join(joined, part)
	}

	return strings.TrimRight(joined, "/")
}

// AbsolutePath returns the absolute filesystem location for filename,
// always anchored under the base path. When a destination is set the
// file lives under base_path/destination/filename.
func (s *LocalStore) AbsolutePath(filename string) string {
	return s.Join(s.basePath, s.RelativePath(filename))
}

// RelativePath returns the store-specific portion of the path: the
// destination (when set) joined with the filename. This is what callers
// persist to map a database row back to a file.
func (s *LocalStore) RelativePath(filename string) string {
	if s.destination != "" {
		return s.Join(s.destination, filename)
	}
	return s.Join(filename)
}

// relativeURLPath builds the unencoded URL path: prefix, destination
// when set, then the filename.
func (s *LocalStore) relativeURLPath(filename string) string {
	parts := []string{s.urlPrefix}
	if s.destination != "" {
		parts = append(parts, s.destination)
	}
	parts = append(parts, filename)

	return s.urlJoin(parts...)
}

// RelativeURL returns the public URL for filename minus the domain,
// URI-encoded with "/" kept as the segment separator.
func (s *LocalStore) RelativeURL(filename string) string {
	return pathToURI(s.relativeURLPath(filename))
}

// AbsoluteURL resolves the relative URL against the configured domain
// using standard URL-join semantics and returns it URI-encoded. With no
// domain (or one that does not parse) it falls back to the relative URL.
func (s *LocalStore) AbsoluteURL(filename string) string {
	if s.domain == "" {
		return s.RelativeURL(filename)
	}

	base, err := url.Parse(s.domain)
	if err != nil {
		return s.RelativeURL(filename)
	}

	ref := &url.URL{Path: s.relativeURLPath(filename)}
	return base.ResolveReference(ref).String()
}

// Exists reports whether filename is present at its resolved absolute
// path. The filesystem is queried at call time; callers must tolerate
// TOCTOU races against concurrent writers.
func (s *LocalStore) Exists(filename string) (bool, error) {
	_, err := os.Stat(s.AbsolutePath(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.StorageError("stat", err)
	}
	return true, nil
}

// Save persists the uploaded file under its sanitized filename and
// returns that name as the canonical stored reference. Missing parent
// directories are created; two concurrent calls racing on the creation
// both succeed, since an "already exists" outcome counts as success. The
// upload handle is released exactly once on every exit path.
func (s *LocalStore) Save(file UploadedFile) (string, error) {
	defer file.Close()

	filename, err := SafeFilename(file.Filename())
	if err != nil {
		return "", err
	}

	dest := s.AbsolutePath(filename)
	dir := filepath.Dir(dest)

	if err := os.MkdirAll(dir, 0755); err != nil && !stderrors.Is(err, fs.ErrExist) {
		// MkdirAll reports ENOTDIR when the parent slot is occupied by a
		// plain file; surface that as the not-a-directory failure.
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return "", errors.NotADirectory(dir)
		}
		return "", errors.DirectoryCreation(dir, err)
	}

	// Verify the parent even when creation was skipped: something else
	// may occupy the path.
	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.DirectoryCreation(dir, err)
	}
	if !info.IsDir() {
		return "", errors.NotADirectory(dir)
	}

	if err := file.SaveTo(dest); err != nil {
		return "", errors.WriteError(dest, err)
	}

	return filename, nil
}

// pathToURI encodes characters unsafe in a URL while leaving "/" as the
// segment separator.
func pathToURI(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// Verify interface compliance at compile time
var _ Provider = (*LocalStore)(nil)
