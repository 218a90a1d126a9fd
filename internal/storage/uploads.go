package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// StorageError reports a filesystem failure in the upload store or the
// result sink.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// StoredName derives the on-disk name for an uploaded file: the sanitized
// base name with a millisecond timestamp wedged between stem and extension,
// so concurrent uploads with the same client-supplied name land in distinct
// files. Two uploads with the same base name in the same millisecond can
// still collide; callers accept that.
func StoredName(filename string, ts time.Time) string {
	base := sanitizeFilename(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return fmt.Sprintf("%s_%d%s", stem, ts.UnixMilli(), ext)
}

// sanitizeFilename reduces an untrusted client-supplied name to a bare base
// name. The result never contains path separators or traversal components.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		name = "upload"
	}

	return name
}

// UploadStore persists uploaded file content under a directory.
type UploadStore struct {
	dir string
	now func() time.Time
}

// NewUploadStore returns a store writing into dir. The directory is created
// on first save if it does not exist.
func NewUploadStore(dir string) *UploadStore {
	return &UploadStore{dir: dir, now: time.Now}
}

// Save writes content under a StoredName derived from filename and returns
// the path of the stored file. The data is flushed to disk before Save
// returns.
func (s *UploadStore) Save(filename string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", &StorageError{Op: "create upload dir", Path: s.dir, Err: err}
	}

	dst := filepath.Join(s.dir, StoredName(filename, s.now()))

	f, err := os.Create(dst)
	if err != nil {
		return "", &StorageError{Op: "create", Path: dst, Err: err}
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", &StorageError{Op: "write", Path: dst, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", &StorageError{Op: "sync", Path: dst, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &StorageError{Op: "close", Path: dst, Err: err}
	}

	return dst, nil
}
