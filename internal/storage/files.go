package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileTooLarge is returned by FileStore.Save when the body exceeds the limit.
var ErrFileTooLarge = errors.New("storage: file exceeds size limit")

// FileStore keeps uploaded manuscripts under a single directory. Files are
// named by a fresh uuid; the original name only lives in the FileRef.
type FileStore struct {
	dir   string
	limit int64
}

// NewFileStore returns a FileStore rooted at dir. A positive limit caps the
// number of bytes Save accepts.
func NewFileStore(dir string, limit int64) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &FileStore{dir: dir, limit: limit}, nil
}

// Dir returns the root directory.
func (f *FileStore) Dir() string {
	return f.dir
}

// Save copies r into a new file and returns its reference.
func (f *FileStore) Save(r io.Reader, name, contentType string) (FileRef, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".pdf"
	}
	stored := uuid.NewString() + ext
	path := filepath.Join(f.dir, stored)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return FileRef{}, fmt.Errorf("storage: create upload: %w", err)
	}

	src := r
	if f.limit > 0 {
		src = io.LimitReader(r, f.limit+1)
	}
	size, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && f.limit > 0 && size > f.limit {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return FileRef{}, err
	}

	return FileRef{
		Name:        filepath.Base(strings.TrimSpace(name)),
		ContentType: contentType,
		Size:        size,
		Path:        stored,
	}, nil
}

// Open returns a reader over a stored file.
func (f *FileStore) Open(ref FileRef) (io.ReadCloser, error) {
	path, err := f.resolve(ref)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return file, err
}

// Path returns the absolute location of a stored file.
func (f *FileStore) Path(ref FileRef) (string, error) {
	return f.resolve(ref)
}

// Remove deletes a stored file. Missing files are not an error.
func (f *FileStore) Remove(ref FileRef) error {
	path, err := f.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileStore) resolve(ref FileRef) (string, error) {
	name := filepath.Base(ref.Path)
	if name == "." || name == string(filepath.Separator) || name != ref.Path {
		return "", fmt.Errorf("storage: invalid file reference %q", ref.Path)
	}
	return filepath.Join(f.dir, name), nil
}
