// Package blob stores attachment payloads as opaque key->bytes pairs,
// separate from the relational metadata. The Store interface is the seam an
// object-storage client would fill; DirStore is the local-disk default.
package blob

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no payload exists for a key.
var ErrNotFound = errors.New("blob not found")

// Store is a key->bytes payload store.
type Store interface {
	Put(key string, r io.Reader) error
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// Compile-time check that DirStore implements Store.
var _ Store = (*DirStore)(nil)

// DirStore keeps payloads as files under a root directory. Keys may contain
// "/" separators; anything escaping the root is rejected.
type DirStore struct {
	root string
}

// NewDirStore creates (if needed) and wraps the given directory.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &DirStore{root: root}, nil
}

func (d *DirStore) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty blob key")
	}
	p := filepath.Join(d.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(d.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("blob key %q escapes store root", key)
	}
	return p, nil
}

// Put writes the payload for key, creating parent directories as needed.
// An existing payload under the same key is overwritten.
func (d *DirStore) Put(key string, r io.Reader) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating blob parent directory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating blob file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	return f.Close()
}

// Get opens the payload for key. The caller closes the reader.
func (d *DirStore) Get(key string) (io.ReadCloser, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening blob %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the payload for key. Deleting a missing key is ErrNotFound.
func (d *DirStore) Delete(key string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
