package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge is returned by Save when the content exceeds the store limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// Upload is a stored file. Callers must call Remove when done.
type Upload struct {
	Path     string
	Metadata Metadata
}

// Remove deletes the stored file. Removing an already removed file is not an error.
func (u *Upload) Remove() error {
	if err := os.Remove(u.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload %s: %w", u.Path, err)
	}
	return nil
}

// UploadStore writes uploads into a directory under unique names that keep
// the original extension.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore creates a store in dir (os.TempDir when empty). maxBytes <= 0 disables the limit.
func NewUploadStore(dir string, maxBytes int64) *UploadStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes}
}

// Save copies r to a new file and returns it with its metadata. A partially
// written file is removed on failure.
func (s *UploadStore) Save(filename string, r io.Reader) (*Upload, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	ext := strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, "resume-"+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	hash := sha256.New()
	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	size, copyErr := io.Copy(io.MultiWriter(f, hash), src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("failed to write upload file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("failed to close upload file: %w", closeErr)
	case s.maxBytes > 0 && size > s.maxBytes:
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &Upload{
		Path:     path,
		Metadata: newMetadata(name, ext, size, hex.EncodeToString(hash.Sum(nil))),
	}, nil
}
