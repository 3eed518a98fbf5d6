// Package uploads stores proof files on local disk under random names.
// The returned reference is opaque to callers; it doubles as the public
// path the file is served back from.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	dErrors "fundbook/pkg/domain-errors"
)

// publicPrefix is the URL segment proof files are served under.
const publicPrefix = "uploads"

// Store saves an uploaded file and returns its reference.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskStore writes uploads to a directory, one file per upload, named by a
// fresh UUID with the original extension preserved.
type DiskStore struct {
	dir      string
	maxBytes int64
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory uploads are written to, for the static file route.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save streams r to disk and returns the stored reference. Files larger
// than the configured maximum are rejected and nothing is kept.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(filepath.Base(filename))
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(dst)
		return "", dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("file exceeds maximum upload size of %d bytes", s.maxBytes))
	}

	return path.Join(publicPrefix, name), nil
}
