// Package blob stores uploaded images on local disk or in an S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/domain"
)

// PublicPrefix is the URL path under which disk uploads are served.
const PublicPrefix = "/uploads/"

// Disk writes blobs into a local directory.
type Disk struct {
	dir string
}

var _ domain.BlobStore = (*Disk)(nil)

// NewDisk creates the upload directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the directory the blobs are written to.
func (d *Disk) Dir() string { return d.dir }

// Put writes data under name and returns its public path.
func (d *Disk) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(d.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return PublicPrefix + name, nil
}
