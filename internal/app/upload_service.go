package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"storefront/internal/domain"
)

// MaxUploadSize is the largest accepted image, in bytes.
const MaxUploadSize = 5 << 20

// UploadService validates images and hands them to the blob store.
type UploadService struct {
	blobs domain.BlobStore
	now   func() time.Time
}

// NewUploadService creates an UploadService writing to blobs.
func NewUploadService(blobs domain.BlobStore) *UploadService {
	return &UploadService{blobs: blobs, now: time.Now}
}

// nonImageTypes are sniffed content types that can never be an image,
// whatever the client declared. Formats the sniffer does not know (HEIC,
// AVIF, SVG) fall through and are trusted on their declared type.
var nonImageTypes = []string{
	"text/html",
	"application/pdf",
	"application/zip",
	"application/x-gzip",
	"application/x-rar-compressed",
	"application/wasm",
	"audio/",
	"video/",
}

// Upload stores an image and returns its public URL. contentType is the
// type declared by the client and must start with image/.
func (s *UploadService) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if r == nil || strings.TrimSpace(filename) == "" {
		return "", invalid("file", "Dosya seçilmedi")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", invalid("file", "Sadece resim dosyaları yüklenebilir")
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return "", invalid("file", "Dosya seçilmedi")
	}
	if n > MaxUploadSize {
		return "", invalid("file", "Dosya boyutu 5MB'dan küçük olmalıdır")
	}
	if isNonImage(http.DetectContentType(buf.Bytes())) {
		return "", invalid("file", "Sadece resim dosyaları yüklenebilir")
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizeFilename(filename))
	url, err := s.blobs.Put(ctx, name, contentType, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return url, nil
}

func isNonImage(sniffed string) bool {
	for _, t := range nonImageTypes {
		if strings.HasPrefix(sniffed, t) {
			return true
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "image"
	}
	return out
}
