// Package storage keeps uploaded files on local disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/smartstock/smartstock/internal/platform/httpx"
)

// DefaultMaxBytes caps a single upload.
const DefaultMaxBytes = 5 << 20

var (
	// ErrUnsupportedType rejects files whose extension or content is not an accepted image type.
	ErrUnsupportedType = fmt.Errorf("storage: unsupported file type: %w", httpx.ErrValidation)
	// ErrTooLarge rejects files larger than the configured limit.
	ErrTooLarge = fmt.Errorf("storage: file too large: %w", httpx.ErrValidation)
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// sniffBytes is how much of an upload is read to detect its content type.
const sniffBytes = 3072

// Disk stores files in a directory served under a public URL prefix.
type Disk struct {
	dir      string
	prefix   string
	maxBytes int64
}

// NewDisk prepares dir and returns a Disk that publishes files under prefix.
func NewDisk(dir, prefix string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Disk{dir: dir, prefix: "/" + strings.Trim(prefix, "/"), maxBytes: maxBytes}, nil
}

// Save writes the content of r under a fresh name that keeps the extension of
// original and returns the public path of the stored file.
func (d *Disk) Save(original string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if _, ok := imageExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	head := make([]byte, sniffBytes)
	read, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("storage: read upload: %w", err)
	}
	head = head[:read]
	if !isImage(head) {
		return "", ErrUnsupportedType
	}
	r = io.MultiReader(bytes.NewReader(head), r)

	name := uuid.NewString() + ext
	target := filepath.Join(d.dir, name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, d.maxBytes+1))
	closeErr := f.Close()
	if err == nil && n > d.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", err
	}
	return path.Join(d.prefix, name), nil
}

func isImage(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	return slices.ContainsFunc(imageTypes, mimetype.Detect(head).Is)
}

// Remove deletes a file previously returned by Save. Paths outside the
// prefix are ignored.
func (d *Disk) Remove(publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, d.prefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Handler serves stored files under the public prefix.
func (d *Disk) Handler() http.Handler {
	return http.StripPrefix(d.prefix, http.FileServer(http.Dir(d.dir)))
}

// Prefix is the public URL prefix of stored files.
func (d *Disk) Prefix() string {
	return d.prefix
}
