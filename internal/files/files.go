// Package files stores uploaded images in a directory on disk.
package files

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// ErrInvalidName is returned for names that would escape the upload directory.
var ErrInvalidName = errors.New("invalid file name")

// Dir is a flat blob store rooted at a directory.
type Dir struct {
	root string
}

// NewDir creates the directory if needed and returns a store rooted at it.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory the store writes to.
func (d *Dir) Root() string {
	return d.root
}

// GenerateName returns a collision-resistant file name of the form
// <unix millis>-<random hex><ext>.
func GenerateName(now time.Time, ext string) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating file name: %w", err)
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + hex.EncodeToString(buf) + ext, nil
}

// Save writes data under name and returns its public reference. Existing files
// are never overwritten.
func (d *Dir) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validName(name) {
		return "", ErrInvalidName
	}

	p := filepath.Join(d.root, name)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("closing file: %w", err)
	}

	return URLPrefix + name, nil
}

// Path resolves a stored file name to its location on disk.
func (d *Dir) Path(name string) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.root, name), nil
}

// Remove deletes a stored file by its public reference.
func (d *Dir) Remove(ref string) error {
	name := path.Base(ref)
	p, err := d.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// validName rejects empty names, dot entries and anything containing a path separator.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && path.Base(name) == name
}
