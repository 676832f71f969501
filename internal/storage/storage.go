// Package storage writes accepted uploads to a flat local directory keyed
// by short random names.
package storage

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"imagenet-web/internal/imaging"
)

const (
	nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	nameLength   = 6
)

// Store is an append-only local directory of uploaded images.
type Store struct {
	dir string
}

// New creates the uploads directory if it does not exist and returns a
// Store over it. Called once at startup, before the server accepts requests.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the uploads directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path a stored name maps to.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save writes data verbatim under name and returns the full path. The path
// is only returned once the write has completed, so callers never hand a
// partially-written file to the classifier.
func (s *Store) Save(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	slog.Info("Image saved", "filename", name, "bytes", len(data))
	return path, nil
}

// RandomName produces a storage key of six lowercase-alphanumeric characters
// plus the format's canonical extension. The 36^6 name space makes accidental
// collision between concurrent uploads negligible; an existing file with the
// same name is silently overwritten.
func RandomName(f imaging.Format) string {
	var b strings.Builder
	b.Grow(nameLength + 1 + len(f.Ext()))
	for range nameLength {
		b.WriteByte(nameAlphabet[rand.IntN(len(nameAlphabet))])
	}
	b.WriteByte('.')
	b.WriteString(f.Ext())
	return b.String()
}
