package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"imagenet-web/internal/imaging"
)

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("uploads directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("uploads path exists but is not a directory")
	}
	if store.Dir() != dir {
		t.Errorf("Expected dir %s, got %s", dir, store.Dir())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	path, err := store.Save("abc123.jpeg", data)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	readBack, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if !bytes.Equal(readBack, data) {
		t.Errorf("stored bytes differ from input: got %v, want %v", readBack, data)
	}
}

func TestRandomNameShape(t *testing.T) {
	tests := []struct {
		format  imaging.Format
		pattern string
	}{
		{imaging.FormatJPEG, `^[a-z0-9]{6}\.jpeg$`},
		{imaging.FormatPNG, `^[a-z0-9]{6}\.png$`},
	}

	for _, tt := range tests {
		re := regexp.MustCompile(tt.pattern)
		for range 1000 {
			name := RandomName(tt.format)
			if !re.MatchString(name) {
				t.Fatalf("RandomName(%v) = %q, want match for %s", tt.format, name, tt.pattern)
			}
		}
	}
}

func TestRandomNameCollisions(t *testing.T) {
	// 100k draws from a 36^6 space expects ~2 birthday collisions. A count
	// far above that points at a broken randomness source, not bad luck.
	const draws = 100000
	seen := make(map[string]struct{}, draws)

	duplicates := 0
	for range draws {
		name := RandomName(imaging.FormatPNG)
		if _, ok := seen[name]; ok {
			duplicates++
		}
		seen[name] = struct{}{}
	}

	if duplicates > 10 {
		t.Errorf("Expected at most a handful of duplicates across %d draws, got %d", draws, duplicates)
	}
}
