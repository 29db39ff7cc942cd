package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// ebmlMagic opens every Matroska file.
var ebmlMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

// WriteFile creates path with size bytes: the Matroska magic followed by
// filler. Sizes too small for the magic still write at least one byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	data := append([]byte(nil), ebmlMagic...)
	if int64(len(data)) > size {
		data = data[:size]
	}
	if pad := size - int64(len(data)); pad > 0 {
		data = append(data, bytes.Repeat([]byte{0xec}, int(pad))...)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
