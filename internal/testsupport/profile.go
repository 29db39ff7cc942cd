package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmux/internal/profile"
)

// NewProfile returns a validated profile whose input, output and names
// paths live under a fresh temp directory. mutate runs before validation.
func NewProfile(t testing.TB, mutate func(*profile.Profile)) *profile.Profile {
	t.Helper()

	base := t.TempDir()
	p := profile.Default()
	p.InputDir = filepath.Join(base, "in")
	p.OutputDir = filepath.Join(base, "out")
	p.NamesFile = filepath.Join(base, "names.txt")
	for _, dir := range []string{p.InputDir, p.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if mutate != nil {
		mutate(&p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("profile.Validate: %v", err)
	}
	return &p
}

// WriteNames writes one title per line to the profile's names file.
func WriteNames(t testing.TB, p *profile.Profile, titles ...string) {
	t.Helper()

	data := strings.Join(titles, "\n") + "\n"
	if err := os.WriteFile(p.NamesFile, []byte(data), 0o644); err != nil {
		t.Fatalf("write names: %v", err)
	}
}
