package layout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source resolves template names to their bodies. Resolution may block
// on I/O; implementations should honor ctx cancellation where they can.
type Source interface {
	Load(ctx context.Context, name string) (string, error)
	Exists(ctx context.Context, name string) bool
}

// MemorySource serves template bodies from an in-memory map.
type MemorySource map[string]string

func (m MemorySource) Load(_ context.Context, name string) (string, error) {
	if s, ok := m[name]; ok {
		return s, nil
	}
	return "", TemplateNotFoundError{Name: name}
}

func (m MemorySource) Exists(_ context.Context, name string) bool {
	_, ok := m[name]
	return ok
}

// DirSource serves template bodies from base directories searched in
// order, trying each candidate extension; the first hit wins. An empty
// Exts list means names are used as given.
type DirSource struct {
	Dirs []string
	Exts []string
}

// NewDirSource returns a DirSource over the given directories.
func NewDirSource(dirs ...string) *DirSource {
	return &DirSource{Dirs: dirs}
}

func (d *DirSource) resolve(name string) (string, bool) {
	// Reject names that climb out of the base directories.
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", false
	}
	exts := d.Exts
	if len(exts) == 0 {
		exts = []string{""}
	}
	for _, dir := range d.Dirs {
		for _, ext := range exts {
			p := filepath.Join(dir, clean+ext)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, true
			}
		}
	}
	return "", false
}

func (d *DirSource) Load(_ context.Context, name string) (string, error) {
	p, ok := d.resolve(name)
	if !ok {
		return "", TemplateNotFoundError{Name: name}
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", name, err)
	}
	return string(b), nil
}

func (d *DirSource) Exists(_ context.Context, name string) bool {
	_, ok := d.resolve(name)
	return ok
}
