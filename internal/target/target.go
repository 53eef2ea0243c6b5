// Package target describes the project directory being modified. Every
// phase of a run receives a *Dir instead of reading process-wide state, so
// the same code runs against the real filesystem or an in-memory one.
package target

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// File and directory modes used for everything the tool creates.
const (
	FilePerm os.FileMode = 0644
	DirPerm  os.FileMode = 0755
)

// Dir is a project root on a filesystem.
type Dir struct {
	Root string
	Fs   afero.Fs
}

// New returns a Dir for root on the host filesystem.
func New(root string) *Dir {
	return &Dir{Root: root, Fs: afero.NewOsFs()}
}

// NewMem returns a Dir rooted at root on a fresh in-memory filesystem.
func NewMem(root string) *Dir {
	return &Dir{Root: root, Fs: afero.NewMemMapFs()}
}

// Path joins rel onto the project root.
func (d *Dir) Path(rel string) string {
	return filepath.Join(d.Root, filepath.FromSlash(rel))
}

// Rel returns path relative to the project root with forward slashes. If
// path is outside the root it is returned unchanged.
func (d *Dir) Rel(path string) string {
	rel, err := filepath.Rel(d.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Exists reports whether rel exists under the root. Errors other than
// "not exist" are returned.
func (d *Dir) Exists(rel string) (bool, error) {
	_, err := d.Fs.Stat(d.Path(rel))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether rel exists and is a directory.
func (d *Dir) IsDir(rel string) (bool, error) {
	info, err := d.Fs.Stat(d.Path(rel))
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadFile reads rel.
func (d *Dir) ReadFile(rel string) ([]byte, error) {
	return afero.ReadFile(d.Fs, d.Path(rel))
}

// WriteFile writes data to rel, creating parent directories.
func (d *Dir) WriteFile(rel string, data []byte) error {
	path := d.Path(rel)
	if err := d.Fs.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	return afero.WriteFile(d.Fs, path, data, FilePerm)
}

// MkdirAll creates rel and any missing parents.
func (d *Dir) MkdirAll(rel string) error {
	return d.Fs.MkdirAll(d.Path(rel), DirPerm)
}
