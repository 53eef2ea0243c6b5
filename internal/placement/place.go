package placement

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/authstarter/nextjs-auth-starter/internal/target"
)

// Action is the outcome of placing one file.
type Action int

const (
	Created Action = iota
	Overwritten
	SkippedExisting
	SkippedMissingSource
)

func (a Action) String() string {
	switch a {
	case Created:
		return "created"
	case Overwritten:
		return "overwritten"
	case SkippedExisting:
		return "skipped (exists)"
	case SkippedMissingSource:
		return "skipped (no template)"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Entry records what happened to one destination path.
type Entry struct {
	Path   string // slash-separated, relative to the project root
	Action Action
}

// TreeResult summarizes one tree rule.
type TreeResult struct {
	Dest   string
	Merged bool // destination existed before the run
}

// Report is the outcome of Place, in rule order.
type Report struct {
	Entries []Entry
	Trees   []TreeResult
}

// Count returns how many entries have action a.
func (r *Report) Count(a Action) int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == a {
			n++
		}
	}
	return n
}

// Paths returns the paths of entries with action a.
func (r *Report) Paths(a Action) []string {
	var out []string
	for _, e := range r.Entries {
		if e.Action == a {
			out = append(out, e.Path)
		}
	}
	return out
}

// Lookup returns the entry for path.
func (r *Report) Lookup(p string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Path == p {
			return e, true
		}
	}
	return Entry{}, false
}

// excludedNames are never copied from an on-disk template directory.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

func shouldExclude(name string) bool {
	return excludedNames[name]
}

// Place applies rules, copying from src into dir. It stops at the first
// filesystem error; files placed before the error stay on disk.
func Place(src fs.FS, dir *target.Dir, rules []Rule) (*Report, error) {
	report := &Report{}

	for _, r := range rules {
		if r.Scope == DirectoryTree {
			if err := dir.MkdirAll(path.Dir(r.Dest)); err != nil {
				return report, fmt.Errorf("creating %s: %w", path.Dir(r.Dest), err)
			}
		}
	}

	for _, r := range rules {
		var err error
		switch r.Scope {
		case RootFile:
			err = placeFile(src, dir, r, report)
		case DirectoryTree:
			err = placeTree(src, dir, r, report)
		default:
			err = fmt.Errorf("unknown scope %v", r.Scope)
		}
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

func placeFile(src fs.FS, dir *target.Dir, r Rule, report *Report) error {
	info, err := fs.Stat(src, r.Source)
	if errors.Is(err, fs.ErrNotExist) {
		report.Entries = append(report.Entries, Entry{Path: r.Dest, Action: SkippedMissingSource})
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading template %s: %w", r.Source, err)
	}
	if info.IsDir() {
		return fmt.Errorf("template %s is a directory, expected a file", r.Source)
	}

	action, err := copyOne(src, dir, r.Source, r.Dest, r.overwrites(""))
	if err != nil {
		return err
	}
	report.Entries = append(report.Entries, Entry{Path: r.Dest, Action: action})
	return nil
}

func placeTree(src fs.FS, dir *target.Dir, r Rule, report *Report) error {
	info, err := fs.Stat(src, r.Source)
	if errors.Is(err, fs.ErrNotExist) {
		report.Entries = append(report.Entries, Entry{Path: r.Dest, Action: SkippedMissingSource})
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading template %s: %w", r.Source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template %s is a file, expected a directory", r.Source)
	}

	merged, err := dir.IsDir(r.Dest)
	if err != nil {
		return fmt.Errorf("checking %s: %w", r.Dest, err)
	}
	report.Trees = append(report.Trees, TreeResult{Dest: r.Dest, Merged: merged})

	return fs.WalkDir(src, r.Source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking template %s: %w", p, err)
		}
		if p != r.Source && shouldExclude(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, r.Source), "/")
		dest := path.Join(r.Dest, rel)

		if d.IsDir() {
			if err := dir.MkdirAll(dest); err != nil {
				return fmt.Errorf("creating %s: %w", dest, err)
			}
			return nil
		}
		// Skip symlinks and other special files.
		if !d.Type().IsRegular() {
			return nil
		}

		action, err := copyOne(src, dir, p, dest, r.overwrites(rel))
		if err != nil {
			return err
		}
		report.Entries = append(report.Entries, Entry{Path: dest, Action: action})
		return nil
	})
}

// copyOne copies srcPath to dest unless dest exists and overwrite is false.
func copyOne(src fs.FS, dir *target.Dir, srcPath, dest string, overwrite bool) (Action, error) {
	exists, err := dir.Exists(dest)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", dest, err)
	}
	if exists && !overwrite {
		return SkippedExisting, nil
	}

	data, err := fs.ReadFile(src, srcPath)
	if err != nil {
		return 0, fmt.Errorf("reading template %s: %w", srcPath, err)
	}
	if err := dir.WriteFile(dest, data); err != nil {
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}

	if exists {
		return Overwritten, nil
	}
	return Created, nil
}
