// Package patch rewrites import lines in files placed under src/. The
// templates are authored for a root-level layout; two lib files import the
// root env.mjs and need one more "../" once they live under src/lib.
//
// Matching is an exact substring search. A file whose import line was
// already patched, or edited by hand, is left alone.
package patch

import (
	"bytes"
	"fmt"

	"github.com/authstarter/nextjs-auth-starter/internal/target"
)

// ImportPatch replaces Search with Replace in File.
type ImportPatch struct {
	File    string // slash-separated, relative to the project root
	Search  string
	Replace string
}

// Outcome is what happened to one patched file.
type Outcome int

const (
	Patched Outcome = iota
	NoMatch
	MissingFile
)

func (o Outcome) String() string {
	switch o {
	case Patched:
		return "patched"
	case NoMatch:
		return "no match"
	case MissingFile:
		return "missing"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result reports one patch.
type Result struct {
	File    string
	Outcome Outcome
}

// DefaultPatches returns the import fixes for the src/ layout.
func DefaultPatches() []ImportPatch {
	return []ImportPatch{
		{
			File:    "src/lib/mailjet.ts",
			Search:  `import { env } from "../env.mjs";`,
			Replace: `import { env } from "../../env.mjs";`,
		},
		{
			File:    "src/lib/drizzle/index.ts",
			Search:  `import { env } from "../../env.mjs";`,
			Replace: `import { env } from "../../../env.mjs";`,
		},
	}
}

// Apply runs each patch against dir. Only the first occurrence of Search
// is replaced, and a file is rewritten only when it changed.
func Apply(dir *target.Dir, patches []ImportPatch) ([]Result, error) {
	results := make([]Result, 0, len(patches))
	for _, p := range patches {
		outcome, err := applyOne(dir, p)
		if err != nil {
			return results, err
		}
		results = append(results, Result{File: p.File, Outcome: outcome})
	}
	return results, nil
}

func applyOne(dir *target.Dir, p ImportPatch) (Outcome, error) {
	exists, err := dir.Exists(p.File)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", p.File, err)
	}
	if !exists {
		return MissingFile, nil
	}

	data, err := dir.ReadFile(p.File)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", p.File, err)
	}

	search := []byte(p.Search)
	if p.Search == "" || !bytes.Contains(data, search) {
		return NoMatch, nil
	}

	updated := bytes.Replace(data, search, []byte(p.Replace), 1)
	if err := dir.WriteFile(p.File, updated); err != nil {
		return 0, fmt.Errorf("writing %s: %w", p.File, err)
	}
	return Patched, nil
}
