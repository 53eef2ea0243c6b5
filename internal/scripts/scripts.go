// Package scripts adds the starter kit's database scripts to the target
// project's package.json. Existing scripts are never replaced, and the
// rest of the manifest keeps its key order.
package scripts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/authstarter/nextjs-auth-starter/internal/pkgjson"
	"github.com/authstarter/nextjs-auth-starter/internal/target"
)

// ManifestFile is the manifest updated by Merge.
const ManifestFile = "package.json"

// ErrNoManifest is returned when the target has no package.json.
var ErrNoManifest = errors.New("package.json not found")

// Entry is a script added to the manifest's "scripts" table.
type Entry struct {
	Key     string
	Command string
}

// Result is what happened to one entry.
type Result int

const (
	Added Result = iota
	SkippedAlreadyPresent
)

func (r Result) String() string {
	switch r {
	case Added:
		return "added"
	case SkippedAlreadyPresent:
		return "already present"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Outcome pairs a script key with its Result.
type Outcome struct {
	Key    string
	Result Result
}

// Report lists outcomes in entry order.
type Report struct {
	Entries []Outcome
	Written bool // manifest was rewritten
}

// Keys returns the keys with result r.
func (r *Report) Keys(res Result) []string {
	var out []string
	for _, o := range r.Entries {
		if o.Result == res {
			out = append(out, o.Key)
		}
	}
	return out
}

// DatabaseScripts returns the drizzle-kit workflow scripts.
func DatabaseScripts() []Entry {
	return []Entry{
		{Key: "db:generate", Command: "npx drizzle-kit generate"},
		{Key: "db:migrate", Command: "npx drizzle-kit migrate"},
		{Key: "db:push", Command: "npx drizzle-kit push"},
		{Key: "db:studio", Command: "npx drizzle-kit studio"},
	}
}

// Merge adds entries whose keys are absent from the manifest's scripts
// table, creating the table if needed. The manifest is left untouched if
// it cannot be parsed or if nothing was added.
func Merge(dir *target.Dir, manifest string, entries []Entry) (*Report, error) {
	exists, err := dir.Exists(manifest)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", manifest, err)
	}
	if !exists {
		return nil, ErrNoManifest
	}

	data, err := dir.ReadFile(manifest)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifest, err)
	}
	doc, err := pkgjson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifest, err)
	}

	table, err := scriptTable(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifest, err)
	}

	report := &Report{}
	for _, e := range entries {
		if table.Has(e.Key) {
			report.Entries = append(report.Entries, Outcome{Key: e.Key, Result: SkippedAlreadyPresent})
			continue
		}
		if err := table.Set(e.Key, e.Command); err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, Outcome{Key: e.Key, Result: Added})
	}

	if len(report.Keys(Added)) == 0 {
		return report, nil
	}

	if err := doc.Set("scripts", table); err != nil {
		return nil, err
	}
	out, err := pkgjson.Format(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", manifest, err)
	}
	if err := dir.WriteFile(manifest, out); err != nil {
		return nil, fmt.Errorf("writing %s: %w", manifest, err)
	}
	report.Written = true
	return report, nil
}

// scriptTable returns the manifest's "scripts" object. A missing or null
// table yields an empty one; any other non-object value is an error.
func scriptTable(doc *pkgjson.Object) (*pkgjson.Object, error) {
	raw, ok := doc.Raw("scripts")
	if !ok || isNull(raw) {
		return pkgjson.NewObject(), nil
	}
	table, _, err := doc.Object("scripts")
	if err != nil {
		return nil, fmt.Errorf("scripts must be an object: %w", err)
	}
	return table, nil
}

func isNull(raw json.RawMessage) bool {
	var v any
	return json.Unmarshal(raw, &v) == nil && v == nil
}
