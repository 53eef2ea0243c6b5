// Package probe inspects a target directory before the starter kit is
// installed. It never fails a run: everything it finds is reported as an
// advisory warning.
package probe

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/authstarter/nextjs-auth-starter/internal/pkgjson"
	"github.com/authstarter/nextjs-auth-starter/internal/target"
)

// ManifestFile is the package manifest looked for at the project root.
const ManifestFile = "package.json"

// MinNextVersion is the first Next.js release with a stable App Router.
const MinNextVersion = "13.4.0"

// Trees are the src/ subdirectories the starter kit merges into.
var Trees = []string{"src/app", "src/components", "src/lib"}

// Result is the classification of a target directory.
type Result struct {
	HasManifest      bool
	ManifestReadable bool
	IsNextProject    bool
	NextRange        string // version range declared for "next", if any
	HasSrcDir        bool
	ExistingTrees    []string // entries of Trees that already exist
	Warnings         []Warning
}

// Warning is an advisory finding. Hint, when set, is a follow-up line.
type Warning struct {
	Message string
	Hint    string
}

// Probe classifies dir. Filesystem errors while probing are reported as
// warnings, never returned.
func Probe(dir *target.Dir) *Result {
	r := &Result{}
	probeManifest(dir, r)

	if ok, _ := dir.IsDir("src"); ok {
		r.HasSrcDir = true
	}
	for _, tree := range Trees {
		if ok, _ := dir.IsDir(tree); ok {
			r.ExistingTrees = append(r.ExistingTrees, tree)
		}
	}

	rootApp, _ := dir.IsDir("app")
	srcApp, _ := dir.IsDir("src/app")
	if rootApp && !srcApp {
		r.warn("Found app/ at the project root. Starter files are installed under src/app/.",
			"Move your routes into src/app/ or remove the root app/ directory so Next.js picks up src/.")
	}

	return r
}

func probeManifest(dir *target.Dir, r *Result) {
	exists, err := dir.Exists(ManifestFile)
	if err != nil {
		r.warn(fmt.Sprintf("Could not read %s: %v", ManifestFile, err), "")
		return
	}
	if !exists {
		r.warn("No package.json found. Make sure you are in a Next.js project directory.",
			"If this is a new project, run 'npx create-next-app@latest' first.")
		return
	}
	r.HasManifest = true

	data, err := dir.ReadFile(ManifestFile)
	if err != nil {
		r.warn("Could not read package.json", "")
		return
	}
	doc, err := pkgjson.Parse(data)
	if err != nil {
		r.warn("Could not read package.json", "")
		return
	}
	r.ManifestReadable = true

	r.NextRange, r.IsNextProject = nextDependency(doc)
	if !r.IsNextProject {
		r.warn("This doesn't appear to be a Next.js project. Next.js Auth Starter is designed for Next.js projects.", "")
		return
	}
	if below, floor := belowMinimum(r.NextRange); below {
		r.warn(fmt.Sprintf("Next.js %s is older than %s; the starter pages need the App Router.", floor, MinNextVersion),
			"Upgrade with 'npm install next@latest'.")
	}
}

// nextDependency looks for "next" in dependencies, then devDependencies.
func nextDependency(doc *pkgjson.Object) (string, bool) {
	for _, group := range []string{"dependencies", "devDependencies"} {
		deps, ok, err := doc.Object(group)
		if err != nil || !ok {
			continue
		}
		if !deps.Has("next") {
			continue
		}
		v, isString := deps.String("next")
		if !isString {
			return "", true
		}
		return v, true
	}
	return "", false
}

// belowMinimum reports whether the lowest version admitted by the range
// is older than MinNextVersion. Ranges that are not semver (dist-tags,
// workspace: and file: specifiers) are never reported.
func belowMinimum(rng string) (bool, string) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		return false, ""
	}
	if _, err := semver.NewConstraint(rng); err != nil {
		return false, ""
	}

	floor := strings.TrimLeft(rng, "^~>= v")
	if i := strings.IndexAny(floor, " |,<"); i >= 0 {
		floor = floor[:i]
	}
	if major, _, _ := strings.Cut(floor, "."); major == "" || major == "*" || major == "x" || major == "X" {
		return false, ""
	}
	floor = strings.NewReplacer("x", "0", "X", "0", "*", "0").Replace(floor)
	v, err := semver.NewVersion(floor)
	if err != nil {
		return false, ""
	}

	minimum, err := semver.NewConstraint(">= " + MinNextVersion + "-0")
	if err != nil {
		return false, ""
	}
	if minimum.Check(v) {
		return false, ""
	}
	return true, v.String()
}

func (r *Result) warn(msg, hint string) {
	r.Warnings = append(r.Warnings, Warning{Message: msg, Hint: hint})
}
