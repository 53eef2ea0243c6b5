package placement

import "fmt"

// Scope says whether a rule places one file or a directory tree.
type Scope int

const (
	RootFile Scope = iota
	DirectoryTree
)

func (s Scope) String() string {
	switch s {
	case RootFile:
		return "file"
	case DirectoryTree:
		return "tree"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Policy decides what happens when a destination file already exists.
type Policy int

const (
	// NeverOverwriteIfExists leaves existing files untouched.
	NeverOverwriteIfExists Policy = iota
	// AlwaysOverwrite replaces existing files with the template version.
	AlwaysOverwrite
	// OverwriteNamedSubset replaces only the files listed in Rule.Overwrite.
	OverwriteNamedSubset
)

func (p Policy) String() string {
	switch p {
	case NeverOverwriteIfExists:
		return "never-overwrite"
	case AlwaysOverwrite:
		return "always-overwrite"
	case OverwriteNamedSubset:
		return "overwrite-subset"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Rule places one template asset.
type Rule struct {
	Source string // slash-separated path in the template tree
	Dest   string // slash-separated path relative to the project root
	Scope  Scope
	Policy Policy
	// Overwrite lists tree-relative paths refreshed under OverwriteNamedSubset.
	Overwrite []string
}

// overwrites reports whether an existing file at rel (relative to the rule's
// destination; empty for root files) is replaced.
func (r Rule) overwrites(rel string) bool {
	switch r.Policy {
	case AlwaysOverwrite:
		return true
	case OverwriteNamedSubset:
		for _, name := range r.Overwrite {
			if name == rel {
				return true
			}
		}
	}
	return false
}

// SrcDir is where tree rules install application code.
const SrcDir = "src"

// GlobalStylesheet is refreshed inside the routes tree on every run.
const GlobalStylesheet = "globals.css"

// DefaultRules returns the placement table for the starter kit.
func DefaultRules() []Rule {
	return []Rule{
		{Source: ".env.example", Dest: ".env.example", Scope: RootFile, Policy: NeverOverwriteIfExists},
		{Source: "SETUP.md", Dest: "SETUP.md", Scope: RootFile, Policy: NeverOverwriteIfExists},

		// Infrastructure config tracks the tool's version.
		{Source: "drizzle.config.ts", Dest: "drizzle.config.ts", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "env.mjs", Dest: "env.mjs", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "middleware.ts", Dest: "middleware.ts", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "postcss.config.js", Dest: "postcss.config.js", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "postcss.config.mjs", Dest: "postcss.config.mjs", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "tailwind.config.js", Dest: "tailwind.config.js", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "components.json", Dest: "components.json", Scope: RootFile, Policy: AlwaysOverwrite},

		// Structural variant for src/ layouts, installed under the canonical name.
		{Source: "tsconfig.src.json", Dest: "tsconfig.json", Scope: RootFile, Policy: NeverOverwriteIfExists},

		{Source: "app", Dest: SrcDir + "/app", Scope: DirectoryTree, Policy: OverwriteNamedSubset, Overwrite: []string{GlobalStylesheet}},
		{Source: "components", Dest: SrcDir + "/components", Scope: DirectoryTree, Policy: NeverOverwriteIfExists},
		{Source: "lib", Dest: SrcDir + "/lib", Scope: DirectoryTree, Policy: NeverOverwriteIfExists},
	}
}

// AlwaysRefreshed lists the destination paths of files that replace
// existing copies on every run, in rule order.
func AlwaysRefreshed(rules []Rule) []string {
	var out []string
	for _, r := range rules {
		switch r.Policy {
		case AlwaysOverwrite:
			out = append(out, r.Dest)
		case OverwriteNamedSubset:
			for _, name := range r.Overwrite {
				out = append(out, r.Dest+"/"+name)
			}
		}
	}
	return out
}
