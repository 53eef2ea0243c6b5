package placement

import (
	"reflect"
	"testing"
)

func TestDefaultRulesHaveUniqueDestinations(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range DefaultRules() {
		if seen[r.Dest] {
			t.Errorf("duplicate destination %s", r.Dest)
		}
		seen[r.Dest] = true
	}
}

func TestDefaultRulesTreesDoNotOverlapFiles(t *testing.T) {
	rules := DefaultRules()
	for _, tree := range rules {
		if tree.Scope != DirectoryTree {
			continue
		}
		for _, other := range rules {
			if other.Dest != tree.Dest && len(other.Dest) > len(tree.Dest) && other.Dest[:len(tree.Dest)+1] == tree.Dest+"/" {
				t.Errorf("rule %s is nested inside tree %s", other.Dest, tree.Dest)
			}
		}
	}
}

func TestAlwaysRefreshed(t *testing.T) {
	want := []string{
		"drizzle.config.ts",
		"env.mjs",
		"middleware.ts",
		"postcss.config.js",
		"postcss.config.mjs",
		"tailwind.config.js",
		"components.json",
		"src/app/globals.css",
	}
	if got := AlwaysRefreshed(DefaultRules()); !reflect.DeepEqual(got, want) {
		t.Errorf("AlwaysRefreshed() = %v\nwant %v", got, want)
	}
}

func TestRuleOverwrites(t *testing.T) {
	tests := []struct {
		rule Rule
		rel  string
		want bool
	}{
		{Rule{Policy: AlwaysOverwrite}, "", true},
		{Rule{Policy: NeverOverwriteIfExists}, "", false},
		{Rule{Policy: OverwriteNamedSubset, Overwrite: []string{"globals.css"}}, "globals.css", true},
		{Rule{Policy: OverwriteNamedSubset, Overwrite: []string{"globals.css"}}, "page.tsx", false},
		{Rule{Policy: OverwriteNamedSubset, Overwrite: []string{"globals.css"}}, "nested/globals.css", false},
	}
	for _, tt := range tests {
		if got := tt.rule.overwrites(tt.rel); got != tt.want {
			t.Errorf("%v.overwrites(%q) = %v, want %v", tt.rule.Policy, tt.rel, got, tt.want)
		}
	}
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"node_modules", true},
		{".git", true},
		{".DS_Store", true},
		{"globals.css", false},
		{".env.example", false},
	}
	for _, tt := range tests {
		if got := shouldExclude(tt.name); got != tt.expected {
			t.Errorf("shouldExclude(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestActionString(t *testing.T) {
	if Overwritten.String() != "overwritten" {
		t.Errorf("Overwritten.String() = %q", Overwritten.String())
	}
	if SkippedMissingSource.String() != "skipped (no template)" {
		t.Errorf("SkippedMissingSource.String() = %q", SkippedMissingSource.String())
	}
}
