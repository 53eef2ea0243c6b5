package placement

import (
	"io/fs"
	"reflect"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/authstarter/nextjs-auth-starter/internal/target"
	"github.com/authstarter/nextjs-auth-starter/internal/templates"
	"github.com/spf13/afero"
)

func fixture() fstest.MapFS {
	return fstest.MapFS{
		".env.example":                {Data: []byte("DATABASE_URL=\n")},
		"env.mjs":                     {Data: []byte("export const env = {};\n")},
		"tsconfig.src.json":           {Data: []byte(`{"paths":{"@/*":["./src/*"]}}`)},
		"app/globals.css":             {Data: []byte("@tailwind base;\n")},
		"app/page.tsx":                {Data: []byte("home\n")},
		"app/auth/signin/page.tsx":    {Data: []byte("signin\n")},
		"app/node_modules/x/index.js": {Data: []byte("ignored\n")},
		"components/ui/button.tsx":    {Data: []byte("button\n")},
		"lib/auth.ts":                 {Data: []byte("auth\n")},
		"lib/drizzle/schema.ts":       {Data: []byte("schema\n")},
		"lib/.DS_Store":               {Data: []byte("junk")},
	}
}

func fixtureRules() []Rule {
	return []Rule{
		{Source: ".env.example", Dest: ".env.example", Scope: RootFile, Policy: NeverOverwriteIfExists},
		{Source: "env.mjs", Dest: "env.mjs", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "middleware.ts", Dest: "middleware.ts", Scope: RootFile, Policy: AlwaysOverwrite},
		{Source: "tsconfig.src.json", Dest: "tsconfig.json", Scope: RootFile, Policy: NeverOverwriteIfExists},
		{Source: "app", Dest: "src/app", Scope: DirectoryTree, Policy: OverwriteNamedSubset, Overwrite: []string{"globals.css"}},
		{Source: "components", Dest: "src/components", Scope: DirectoryTree, Policy: NeverOverwriteIfExists},
		{Source: "lib", Dest: "src/lib", Scope: DirectoryTree, Policy: NeverOverwriteIfExists},
		{Source: "hooks", Dest: "src/hooks", Scope: DirectoryTree, Policy: NeverOverwriteIfExists},
	}
}

func readString(t *testing.T, d *target.Dir, rel string) string {
	t.Helper()
	data, err := d.ReadFile(rel)
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func snapshot(t *testing.T, d *target.Dir) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := afero.Walk(d.Fs, d.Root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(d.Fs, p)
		if err != nil {
			return err
		}
		files[d.Rel(p)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking target: %v", err)
	}
	return files
}

func TestPlaceIntoEmptyTarget(t *testing.T) {
	d := target.NewMem("/proj")
	report, err := Place(fixture(), d, fixtureRules())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	wantCreated := []string{
		".env.example",
		"env.mjs",
		"src/app/auth/signin/page.tsx",
		"src/app/globals.css",
		"src/app/page.tsx",
		"src/components/ui/button.tsx",
		"src/lib/auth.ts",
		"src/lib/drizzle/schema.ts",
		"tsconfig.json",
	}
	got := report.Paths(Created)
	sort.Strings(got)
	if !reflect.DeepEqual(got, wantCreated) {
		t.Errorf("created = %v\nwant %v", got, wantCreated)
	}

	wantMissing := []string{"middleware.ts", "src/hooks"}
	if got := report.Paths(SkippedMissingSource); !reflect.DeepEqual(got, wantMissing) {
		t.Errorf("missing = %v, want %v", got, wantMissing)
	}

	if got := readString(t, d, "tsconfig.json"); got != `{"paths":{"@/*":["./src/*"]}}` {
		t.Errorf("tsconfig.json = %q", got)
	}

	for _, tr := range report.Trees {
		if tr.Merged {
			t.Errorf("tree %s reported as merged on an empty target", tr.Dest)
		}
	}
}

func TestPlaceSkipsExcludedNames(t *testing.T) {
	d := target.NewMem("/proj")
	if _, err := Place(fixture(), d, fixtureRules()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	for _, rel := range []string{"src/app/node_modules", "src/lib/.DS_Store"} {
		if ok, _ := d.Exists(rel); ok {
			t.Errorf("%s should not be copied", rel)
		}
	}
}

func TestPlaceIsIdempotent(t *testing.T) {
	d := target.NewMem("/proj")
	first, err := Place(fixture(), d, fixtureRules())
	if err != nil {
		t.Fatalf("first Place: %v", err)
	}
	after1 := snapshot(t, d)

	second, err := Place(fixture(), d, fixtureRules())
	if err != nil {
		t.Fatalf("second Place: %v", err)
	}
	after2 := snapshot(t, d)

	if !reflect.DeepEqual(after1, after2) {
		t.Errorf("file set changed between runs:\n%v\n%v", after1, after2)
	}

	if len(first.Entries) != len(second.Entries) {
		t.Fatalf("entry count changed: %d vs %d", len(first.Entries), len(second.Entries))
	}
	for i, e := range second.Entries {
		prev := first.Entries[i]
		if e.Path != prev.Path {
			t.Fatalf("entry %d path %s vs %s", i, e.Path, prev.Path)
		}
		var want Action
		switch {
		case prev.Action == SkippedMissingSource:
			want = SkippedMissingSource
		case e.Path == "env.mjs" || e.Path == "src/app/globals.css":
			want = Overwritten
		default:
			want = SkippedExisting
		}
		if e.Action != want {
			t.Errorf("second run %s = %v, want %v", e.Path, e.Action, want)
		}
	}

	for _, tr := range second.Trees {
		if !tr.Merged {
			t.Errorf("tree %s should be merged on second run", tr.Dest)
		}
	}
}

func TestPlaceNonDestructive(t *testing.T) {
	d := target.NewMem("/proj")
	userFiles := map[string]string{
		".env.example":                 "MY_VAR=1\n",
		"tsconfig.json":                `{"compilerOptions":{}}`,
		"src/app/page.tsx":             "my home page\n",
		"src/components/ui/button.tsx": "my button\n",
		"src/lib/auth.ts":              "my auth\n",
	}
	for rel, content := range userFiles {
		if err := d.WriteFile(rel, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	report, err := Place(fixture(), d, fixtureRules())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	for rel, content := range userFiles {
		if got := readString(t, d, rel); got != content {
			t.Errorf("%s changed: %q, want %q", rel, got, content)
		}
		e, ok := report.Lookup(rel)
		if !ok || e.Action != SkippedExisting {
			t.Errorf("%s entry = %+v, want SkippedExisting", rel, e)
		}
	}

	// Missing files inside merged trees are still created.
	if e, _ := report.Lookup("src/lib/drizzle/schema.ts"); e.Action != Created {
		t.Errorf("schema.ts = %v, want Created", e.Action)
	}
}

func TestPlaceOverwriteSubset(t *testing.T) {
	d := target.NewMem("/proj")
	for _, rel := range []string{"env.mjs", "src/app/globals.css"} {
		if err := d.WriteFile(rel, []byte("sentinel")); err != nil {
			t.Fatal(err)
		}
	}

	report, err := Place(fixture(), d, fixtureRules())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if got := readString(t, d, "env.mjs"); got != "export const env = {};\n" {
		t.Errorf("env.mjs = %q", got)
	}
	if got := readString(t, d, "src/app/globals.css"); got != "@tailwind base;\n" {
		t.Errorf("globals.css = %q", got)
	}
	if e, _ := report.Lookup("src/app/globals.css"); e.Action != Overwritten {
		t.Errorf("globals.css action = %v, want Overwritten", e.Action)
	}
}

func TestPlaceSubsetMatchesTreeRelativePath(t *testing.T) {
	src := fstest.MapFS{
		"app/globals.css":        {Data: []byte("new")},
		"app/nested/globals.css": {Data: []byte("new nested")},
	}
	rules := []Rule{{Source: "app", Dest: "src/app", Scope: DirectoryTree, Policy: OverwriteNamedSubset, Overwrite: []string{"globals.css"}}}

	d := target.NewMem("/proj")
	for _, rel := range []string{"src/app/globals.css", "src/app/nested/globals.css"} {
		if err := d.WriteFile(rel, []byte("old")); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := Place(src, d, rules); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if got := readString(t, d, "src/app/globals.css"); got != "new" {
		t.Errorf("top-level globals.css = %q, want new", got)
	}
	if got := readString(t, d, "src/app/nested/globals.css"); got != "old" {
		t.Errorf("nested globals.css = %q, want old", got)
	}
}

func TestPlaceCreatesSrcDir(t *testing.T) {
	d := target.NewMem("/proj")
	if _, err := Place(fstest.MapFS{}, d, DefaultRules()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if ok, _ := d.IsDir("src"); !ok {
		t.Error("src/ should exist after Place")
	}
}

func TestPlaceStopsOnWriteError(t *testing.T) {
	d := &target.Dir{Root: "/proj", Fs: afero.NewReadOnlyFs(afero.NewMemMapFs())}
	_, err := Place(fixture(), d, fixtureRules())
	if err == nil {
		t.Fatal("expected error on read-only filesystem")
	}
}

func TestPlaceStylesheetScenario(t *testing.T) {
	d := target.NewMem("/proj")
	if err := d.WriteFile("src/app/globals.css", []byte("body { color: hotpink; }\n")); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteFile("src/app/page.tsx", []byte("custom home\n")); err != nil {
		t.Fatal(err)
	}

	src := templates.Embedded()
	report, err := Place(src, d, DefaultRules())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	want, err := fs.ReadFile(src, "app/globals.css")
	if err != nil {
		t.Fatal(err)
	}
	if got := readString(t, d, "src/app/globals.css"); got != string(want) {
		t.Error("globals.css should be replaced with the template version")
	}
	if got := readString(t, d, "src/app/page.tsx"); got != "custom home\n" {
		t.Errorf("page.tsx changed: %q", got)
	}
	if e, _ := report.Lookup("src/app/globals.css"); e.Action != Overwritten {
		t.Errorf("globals.css action = %v", e.Action)
	}
	if e, _ := report.Lookup("src/app/auth/signin/page.tsx"); e.Action != Created {
		t.Errorf("signin page action = %v", e.Action)
	}
	if e, _ := report.Lookup("postcss.config.js"); e.Action != SkippedMissingSource {
		t.Errorf("postcss.config.js action = %v", e.Action)
	}

	var appMerged bool
	for _, tr := range report.Trees {
		if tr.Dest == "src/app" {
			appMerged = tr.Merged
		}
	}
	if !appMerged {
		t.Error("src/app should be reported as merged")
	}
}

func TestPlaceEmbeddedAlwaysRefreshed(t *testing.T) {
	d := target.NewMem("/proj")
	rules := DefaultRules()
	src := templates.Embedded()

	refreshed := AlwaysRefreshed(rules)
	for _, rel := range refreshed {
		if err := d.WriteFile(rel, []byte("sentinel")); err != nil {
			t.Fatal(err)
		}
	}

	report, err := Place(src, d, rules)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	for _, rel := range refreshed {
		e, _ := report.Lookup(rel)
		if e.Action == SkippedMissingSource {
			continue
		}
		if e.Action != Overwritten {
			t.Errorf("%s action = %v, want Overwritten", rel, e.Action)
		}
		if got := readString(t, d, rel); got == "sentinel" {
			t.Errorf("%s still holds sentinel content", rel)
		}
	}
}
