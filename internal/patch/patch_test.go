package patch

import (
	"testing"

	"github.com/authstarter/nextjs-auth-starter/internal/target"
	"github.com/spf13/afero"
)

const mailjetAuthored = `import { env } from "../env.mjs";

export class MailjetService {}
`

const mailjetPatched = `import { env } from "../../env.mjs";

export class MailjetService {}
`

func write(t *testing.T, d *target.Dir, rel, content string) {
	t.Helper()
	if err := d.WriteFile(rel, []byte(content)); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, d *target.Dir, rel string) string {
	t.Helper()
	data, err := d.ReadFile(rel)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestApplyPatchesAsAuthoredLine(t *testing.T) {
	d := target.NewMem("/proj")
	write(t, d, "src/lib/mailjet.ts", mailjetAuthored)
	write(t, d, "src/lib/drizzle/index.ts", "import postgres from \"postgres\";\nimport { env } from \"../../env.mjs\";\n")

	results, err := Apply(d, DefaultPatches())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, r := range results {
		if r.Outcome != Patched {
			t.Errorf("%s outcome = %v, want patched", r.File, r.Outcome)
		}
	}

	if got := read(t, d, "src/lib/mailjet.ts"); got != mailjetPatched {
		t.Errorf("mailjet.ts =\n%s", got)
	}
	if got := read(t, d, "src/lib/drizzle/index.ts"); got != "import postgres from \"postgres\";\nimport { env } from \"../../../env.mjs\";\n" {
		t.Errorf("drizzle/index.ts =\n%s", got)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	d := target.NewMem("/proj")
	write(t, d, "src/lib/mailjet.ts", mailjetAuthored)
	write(t, d, "src/lib/drizzle/index.ts", "import { env } from \"../../env.mjs\";\n")

	if _, err := Apply(d, DefaultPatches()); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	results, err := Apply(d, DefaultPatches())
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	for _, r := range results {
		if r.Outcome != NoMatch {
			t.Errorf("second run %s = %v, want no match", r.File, r.Outcome)
		}
	}
	if got := read(t, d, "src/lib/mailjet.ts"); got != mailjetPatched {
		t.Errorf("mailjet.ts changed on second run:\n%s", got)
	}
	if got := read(t, d, "src/lib/drizzle/index.ts"); got != "import { env } from \"../../../env.mjs\";\n" {
		t.Errorf("drizzle/index.ts changed on second run:\n%s", got)
	}
}

func TestApplyLeavesEditedFileAlone(t *testing.T) {
	d := target.NewMem("/proj")
	edited := "import { env } from \"@/env.mjs\";\n"
	write(t, d, "src/lib/mailjet.ts", edited)

	for i := 0; i < 2; i++ {
		results, err := Apply(d, DefaultPatches())
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if results[0].Outcome != NoMatch {
			t.Errorf("run %d outcome = %v, want no match", i, results[0].Outcome)
		}
		if got := read(t, d, "src/lib/mailjet.ts"); got != edited {
			t.Errorf("run %d changed edited file: %q", i, got)
		}
	}
}

func TestApplyMissingFiles(t *testing.T) {
	d := target.NewMem("/proj")
	results, err := Apply(d, DefaultPatches())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if r.Outcome != MissingFile {
			t.Errorf("%s outcome = %v, want missing", r.File, r.Outcome)
		}
	}
}

func TestApplyReplacesFirstOccurrenceOnly(t *testing.T) {
	d := target.NewMem("/proj")
	p := ImportPatch{File: "a.ts", Search: "x", Replace: "y"}
	write(t, d, "a.ts", "x x")

	if _, err := Apply(d, []ImportPatch{p}); err != nil {
		t.Fatal(err)
	}
	if got := read(t, d, "a.ts"); got != "y x" {
		t.Errorf("a.ts = %q, want %q", got, "y x")
	}
}

func TestApplyWriteFailureIsFatal(t *testing.T) {
	mem := afero.NewMemMapFs()
	rw := &target.Dir{Root: "/proj", Fs: mem}
	write(t, rw, "src/lib/mailjet.ts", mailjetAuthored)

	ro := &target.Dir{Root: "/proj", Fs: afero.NewReadOnlyFs(mem)}
	if _, err := Apply(ro, DefaultPatches()); err == nil {
		t.Fatal("expected write error on read-only filesystem")
	}
}
