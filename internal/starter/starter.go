// Package starter runs one installation of the starter kit into a target
// project. The phases run in a fixed order: probe, place, patch, install,
// then merge scripts. Each phase reports through a Printer and the
// combined results come back as a Summary.
package starter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/authstarter/nextjs-auth-starter/internal/deps"
	"github.com/authstarter/nextjs-auth-starter/internal/patch"
	"github.com/authstarter/nextjs-auth-starter/internal/placement"
	"github.com/authstarter/nextjs-auth-starter/internal/printer"
	"github.com/authstarter/nextjs-auth-starter/internal/probe"
	"github.com/authstarter/nextjs-auth-starter/internal/scripts"
	"github.com/authstarter/nextjs-auth-starter/internal/target"
)

// Options configures a run. Zero-valued tables fall back to the defaults
// of their packages.
type Options struct {
	Dir       *target.Dir
	Templates fs.FS

	Rules   []placement.Rule
	Patches []patch.ImportPatch
	Scripts []scripts.Entry

	SkipInstall bool
	Installer   *deps.Installer

	Printer *printer.Printer
}

// Summary collects the reports of every phase.
type Summary struct {
	Probe     *probe.Result
	Placement *placement.Report
	Patches   []patch.Result

	// Dependencies is the loaded manifest, nil when install was skipped or
	// the templates carry none.
	Dependencies *deps.Manifest
	Installed    bool

	// Scripts is nil when the target has no package.json.
	Scripts *scripts.Report
}

func (o *Options) setDefaults() {
	if o.Rules == nil {
		o.Rules = placement.DefaultRules()
	}
	if o.Patches == nil {
		o.Patches = patch.DefaultPatches()
	}
	if o.Scripts == nil {
		o.Scripts = scripts.DatabaseScripts()
	}
	if o.Printer == nil {
		o.Printer = printer.Discard()
	}
}

// Run installs the starter kit. Probe findings are advisory; filesystem,
// manifest, and package manager failures abort the run.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Dir == nil {
		return nil, errors.New("no target directory")
	}
	if opts.Templates == nil {
		return nil, errors.New("no template source")
	}
	opts.setDefaults()
	p := opts.Printer
	sum := &Summary{}

	sum.Probe = probe.Probe(opts.Dir)
	for _, w := range sum.Probe.Warnings {
		p.Warning("%s", w.Message)
		if w.Hint != "" {
			p.Detail("   %s", w.Hint)
		}
	}

	p.Step("📄 Copying template files to src/ structure...")
	report, err := placement.Place(opts.Templates, opts.Dir, opts.Rules)
	sum.Placement = report
	if err != nil {
		return sum, fmt.Errorf("copying templates: %w", err)
	}
	printPlacement(p, opts.Rules, report)
	p.Success("Files copied successfully to src/ structure")

	p.Detail("  🔧 Fixing import paths for src/ structure...")
	sum.Patches, err = patch.Apply(opts.Dir, opts.Patches)
	if err != nil {
		return sum, fmt.Errorf("fixing import paths: %w", err)
	}
	for _, r := range sum.Patches {
		if r.Outcome == patch.Patched {
			p.Detail("     ✓ Fixed imports in %s", r.File)
		}
	}

	if !opts.SkipInstall {
		if err := install(ctx, opts, sum); err != nil {
			return sum, err
		}
	}

	p.Step("📝 Adding database scripts to package.json...")
	sum.Scripts, err = scripts.Merge(opts.Dir, scripts.ManifestFile, opts.Scripts)
	switch {
	case errors.Is(err, scripts.ErrNoManifest):
		p.Warning("package.json not found, skipping script addition")
	case err != nil:
		return sum, fmt.Errorf("updating package.json: %w", err)
	default:
		if added := sum.Scripts.Keys(scripts.Added); len(added) > 0 {
			p.Success("Added scripts: %s", strings.Join(added, ", "))
		}
		if skipped := sum.Scripts.Keys(scripts.SkippedAlreadyPresent); len(skipped) > 0 {
			p.Warning("Scripts already exist (skipped): %s", strings.Join(skipped, ", "))
		}
	}

	return sum, nil
}

func install(ctx context.Context, opts Options, sum *Summary) error {
	p := opts.Printer
	p.Step("📦 Installing dependencies...")

	m, err := deps.Load(opts.Templates)
	if errors.Is(err, deps.ErrNoManifest) {
		p.Warning("dependencies.json not found, skipping dependency installation")
		return nil
	}
	if err != nil {
		return err
	}
	sum.Dependencies = m

	inst := opts.Installer
	if inst == nil {
		inst = &deps.Installer{Manager: "npm"}
	}
	if inst.Dir == "" {
		copied := *inst
		copied.Dir = opts.Dir.Root
		inst = &copied
	}

	cmds, err := inst.Commands(m)
	if err != nil {
		return err
	}
	if len(m.Dependencies) > 0 {
		p.Detail("Installing: %s", strings.Join(deps.Names(m.Dependencies), ", "))
	}
	if len(m.DevDependencies) > 0 {
		p.Detail("Installing dev dependencies: %s", strings.Join(deps.Names(m.DevDependencies), ", "))
	}
	if len(cmds) == 0 {
		return nil
	}

	if err := inst.Install(ctx, m); err != nil {
		return err
	}
	sum.Installed = true
	return nil
}

func printPlacement(p *printer.Printer, rules []placement.Rule, report *placement.Report) {
	trees := make(map[string]bool)
	for _, r := range rules {
		if r.Scope == placement.DirectoryTree {
			trees[r.Dest] = true
		}
	}

	p.Detail("  📁 Root configuration files:")
	for _, e := range report.Entries {
		if inTree(e.Path, trees) {
			continue
		}
		switch e.Action {
		case placement.Created:
			p.Detail("     ✓ %s", e.Path)
		case placement.Overwritten:
			p.Success("%s (overwritten with latest version)", e.Path)
		case placement.SkippedExisting:
			p.Warning("%s (already exists, skipped)", e.Path)
		}
	}

	p.Detail("  📁 src/ application files:")
	for _, t := range report.Trees {
		if t.Merged {
			p.Warning("%s/ (directory already exists, merging files)", t.Dest)
		} else {
			p.Detail("     ✓ %s/ directory", t.Dest)
		}
	}
	for _, e := range report.Entries {
		if e.Action == placement.Overwritten && inTree(e.Path, trees) {
			p.Success("Overwritten %s with updated version", e.Path)
		}
	}
}

func inTree(p string, trees map[string]bool) bool {
	for t := range trees {
		if p == t || strings.HasPrefix(p, t+"/") {
			return true
		}
	}
	return false
}
