package cli

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/authstarter/nextjs-auth-starter/internal/branding"
	"github.com/authstarter/nextjs-auth-starter/internal/config"
	"github.com/authstarter/nextjs-auth-starter/internal/deps"
	"github.com/authstarter/nextjs-auth-starter/internal/probe"
	"github.com/authstarter/nextjs-auth-starter/internal/target"
	"github.com/authstarter/nextjs-auth-starter/internal/templates"
	"github.com/spf13/cobra"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Check a project and the local toolchain before installing",
	Long: `Inspect the target project the same way init does, without changing
anything, and verify that the configured package manager is on PATH and
the templates' dependency manifest is valid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveTargetDir(args, "")
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		checkProject(w, probe.Probe(target.New(dir)), dir)
		checkPackageManager(w, config.PackageManager())
		checkTemplates(w, config.TemplatesDir())
		return nil
	},
}

func checkProject(w io.Writer, r *probe.Result, dir string) {
	fmt.Fprintf(w, "Project check (%s):\n", dir)
	if r.ManifestReadable {
		fmt.Fprintf(w, "  [ OK ] %s is readable\n", probe.ManifestFile)
	}
	if r.IsNextProject {
		if r.NextRange != "" {
			fmt.Fprintf(w, "  [ OK ] next %s\n", r.NextRange)
		} else {
			fmt.Fprintln(w, "  [ OK ] next is a dependency")
		}
	}
	if r.HasSrcDir {
		fmt.Fprintln(w, "  [ OK ] src/ exists")
	}
	for _, tree := range r.ExistingTrees {
		fmt.Fprintf(w, "  [INFO] %s exists, starter files will be merged into it\n", tree)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  [WARN] %s\n", warning.Message)
		if warning.Hint != "" {
			fmt.Fprintf(w, "         %s\n", warning.Hint)
		}
	}
}

func checkPackageManager(w io.Writer, pm string) {
	fmt.Fprintln(w, "Package manager check:")
	if err := deps.ValidateManager(pm); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	path, err := lookPath(pm)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", pm)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", pm, path)
	fmt.Fprintf(w, "  [INFO] set %s or '%s config set %s' to use another package manager\n",
		branding.EnvVar(config.KeyPackageManager), branding.CLIName(), config.KeyPackageManager)
}

func checkTemplates(w io.Writer, dir string) {
	fmt.Fprintln(w, "Templates check:")
	source := "built-in templates"
	if dir != "" {
		source = dir
	}

	fsys, err := templates.Open(dir)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] using %s\n", source)

	m, err := deps.Load(fsys)
	switch {
	case errors.Is(err, deps.ErrNoManifest):
		fmt.Fprintf(w, "  [WARN] %s not found, dependencies will not be installed\n", deps.ManifestFile)
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
	default:
		fmt.Fprintf(w, "  [ OK ] %s lists %d dependencies and %d dev dependencies\n",
			deps.ManifestFile, len(m.Dependencies), len(m.DevDependencies))
	}
}
