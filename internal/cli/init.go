package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/authstarter/nextjs-auth-starter/internal/branding"
	"github.com/authstarter/nextjs-auth-starter/internal/config"
	"github.com/authstarter/nextjs-auth-starter/internal/deps"
	"github.com/authstarter/nextjs-auth-starter/internal/placement"
	"github.com/authstarter/nextjs-auth-starter/internal/printer"
	"github.com/authstarter/nextjs-auth-starter/internal/starter"
	"github.com/authstarter/nextjs-auth-starter/internal/target"
	"github.com/authstarter/nextjs-auth-starter/internal/templates"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	initDir            string
	initNoInstall      bool
	initTemplates      string
	initPackageManager string
)

func init() {
	initCmd.Flags().StringVarP(&initDir, "dir", "d", "", "Target directory (default: current directory)")
	initCmd.Flags().BoolVar(&initNoInstall, "no-install", false, "Skip dependency installation")
	initCmd.Flags().StringVar(&initTemplates, "templates", "", "Install templates from this directory instead of the built-in set")
	initCmd.Flags().StringVar(&initPackageManager, "package-manager", "", "Package manager used to install dependencies (npm, pnpm, yarn, bun)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize " + branding.DisplayName() + " in your project",
	Long: `Copy the starter kit into a Next.js project, fix import paths for the
src/ layout, install dependencies, and add database scripts to package.json.

Existing application files are never replaced. Infrastructure config
(Tailwind, PostCSS, shadcn/ui, Drizzle, env validation, middleware) and
src/app/globals.css are refreshed on every run.`,
	Example: `  ` + branding.CLIName() + ` init                    # Install into the current directory
  ` + branding.CLIName() + ` init --no-install       # Skip dependency installation
  ` + branding.CLIName() + ` init -d ./my-project    # Install in a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveTargetDir(args, initDir)
	if err != nil {
		return err
	}

	if f := cmd.Flags().Lookup("package-manager"); f != nil {
		if err := viper.BindPFlag(config.KeyPackageManager, f); err != nil {
			return fmt.Errorf("binding --package-manager: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("templates"); f != nil {
		if err := viper.BindPFlag(config.KeyTemplatesDir, f); err != nil {
			return fmt.Errorf("binding --templates: %w", err)
		}
	}

	pm := config.PackageManager()
	if err := deps.ValidateManager(pm); err != nil {
		return err
	}

	tmpl, err := templates.Open(config.TemplatesDir())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, target.DirPerm); err != nil {
		return fmt.Errorf("creating target directory %s: %w", dir, err)
	}

	p := newPrinter(cmd)
	p.Step("🚀 Installing %s...", branding.DisplayName())

	rules := placement.DefaultRules()
	sum, err := starter.Run(cmd.Context(), starter.Options{
		Dir:         target.New(dir),
		Templates:   tmpl,
		Rules:       rules,
		SkipInstall: initNoInstall,
		Installer: &deps.Installer{
			Manager: pm,
			Flags:   config.InstallFlags(pm),
			Dir:     dir,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
		},
		Printer: p,
	})
	if err != nil {
		return err
	}

	printSummary(p, sum, rules, pm)
	return nil
}

// resolveTargetDir picks the target from the positional argument or
// --dir, defaulting to the working directory.
func resolveTargetDir(args []string, flagDir string) (string, error) {
	dir := flagDir
	if len(args) == 1 {
		if flagDir != "" && filepath.Clean(flagDir) != filepath.Clean(args[0]) {
			return "", errors.New("target directory given both as argument and --dir")
		}
		dir = args[0]
	}
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

var configDescriptions = map[string]string{
	"tailwind.config.js":  "shadcn/ui configuration",
	"src/app/globals.css": "Tailwind CSS with CSS variables",
	"components.json":     "shadcn/ui components configuration",
	"postcss.config.js":   "PostCSS configuration",
	"postcss.config.mjs":  "PostCSS configuration",
	"drizzle.config.ts":   "Database configuration",
	"env.mjs":             "Environment validation",
	"middleware.ts":       "Authentication middleware",
}

func printSummary(p *printer.Printer, sum *starter.Summary, rules []placement.Rule, pm string) {
	p.Success("%s installed successfully!", branding.DisplayName())

	var refreshed []placement.Entry
	for _, path := range placement.AlwaysRefreshed(rules) {
		if e, ok := sum.Placement.Lookup(path); ok && (e.Action == placement.Created || e.Action == placement.Overwritten) {
			refreshed = append(refreshed, e)
		}
	}
	if len(refreshed) > 0 {
		p.Info("")
		p.Warning("Configuration Files:")
		p.Detail("   This package has installed/updated the following configuration files:")
		for _, e := range refreshed {
			label := e.Path
			if desc, ok := configDescriptions[e.Path]; ok {
				label += " (" + desc + ")"
			}
			if e.Action == placement.Overwritten {
				label += " - OVERWRITTEN"
			}
			p.Detail("   • %s", label)
		}
	}

	run := func(script string) string { return pm + " run " + script }

	var steps []string
	if !sum.Installed {
		install := pm + " install"
		for _, f := range config.InstallFlags(pm) {
			install += " " + f
		}
		steps = append(steps, "Install dependencies: "+install)
	}
	steps = append(steps,
		"Copy .env.example to .env.local and fill in your values",
		"Set up your database and get your connection string",
		"Configure your OAuth providers (Google, etc.)",
		"Set up Mailjet for email services",
		"Generate the database schema: "+run("db:generate"),
		"Push schema to database: "+run("db:push"),
		"(Optional) Open Drizzle Studio: "+run("db:studio"),
		"Run your development server: "+run("dev"),
	)

	p.Info("")
	p.Highlight("📝 Next steps:")
	for i, s := range steps {
		p.Info("%d. %s", i+1, s)
	}

	p.Info("")
	p.Highlight("🎉 Your Next.js authentication system is ready!")
	p.Detail("Visit /auth/signin to test the login flow")

	if sum.Scripts != nil && sum.Scripts.Written {
		p.Info("")
		p.Step("💡 Database scripts have been added to your package.json")
		p.Detail("   Use %s, db:push, db:studio for database management", run("db:generate"))
	}

	p.Info("")
	p.Detail("💡 Files have been installed in the src/ directory structure")
	p.Detail("   Your auth pages are at: src/app/auth/")
	p.Detail("   Your components are at: src/components/")
}
