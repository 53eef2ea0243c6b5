package cli

import (
	"github.com/authstarter/nextjs-auth-starter/internal/branding"
	"github.com/authstarter/nextjs-auth-starter/internal/config"
	"github.com/authstarter/nextjs-auth-starter/internal/printer"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	noColor bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs an authentication starter kit into a Next.js project:
auth pages, UI components, database and email helpers, and the
configuration they depend on. Files are placed under src/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// newPrinter returns a Printer bound to the command's output streams.
func newPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		newPrinter(rootCmd).Error("❌ Error:", err)
		return err
	}
	return nil
}
