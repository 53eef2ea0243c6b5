// Package cli defines the Cobra command tree for the nextjs-auth-starter
// CLI. Each file in this package registers one top-level command with the
// root command. Commands only handle flag parsing, configuration lookup,
// and output; the installation itself lives in internal/starter.
package cli
