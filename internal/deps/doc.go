// Package deps loads the starter kit's dependency manifest
// (dependencies.json in the template tree) and installs it into a target
// project by running the package manager: once for runtime dependencies
// and once for development dependencies, with output streamed to the
// terminal.
package deps
