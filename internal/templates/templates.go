// Package templates holds the starter kit's template tree. The tree is
// compiled into the binary with //go:embed; an on-disk directory with the
// same layout can be used instead (for template development or forks).
//
// Layout of the tree:
//
//   - root configuration files (drizzle.config.ts, env.mjs, middleware.ts, ...)
//   - tsconfig.src.json, installed as tsconfig.json for src/ projects
//   - app/, components/, lib/: installed under src/
//   - dependencies.json: packages installed into the target project
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed all:assets
var assets embed.FS

// Embedded returns the embedded template tree rooted at its top level.
func Embedded() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// The directory is embedded at build time; a failure here is a build defect.
		panic(fmt.Sprintf("templates: embedded assets missing: %v", err))
	}
	return sub
}

// Open returns the embedded tree when dir is empty, or the tree rooted at
// dir on disk otherwise.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return Embedded(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
