// Package config manages user-level settings stored at
// ~/.nextjs-auth-starter/config.yaml. Values can also come from
// AUTHSTARTER_* environment variables; command-line flags override both.
// Settings cover the package manager used for dependency installation,
// extra install flags, and an optional on-disk template directory.
package config
