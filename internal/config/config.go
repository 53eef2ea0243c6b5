package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/authstarter/nextjs-auth-starter/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyPackageManager = "package_manager"
	KeyInstallFlags   = "install_flags"
	KeyTemplatesDir   = "templates_dir"
)

// DefaultPackageManager is used when no package manager is configured.
const DefaultPackageManager = "npm"

// npmDefaultFlags matches what the starter's peer dependency ranges need.
const npmDefaultFlags = "--legacy-peer-deps"

// Dir returns the path to the config directory (~/.nextjs-auth-starter/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyPackageManager, DefaultPackageManager)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Keys lists the configuration keys accepted by Set.
func Keys() []string {
	return []string{KeyPackageManager, KeyInstallFlags, KeyTemplatesDir}
}

// IsKnownKey reports whether key is one of Keys().
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// PackageManager returns the configured package manager name, lowercased.
func PackageManager() string {
	pm := strings.ToLower(strings.TrimSpace(viper.GetString(KeyPackageManager)))
	if pm == "" {
		return DefaultPackageManager
	}
	return pm
}

// InstallFlags returns the extra arguments appended to every install
// command. When unset, npm gets --legacy-peer-deps and other managers get
// nothing.
func InstallFlags(packageManager string) []string {
	if viper.IsSet(KeyInstallFlags) {
		return strings.Fields(viper.GetString(KeyInstallFlags))
	}
	if packageManager == "npm" {
		return []string{npmDefaultFlags}
	}
	return nil
}

// TemplatesDir returns the on-disk template directory override, or "" to
// use the embedded templates.
func TemplatesDir() string {
	return strings.TrimSpace(viper.GetString(KeyTemplatesDir))
}
