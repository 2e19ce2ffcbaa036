// Package config loads wrapper configuration from the environment.
//
// Everything is keyed under the CCPROV_ prefix, with an optional .env
// overlay so build orchestrators can drop a file next to the build
// instead of exporting variables. Validation failures are fatal before
// the wrapped compiler ever runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment keys. The viper keys below map onto these through the
// CCPROV_ prefix and the dot-to-underscore replacer.
const (
	EnvSourceRoot = "CCPROV_SOURCE_ROOT"
	EnvCompiler   = "CCPROV_COMPILER"
	EnvDatabase   = "CCPROV_DATABASE"
	EnvPlugin     = "CCPROV_PLUGIN"
	EnvProfile    = "CCPROV_PROFILE"
	EnvDurable    = "CCPROV_DURABLE"
	EnvVerbose    = "CCPROV_VERBOSE"
)

// Defaults applied when the environment leaves a key unset.
const (
	DefaultCompiler = "g++"
	DefaultDatabase = "build_commands.db"
)

// Config holds the wrapper's effective configuration after validation.
type Config struct {
	// SourceRoot is the absolute canonical root of the source tree.
	// Recorded paths are expressed relative to it.
	SourceRoot string `mapstructure:"source_root"`

	// Compiler is the executable the wrapper forwards to.
	Compiler string `mapstructure:"compiler"`

	// Database is the provenance database path. Relative values are
	// resolved against SourceRoot during validation.
	Database string `mapstructure:"database"`

	// Plugin is an optional compiler plugin to inject. Must exist
	// when set.
	Plugin string `mapstructure:"plugin"`

	// Profile is an optional toolchain profile path (CUE). Must exist
	// when set; parsing happens in the profile package.
	Profile string `mapstructure:"profile"`

	// Durable selects synchronous=FULL on the store.
	Durable bool `mapstructure:"durable"`

	// Verbose lowers the wrapper's log level from warn to debug.
	Verbose bool `mapstructure:"verbose"`
}

// Error describes a configuration problem. It is fatal for the wrapper:
// no subprocess runs and nothing is recorded.
type Error struct {
	Key    string // environment key at fault
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

// Load reads configuration from the environment, applying any .env
// overlay found in envDir ("" means the current directory), then
// validates and normalizes paths.
func Load(envDir string) (*Config, error) {
	v := configureViper(envDir)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper returns a viper instance bound to the CCPROV_
// environment, with the .env overlay already applied.
func configureViper(envDir string) *viper.Viper {
	v := viper.New()

	loadEnv(envDir)

	v.SetEnvPrefix("CCPROV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind every key so unmarshal sees env-only values
	// even without a config file.
	for _, key := range []string{
		"source_root",
		"compiler",
		"database",
		"plugin",
		"profile",
		"durable",
		"verbose",
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("compiler", DefaultCompiler)
	v.SetDefault("database", DefaultDatabase)
	v.SetDefault("durable", false)
	v.SetDefault("verbose", false)

	return v
}

// loadEnv applies .env overlays from envDir. Overload order lets
// .env.local override .env, and both override the process environment.
func loadEnv(envDir string) {
	if envDir == "" {
		envDir = "."
	}
	for _, envFile := range []string{".env", ".env.local"} {
		candidate := filepath.Join(envDir, envFile)
		_ = godotenv.Overload(candidate)
	}
}

// validate checks required fields and normalizes paths in place.
func (c *Config) validate() error {
	if c.SourceRoot == "" {
		return &Error{Key: EnvSourceRoot, Reason: "required"}
	}
	if !filepath.IsAbs(c.SourceRoot) {
		return &Error{Key: EnvSourceRoot, Reason: fmt.Sprintf("must be absolute, got %q", c.SourceRoot)}
	}
	// Clean strips any trailing separator so relative-path derivation
	// is stable.
	c.SourceRoot = filepath.Clean(c.SourceRoot)

	if c.Compiler == "" {
		return &Error{Key: EnvCompiler, Reason: "must not be empty"}
	}

	if c.Database == "" {
		return &Error{Key: EnvDatabase, Reason: "must not be empty"}
	}
	if !filepath.IsAbs(c.Database) {
		c.Database = filepath.Join(c.SourceRoot, c.Database)
	}

	if c.Plugin != "" {
		if _, err := os.Stat(c.Plugin); err != nil {
			return &Error{Key: EnvPlugin, Reason: fmt.Sprintf("not readable: %v", err)}
		}
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); err != nil {
			return &Error{Key: EnvProfile, Reason: fmt.Sprintf("not readable: %v", err)}
		}
	}

	return nil
}
