// SPDX-License-Identifier: MPL-2.0

// Package config loads the optional ctlshgen project configuration. Builds
// that keep their shell header or daemon table in non-default locations pin
// them in a ctlshgen.cue file next to the build instead of repeating flags.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"ctlshgen/internal/cueutil"
)

// FileName is the project config file looked up in the working directory
// when no --config flag is given.
const FileName = "ctlshgen.cue"

//go:embed config_schema.cue
var configSchema string

// Config holds generator settings. Flags override config values; config
// values override these defaults.
type Config struct {
	// NodesHeader is the shell header defining `enum node_type`.
	NodesHeader string `mapstructure:"nodes_header"`
	// DaemonMap optionally replaces the embedded lib/ ownership table.
	DaemonMap string `mapstructure:"daemon_map"`
	// Werror promotes accumulated warnings to a nonzero exit status.
	Werror bool `mapstructure:"werror"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NodesHeader: "ctlsh/command.h",
	}
}

// Load reads configuration from path, or from ./ctlshgen.cue when path is
// empty. A missing default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("nodes_header", defaults.NodesHeader)
	v.SetDefault("daemon_map", defaults.DaemonMap)
	v.SetDefault("werror", defaults.Werror)

	switch {
	case path != "":
		if !fileExists(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if err := mergeCUEFile(v, path); err != nil {
			return nil, err
		}
	case fileExists(FileName):
		if err := mergeCUEFile(v, FileName); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// mergeCUEFile validates a CUE config file against the #Config schema and
// merges its contents into viper, preserving defaults for unset fields.
func mergeCUEFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
