// This file is part of ChipsFS.
//
// ChipsFS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChipsFS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ChipsFS.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads the application configuration from a yaml
// file. A missing file is not an error; every field has a sensible
// default so the application runs unconfigured.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chipsfs/chipsfs/curated"
)

// List of valid snapshot backend names.
const (
	BackendFile    = "file"
	BackendChannel = "channel"
	BackendKV      = "kv"
)

// error patterns for the config package.
const (
	errConfigFile     = "config: %v"
	errConfigBackend  = "config: unknown snapshot backend '%s'"
	errConfigChannels = "config: at least %d fetch channels are required (%d configured)"
)

// minChannels is the smallest usable channel count: one general
// payload channel and one dedicated to the snapshot backend.
const minChannels = 2

// Config is the top-level application configuration.
type Config struct {
	Snapshots Snapshots `yaml:"snapshots"`

	// number of fetch channels to create
	Channels int `yaml:"channels"`
}

// Snapshots configures snapshot persistence.
type Snapshots struct {
	// one of the Backend* constants
	Backend string `yaml:"backend"`

	// base directory for snapshot storage. the key-value backend
	// places its database file here
	Dir string `yaml:"dir"`

	// crunch snapshot payloads before storing them
	Compress bool `yaml:"compress"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.normalize()
	return cfg
}

// Load reads the configuration from a yaml file. A path naming a file
// that does not exist yields the default configuration.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return cfg, curated.Errorf(errConfigFile, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, curated.Errorf(errConfigFile, err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// normalize fills empty fields with their defaults.
func (cfg *Config) normalize() {
	if cfg.Snapshots.Backend == "" {
		cfg.Snapshots.Backend = BackendFile
	}
	if cfg.Snapshots.Dir == "" {
		cfg.Snapshots.Dir = os.TempDir()
	}
	if cfg.Channels == 0 {
		cfg.Channels = minChannels
	}
}

// validate rejects values that normalize cannot repair.
func (cfg Config) validate() error {
	switch cfg.Snapshots.Backend {
	case BackendFile, BackendChannel, BackendKV:
	default:
		return curated.Errorf(errConfigBackend, cfg.Snapshots.Backend)
	}
	if cfg.Channels < minChannels {
		return curated.Errorf(errConfigChannels, minChannels, cfg.Channels)
	}
	return nil
}
