package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// defaultConfigFile is looked for in the working directory when --config is
// not given. Absence is not an error.
const defaultConfigFile = "vsenv.yaml"

// Config represents the vsenv.yaml settings. Flags overlay their values on
// top after loading, so every field is optional and the zero value plus
// defaults is a working configuration.
type Config struct {
	Arch       string            `yaml:"arch,omitempty"`       // target architecture (default: native)
	Force      bool              `yaml:"force,omitempty"`      // discover even when a compiler is on PATH
	VSWhere    string            `yaml:"vswhere,omitempty"`    // installation locator path override
	Prerelease *bool             `yaml:"prerelease,omitempty"` // nil means true
	Products   []string          `yaml:"products,omitempty"`   // locator -products arguments (default "*")
	Requires   []string          `yaml:"requires,omitempty"`   // locator -requires component IDs
	Env        map[string]string `yaml:"env,omitempty"`        // extra variables merged after setup
	EnvFile    string            `yaml:"env_file,omitempty"`   // dotenv file merged last
}

// IncludePrerelease reports whether prerelease installations are considered.
// Unset means yes, the newest toolchain wins even before release.
func (c *Config) IncludePrerelease() bool {
	if c.Prerelease == nil {
		return true
	}
	return *c.Prerelease
}

// LoadConfig loads the configuration from path, or from vsenv.yaml in the
// working directory when path is empty. A missing default file yields the
// built-in defaults; a missing explicit file is an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Products) == 0 {
		c.Products = []string{"*"}
	}
	if len(c.Requires) == 0 {
		c.Requires = append([]string(nil), defaultRequires...)
	}
}
