package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames are the configuration file names, in lookup order.
var FileNames = []string{"mapext.yaml", "mapext.yml", "mapext.toml"}

// LoadFile loads a configuration file, choosing the format by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var c *Config
	if filepath.Ext(path) == ".toml" {
		c, err = ParseTOML(data)
	} else {
		c, err = Parse(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Parse parses YAML data into a Config. Unknown keys are rejected with the
// closest known key as a suggestion.
func Parse(data []byte) (*Config, error) {
	var (
		c    Config
		root yaml.Node
	)

	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := checkYAMLKeys(&root, reflect.TypeOf(c), nil); err != nil {
		return nil, err
	}

	if root.Kind != 0 {
		if err := root.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// ParseTOML parses TOML data into a Config. Unknown keys are rejected.
func ParseTOML(data []byte) (*Config, error) {
	var c Config

	meta, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	if err := checkTOMLKeys(meta, reflect.TypeOf(c)); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Find walks up from startDir looking for one of FileNames.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}

		dir = parent
	}
}

// Load reads the file at explicit, or the first file found from startDir.
// Without a file it returns Default and an empty path.
func Load(explicit, startDir string) (*Config, string, error) {
	path := explicit

	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, "", err
		}

		if !ok {
			return Default(), "", nil
		}

		path = found
	}

	c, err := LoadFile(path)
	if err != nil {
		return nil, path, err
	}

	return c, path, nil
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
