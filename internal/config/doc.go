// Package config loads mapext configuration from mapext.yaml, mapext.yml or
// mapext.toml.
//
// Every field is optional; zero values are filled by applyDefaults. A file
// is discovered by walking up from a start directory.
package config
