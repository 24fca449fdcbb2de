// Package config loads logger configuration from JSON, YAML or TOML
// files, chosen by file extension, and can watch a file for changes.
package config
