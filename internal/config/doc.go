// Package config defines the bootstrap settings and helpers to load, validate
// and save them in YAML format.
//
// A missing settings file is not an error: Load returns the defaults, and the
// CLI layers its flags on top.
package config
