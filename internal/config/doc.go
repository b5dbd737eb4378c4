// Package config loads and validates the TOML configuration: category rules,
// logging, run history, and watch-mode settings. Loading is
// parse-normalize-validate; malformed rules are rejected before any
// filesystem work starts.
package config
