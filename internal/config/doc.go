// Package config loads, normalizes, and validates the trailscribe TOML
// configuration. Load resolves the config file (explicit path, then
// ~/.config/trailscribe/config.toml, then ./trailscribe.toml), applies
// defaults and environment fallbacks for secrets, expands ~ in paths, and
// validates the result.
package config
