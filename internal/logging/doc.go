// Package logging builds the shared slog logger and the attribute helpers
// used across trailscribe components.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log shipping. Component loggers carry a standardized
// "component" attribute so daemon output can be filtered per subsystem.
package logging
