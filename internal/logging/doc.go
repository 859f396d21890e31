// Package logging configures slog handlers for console and JSON output and
// provides the attribute helpers used across the daemon and CLI.
package logging
