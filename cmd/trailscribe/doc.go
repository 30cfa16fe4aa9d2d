// Package main hosts the trailscribe CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the watch daemon, one-shot scans,
// staleness checks, ledger history, notification testing, and configuration
// scaffolding. It centralizes configuration resolution, ledger access, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
