// Package main hosts the courier CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into one-shot
// transfer runs, dry-run transfer plans, session credential bootstrap,
// and configuration scaffolding. It centralizes configuration resolution
// and structured logging setup so subcommands can focus on user
// experience instead of wiring.
package main
