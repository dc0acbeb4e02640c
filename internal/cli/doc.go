// Package cli defines the Cobra command tree for the toolsmith CLI. Each file
// in this package registers one top-level command (run, slug, doctor, etc.)
// with the root command. Command implementations delegate to internal packages
// for business logic and only handle flag parsing, I/O formatting, and wiring.
package cli
