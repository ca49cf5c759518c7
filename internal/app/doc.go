// Package app wires application dependencies for the CLI and TUI.
//
// It opens the config store, resolves storage settings, opens the chosen
// key-value backend and builds the core services on top of it, exposing
// them via the Wire struct.
package app
