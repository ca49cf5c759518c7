// Package file provides the TOML-backed configuration store.
//
// Keys are exposed flat in dot notation ("storage.backend") and written
// back as TOML tables:
//
//	[storage]
//	backend = "sqlite"
//	key = "services"
package file
