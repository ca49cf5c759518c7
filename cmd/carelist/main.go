// Package main is the entry point for the carelist CLI and TUI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/carelist/internal/adapters/driving/cli"
	"github.com/custodia-labs/carelist/internal/app"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	cli.SetServicesFactory(newServices)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServices(opts cli.Options) (*cli.Services, error) {
	w, err := app.NewWire(app.Config{
		ConfigDir: opts.ConfigDir,
		DataDir:   opts.DataDir,
		Backend:   opts.Backend,
		Key:       opts.Key,
	})
	if err != nil {
		return nil, err
	}
	return &cli.Services{
		Session:   w.Session,
		Catalogue: w.Catalogue,
		Settings:  w.Settings,
		Storage:   w.Storage,
		Watch:     w.WatchStorage,
		Close:     w.Close,
	}, nil
}
