package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/carelist/internal/adapters/driven/ids"
	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/services"
)

// testServices is a fully wired in-memory service set.
type testServices struct {
	kv        *memory.KeyValueStore
	config    *memory.ConfigStore
	session   *services.SessionService
	catalogue *services.CatalogueService
	settings  *services.SettingsService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	kv := memory.NewKeyValueStore()
	config := memory.NewConfigStore()
	ts := &testServices{
		kv:        kv,
		config:    config,
		session:   services.NewSessionService(services.NewRegistrationService()),
		catalogue: services.NewCatalogueService(kv, ids.NewSequence("svc-", 0), domain.DefaultStorageKey),
		settings:  services.NewSettingsService(config),
	}
	t.Cleanup(ts.catalogue.Close)
	return ts
}

// install points the command tree at ts for the duration of the test.
func (ts *testServices) install(t *testing.T) {
	t.Helper()

	oldFactory := servicesFactory
	oldSession, oldCatalogue, oldSettings := sessionService, catalogueService, settingsService
	t.Cleanup(func() {
		servicesFactory = oldFactory
		sessionService, catalogueService, settingsService = oldSession, oldCatalogue, oldSettings
		activeStorage = domain.StorageSettings{}
		watchStorage = nil
	})

	servicesFactory = nil
	sessionService = ts.session
	catalogueService = ts.catalogue
	settingsService = ts.settings
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag in the tree so values do not leak
// between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}
