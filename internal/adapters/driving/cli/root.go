// Package cli provides the cobra command tree for carelist.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
	"github.com/custodia-labs/carelist/internal/logger"
)

func init() {
	// Query the terminal background before any bubbletea program starts so
	// the OSC 11 reply cannot land in an input field.
	_ = lipgloss.HasDarkBackground()
}

// EnvPrefix prefixes environment variables that override flags,
// e.g. CARELIST_STORAGE=memory.
const EnvPrefix = "CARELIST"

var version = "dev"

// Options are the global flag values passed to the services factory.
type Options struct {
	ConfigDir string
	DataDir   string
	Backend   domain.StorageBackend
	Key       string
}

// Services is what a ServicesFactory hands back to the command tree.
type Services struct {
	Session   driving.SessionService
	Catalogue driving.ServiceCatalogue
	Settings  driving.SettingsService

	// Storage is the storage configuration the catalogue was opened with.
	Storage domain.StorageSettings

	// Watch starts reporting storage writes made by other processes.
	// Only the TUI calls it. May be nil.
	Watch func() (<-chan struct{}, error)

	// Close releases the stores behind the services. May be nil.
	Close func() error
}

// ServicesFactory builds services from the resolved global options.
type ServicesFactory func(opts Options) (*Services, error)

var servicesFactory ServicesFactory

// Services used by commands. Set by the factory before a command runs.
var (
	sessionService   driving.SessionService
	catalogueService driving.ServiceCatalogue
	settingsService  driving.SettingsService
	activeStorage    domain.StorageSettings
	watchStorage     func() (<-chan struct{}, error)
	closeServices    func() error
)

var rootCmd = &cobra.Command{
	Use:   "carelist",
	Short: "Register and manage a list of care services",
	Long: `carelist keeps a small catalogue of services (name, description, price).

Run without a subcommand to open the terminal UI. New users register first;
the catalogue opens once the sign-up form is valid.`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadServices,
	PersistentPostRunE: releaseServices,
	RunE:               runTUI,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "print debug logs")
	flags.String("config-dir", "", "directory holding config.toml (default: ~/.carelist)")
	flags.String("data-dir", "", "directory for durable storage (default: ~/.carelist/data)")
	flags.String("storage", "", "storage backend: sqlite, file or memory")
	flags.String("key", "", "storage key the service list is kept under")

	for _, name := range []string{"verbose", "config-dir", "data-dir", "storage", "key"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	logger.SetVerbose(viper.GetBool("verbose"))
}

// currentOptions reads the global options from flags and environment.
func currentOptions() Options {
	return Options{
		ConfigDir: viper.GetString("config-dir"),
		DataDir:   viper.GetString("data-dir"),
		Backend:   domain.StorageBackend(strings.ToLower(viper.GetString("storage"))),
		Key:       viper.GetString("key"),
	}
}

// SetServicesFactory sets how commands obtain their services.
func SetServicesFactory(factory ServicesFactory) {
	servicesFactory = factory
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command and releases any services it opened.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, releaseServices(nil, nil))
}

// loadServices runs the factory unless the command opts out.
// Without a factory the package variables are used as set.
func loadServices(cmd *cobra.Command, _ []string) error {
	if servicesFactory == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}

	opts := currentOptions()
	logger.Section("Startup")
	logger.Debug("Options: config-dir=%q data-dir=%q storage=%q key=%q",
		opts.ConfigDir, opts.DataDir, opts.Backend, opts.Key)

	svc, err := servicesFactory(opts)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	sessionService = svc.Session
	catalogueService = svc.Catalogue
	settingsService = svc.Settings
	activeStorage = svc.Storage
	watchStorage = svc.Watch
	closeServices = svc.Close
	return nil
}

func releaseServices(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	sessionService = nil
	catalogueService = nil
	settingsService = nil
	activeStorage = domain.StorageSettings{}
	watchStorage = nil
	return err
}

// annotationNoServices marks commands that run without opening storage.
const annotationNoServices = "carelist/no-services"
