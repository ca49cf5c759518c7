package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carelist/internal/core/domain"
)

var (
	settingsDataDir string
	settingsKey     string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure where the service list is stored.

Changes are written to config.toml and take effect the next time carelist
starts.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage [backend]",
	Short: "Configure storage",
	Long: `Set the storage backend, data directory or storage key.

Available backends:
  sqlite  - SQLite database in the data directory (default)
  file    - JSON document in the data directory
  memory  - kept in memory, lost on exit

Without a backend argument or flags you are asked to pick one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsStorage,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsStorageCmd.Flags().StringVar(&settingsDataDir, "dir", "", "directory for durable storage")
	settingsStorageCmd.Flags().StringVar(&settingsKey, "storage-key", "", "storage key for the service list")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data Directory: %s\n", dataDir)
	cmd.Printf("  Storage Key: %s\n", settings.Storage.Key)
	cmd.Println()

	if activeStorage.Backend != "" && activeStorage != settings.Storage {
		cmd.Println("[In Use]")
		cmd.Printf("  Backend: %s\n", activeStorage.Backend.Description())
		if activeStorage.DataDir != "" {
			cmd.Printf("  Data Directory: %s\n", activeStorage.DataDir)
		}
		cmd.Printf("  Storage Key: %s\n", activeStorage.Key)
		cmd.Println()
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'carelist settings reset' to restore defaults.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	dataDirChanged := cmd.Flags().Changed("dir")
	keyChanged := cmd.Flags().Changed("storage-key")

	var backend domain.StorageBackend
	switch {
	case len(args) == 1:
		backend = domain.StorageBackend(strings.ToLower(args[0]))
	case !dataDirChanged && !keyChanged:
		backend = promptBackend(cmd)
	}

	if backend != "" {
		if err := settingsService.SetStorageBackend(backend); err != nil {
			return fmt.Errorf("failed to set storage backend: %w", err)
		}
		cmd.Printf("Storage backend set to: %s\n", backend.Description())
		if !backend.IsDurable() {
			cmd.Println("Note: services will not survive a restart with this backend.")
		}
	}

	if dataDirChanged {
		if err := settingsService.SetDataDir(strings.TrimSpace(settingsDataDir)); err != nil {
			return fmt.Errorf("failed to set data directory: %w", err)
		}
		cmd.Printf("Data directory set to: %s\n", settingsDataDir)
	}

	if keyChanged {
		if err := settingsService.SetStorageKey(strings.TrimSpace(settingsKey)); err != nil {
			return fmt.Errorf("failed to set storage key: %w", err)
		}
		cmd.Printf("Storage key set to: %s\n", settingsKey)
	}

	return nil
}

func promptBackend(cmd *cobra.Command) domain.StorageBackend {
	backends := domain.AllStorageBackends()
	cmd.Println("Select storage backend:")
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")

	idx := parseChoice(readLine(bufio.NewReader(cmd.InOrStdin())), len(backends), 1)
	cmd.Println()
	return backends[idx-1]
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
