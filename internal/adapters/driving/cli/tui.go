package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui"
	"github.com/custodia-labs/carelist/internal/logger"
)

// DebugLogFile receives logs while the TUI owns the terminal in verbose mode.
const DebugLogFile = "carelist-debug.log"

// runProgram starts the bubbletea program. Swapped out in tests.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for carelist.

The TUI opens on the registration form. Once it is valid the service
catalogue is shown.

Controls:
  Tab/↓, Shift+Tab/↑ - Move between fields
  Enter              - Submit / Save / Edit
  a, e, d            - Add, edit, delete a service
  s                  - Settings
  Esc                - Back / Cancel
  ?                  - Toggle help
  q                  - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if sessionService == nil || catalogueService == nil {
		return errors.New("services not configured")
	}

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	ports := tui.NewPorts(sessionService, catalogueService, settingsService)
	if watchStorage != nil {
		changes, err := watchStorage()
		if err != nil {
			// the list still works, it just will not follow other writers
			logger.Warn("Not watching storage: %v", err)
		}
		ports.Changes = changes
	}
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).WithBackend(activeStorage.Backend)

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLogs keeps log lines off the alternate screen. Verbose logs go
// to DebugLogFile, everything else is dropped.
func redirectLogs() (func(), error) {
	restore := func() { logger.SetOutput(os.Stderr) }

	if !logger.IsVerbose() {
		logger.SetOutput(io.Discard)
		return restore, nil
	}

	f, err := tea.LogToFile(DebugLogFile, "carelist")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		restore()
		_ = f.Close()
	}, nil
}
