package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/carelist/internal/core/domain"
)

var registerNoInput bool

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Check a registration form",
	Long: `Validate a registration form and report every failing field.

Fields not given as flags are prompted for. The password prompt does not
echo. Use --no-input to validate only what the flags provide.

Rules:
  name      - required
  age       - a number, at least 18
  email     - name@domain.tld
  password  - at least 6 characters
  mobile    - exactly 10 digits`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	for _, field := range domain.RegistrationFields() {
		registerCmd.Flags().String(field.String(), "", strings.ToLower(field.Label()))
	}
	registerCmd.Flags().BoolVar(&registerNoInput, "no-input", false, "do not prompt for missing fields")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	var form domain.RegistrationForm
	reader := bufio.NewReader(cmd.InOrStdin())
	for _, field := range domain.RegistrationFields() {
		f := cmd.Flags().Lookup(field.String())
		if f.Changed || registerNoInput {
			form.Set(field, f.Value.String())
			continue
		}

		cmd.Printf("%s: ", field.Label())
		if field == domain.FieldPassword {
			form.Set(field, readPassword(reader))
			cmd.Println()
		} else {
			form.Set(field, readLine(reader))
		}
	}

	result := sessionService.Submit(form)
	if !result.Valid {
		cmd.Println("Registration failed:")
		for _, field := range result.Errors.Fields() {
			cmd.Printf("  %-9s %s\n", field.Label()+":", result.Errors.Message(field))
		}
		return result.Err()
	}

	cmd.Printf("Registration valid. Welcome, %s!\n", form.Name)
	return nil
}

// readPassword reads a line without echo when stdin is a terminal, and
// falls back to reader otherwise.
var readPassword = func(reader *bufio.Reader) string {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
