package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carelist/internal/core/domain"
)

var (
	servicesJSON bool

	serviceName        string
	serviceDescription string
	servicePrice       string
)

var servicesCmd = &cobra.Command{
	Use:     "services",
	Aliases: []string{"service", "svc"},
	Short:   "Manage the service catalogue",
	Long: `List, add, update and delete services.

Every change is written to the configured storage backend immediately.`,
	RunE: runServicesList,
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all services",
	Args:  cobra.NoArgs,
	RunE:  runServicesList,
}

var servicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a service",
	Long:  `Add a service. Name, description and price are all required.`,
	Args:  cobra.NoArgs,
	RunE:  runServicesAdd,
}

var servicesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields of a service",
	Long:  `Update a service. Only the flags that are given are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesUpdate,
}

var servicesDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a service",
	Args:    cobra.ExactArgs(1),
	RunE:    runServicesDelete,
}

func init() {
	servicesCmd.PersistentFlags().BoolVar(&servicesJSON, "json", false, "output as JSON")

	for _, cmd := range []*cobra.Command{servicesAddCmd, servicesUpdateCmd} {
		cmd.Flags().StringVar(&serviceName, "name", "", "service name")
		cmd.Flags().StringVar(&serviceDescription, "description", "", "service description")
		cmd.Flags().StringVar(&servicePrice, "price", "", "service price")
	}

	servicesCmd.AddCommand(servicesListCmd)
	servicesCmd.AddCommand(servicesAddCmd)
	servicesCmd.AddCommand(servicesUpdateCmd)
	servicesCmd.AddCommand(servicesDeleteCmd)
	rootCmd.AddCommand(servicesCmd)
}

// loadCatalogue hydrates the catalogue and reports recoverable problems.
func loadCatalogue(ctx context.Context, cmd *cobra.Command) error {
	if catalogueService == nil {
		return errors.New("service catalogue not configured")
	}

	result, err := catalogueService.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptState):
		cmd.PrintErrln("Warning: stored service list was unreadable, starting empty")
	case err != nil:
		return fmt.Errorf("failed to load services: %w", err)
	}
	if result.Discarded > 0 {
		cmd.PrintErrf("Warning: dropped %d malformed record(s)\n", result.Discarded)
	}
	return nil
}

func runServicesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := loadCatalogue(ctx, cmd); err != nil {
		return err
	}

	list := catalogueService.List()

	if servicesJSON {
		return printJSON(cmd, list)
	}

	if len(list) == 0 {
		cmd.Println("No services yet. Add one with 'carelist services add'.")
		return nil
	}

	cmd.Printf("Services (%d)\n\n", len(list))
	for i := range list {
		svc := &list[i]
		cmd.Printf("%d. %s  %s\n", i+1, svc.Name, svc.DisplayPrice())
		cmd.Printf("   %s\n", svc.Description)
		cmd.Printf("   ID: %s\n\n", svc.ID)
	}
	return nil
}

func runServicesAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := loadCatalogue(ctx, cmd); err != nil {
		return err
	}

	draft := domain.ServiceDraft{
		Name:        serviceName,
		Description: serviceDescription,
		Price:       servicePrice,
	}
	if !draft.Complete() {
		return fmt.Errorf("%w: --name, --description and --price are required", domain.ErrInvalidInput)
	}

	svc, err := catalogueService.Add(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to add service: %w", err)
	}

	if servicesJSON {
		return printJSON(cmd, svc)
	}
	cmd.Printf("Added %s (%s)\n", svc.Name, svc.ID)
	return nil
}

func runServicesUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := loadCatalogue(ctx, cmd); err != nil {
		return err
	}

	id := args[0]
	changes := map[domain.ServiceField]string{}
	for _, field := range domain.ServiceFields() {
		if f := cmd.Flags().Lookup(string(field)); f != nil && f.Changed {
			changes[field] = f.Value.String()
		}
	}
	if len(changes) == 0 {
		return fmt.Errorf("%w: nothing to update, pass --name, --description or --price", domain.ErrInvalidInput)
	}

	if !catalogueService.BeginEdit(id) {
		return fmt.Errorf("service %q: %w", id, domain.ErrNotFound)
	}
	for field, value := range changes {
		catalogueService.EditField(field, value)
	}

	svc, err := catalogueService.CommitEdit(ctx)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	if servicesJSON {
		return printJSON(cmd, svc)
	}
	cmd.Printf("Updated %s (%s)\n", svc.Name, svc.ID)
	return nil
}

func runServicesDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := loadCatalogue(ctx, cmd); err != nil {
		return err
	}

	id := args[0]
	svc, err := catalogueService.Get(id)
	if err != nil {
		return fmt.Errorf("service %q: %w", id, err)
	}

	if err := catalogueService.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	cmd.Printf("Deleted %s (%s)\n", svc.Name, svc.ID)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
