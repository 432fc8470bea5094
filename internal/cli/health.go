package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the simulation backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newClient(cmd.Context())
			h, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", client.BaseURL(), err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", client.BaseURL(), h.Status)
			return nil
		},
	}
}
