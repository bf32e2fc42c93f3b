package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"daybrief/internal/config"
)

// NewCheckCmd creates the check command: a standalone reachability probe
// for the configured generation backend.
func NewCheckCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the generation server is reachable",
		Long: `Check the configured generation backend and exit.

For the local provider this probes the llama.cpp /health endpoint,
falling back to the OpenAI-compatible /v1/models listing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			gateway, err := newGateway(cmd.Context(), cfg, server, "")
			if err != nil {
				return err
			}

			if err := gateway.CheckHealth(cmd.Context()); err != nil {
				return fmt.Errorf("server not reachable (start llama.cpp with: ./server -c 4096 --port 8080): %w", err)
			}

			fmt.Println("Server is running and responsive")
			return nil
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "llama.cpp server URL override")

	return cmd
}
