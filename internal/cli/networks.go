package cli

import (
	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List the networks from buidl.toml merged with the built-in ones, and the
required constants each of them is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			return render.NewAddressesRenderer(cmd.OutOrStdout()).RenderNetworks(result)
		},
	}
}
