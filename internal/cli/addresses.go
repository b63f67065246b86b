package cli

import (
	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewAddressesCmd creates the addresses command
func NewAddressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "Show the address book of the selected network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowAddresses.Run(cmd.Context(), usecase.ShowAddressesParams{})
			if err != nil {
				return err
			}

			return render.NewAddressesRenderer(cmd.OutOrStdout()).RenderAddresses(result)
		},
	}
}
