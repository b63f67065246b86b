package cli

import (
	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewConfigureCmd creates the configure command
func NewConfigureCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Whitelist tokens and modules, set price feeds and fund the ICO module",
		Long: `Configure a deployed hub: whitelist LINK (and the mock token on development
networks), set the Aave pool address provider and price feeds, fund
BackERC20ICOModule with LINK and whitelist both modules.

Calls are sent one at a time and each is confirmed before the next. Every call can be
repeated safely, so a failed run can simply be re-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ConfigureProtocol.Run(cmd.Context(), usecase.ConfigureProtocolParams{
				DryRun: dryRun,
			})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			return render.NewProtocolRenderer(cmd.OutOrStdout()).RenderConfigure(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and encode every call without sending anything")

	return cmd
}
