package cli

import (
	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the protocol contracts with precomputed addresses",
		Long: `Deploy the BuidlHub protocol contracts in their fixed order.

Every address is computed from the deployer's nonce before the first transaction is
sent, so contracts deployed earlier can be constructed with the addresses of contracts
deployed later. Each deployment is pinned to its reserved nonce and verified against
the prediction. The address book is written once every contract is confirmed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployProtocol.Run(cmd.Context(), usecase.DeployProtocolParams{
				DryRun: dryRun,
			})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderDeploy(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan and encode every deployment without sending anything")

	return cmd
}
