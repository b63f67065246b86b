package cli

import (
	"fmt"

	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var (
		sender string
		nonce  uint64
		count  int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Show the addresses a deployment would produce",
		Long: `Show the deployment plan with every precomputed address, using the deployer's
pending nonce or --nonce. Nothing is sent.

With --sender, list --count successive CREATE addresses of any account instead:

  buidl predict --sender 0x... --nonce 5 --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.PredictAddressesParams{Count: count}
			if cmd.Flags().Changed("sender") {
				addr, err := domain.ParseAddress(sender)
				if err != nil {
					return fmt.Errorf("--sender: %w", err)
				}
				params.Sender = &addr
			}
			if cmd.Flags().Changed("nonce") {
				params.Nonce = &nonce
			}

			result, err := app.PredictAddresses.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderPredict(result)
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Account to predict CREATE addresses for")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "First nonce (defaults to the pending nonce)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of addresses to list with --sender")

	return cmd
}
