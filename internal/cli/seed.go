package cli

import (
	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/config"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo profiles, yield trusts and projects",
		Long: `Populate a configured development deployment with demo data: one profile,
yield trust and project per seed user. Amounts and texts come from seed.yaml when
present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			path := app.Config.SeedFile
			if seedFile != "" {
				path = seedFile
			}
			data, err := config.LoadSeedData(path)
			if err != nil {
				return err
			}

			result, err := app.SeedProtocol.Run(cmd.Context(), usecase.SeedProtocolParams{
				Fixtures: seedFixtures(data),
			})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			return render.NewProtocolRenderer(cmd.OutOrStdout()).RenderSeed(result)
		},
	}

	cmd.Flags().StringVar(&seedFile, "file", "", "Seed fixtures file (defaults to seed.yaml)")

	return cmd
}

func seedFixtures(data *config.SeedData) usecase.SeedFixtures {
	return usecase.SeedFixtures{
		UserMint:       data.UserMint,
		GovernanceMint: data.GovernanceMint,
		VaultDeposit:   data.VaultDeposit,
		SimulatedYield: data.SimulatedYield,
		TokenPriceUsd:  data.TokenPriceUsd,
		MetadataURI:    data.MetadataURI,
		GithubUsername: data.GithubUsername,
		GithubRepo:     data.GithubRepo,
	}
}
