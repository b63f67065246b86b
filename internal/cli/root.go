package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/buidlhub/buidl-cli/internal/adapters/progress"
	"github.com/buidlhub/buidl-cli/internal/app"
	"github.com/buidlhub/buidl-cli/internal/config"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// sinkKey is the context key for the progress sink
	sinkKey contextKey = "sink"
)

// stopper is implemented by progress sinks that draw a spinner
type stopper interface {
	Stop()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buidl",
		Short: "Deploy and configure the BuidlHub protocol",
		Long: `buidl deploys the BuidlHub contracts in a fixed order with precomputed
addresses, then configures, seeds and unpauses the deployed hub.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot := config.FindProjectRoot()
			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("non_interactive") && !color.NoColor {
				sink = progress.NewStepProgress(os.Stderr)
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, sinkKey, sink)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, err := getApp(cmd); err == nil {
				a.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., localhost, mumbai)")
	rootCmd.PersistentFlags().Uint64("confirmations", 0, "Override the number of confirmations to wait for")
	rootCmd.PersistentFlags().String("addresses-file", "", "Path of the address book (defaults to deployments/<network>/addresses.json)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewDeployCmd(),
		NewConfigureCmd(),
		NewSeedCmd(),
		NewUnpauseCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewPredictCmd(),
		NewStateCmd(),
		NewAddressesCmd(),
		NewNetworksCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress clears the spinner before a command renders its result
func stopProgress(cmd *cobra.Command) {
	if s, ok := cmd.Context().Value(sinkKey).(stopper); ok {
		s.Stop()
	}
}
