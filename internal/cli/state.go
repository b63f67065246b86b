package cli

import (
	"fmt"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/cli/render"
	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// NewUnpauseCmd creates the unpause command
func NewUnpauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpause",
		Short: "Unpause the deployed hub",
		Long: `Read the hub address from the address book, print its current state, send a
single governance-signed setState(Unpaused) and print the final state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := domain.ProtocolStateUnpaused
			return runSetState(cmd, &state)
		},
	}
}

// NewStateCmd creates the state command
func NewStateCmd() *cobra.Command {
	names := lo.Map(domain.ProtocolStates(), func(s domain.ProtocolState, _ int) string { return s.String() })

	return &cobra.Command{
		Use:   "state [new-state]",
		Short: "Show or change the hub state",
		Long: fmt.Sprintf(`Show the hub state. With an argument, set it with a governance-signed
transaction.

States: %s`, strings.Join(names, ", ")),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runSetState(cmd, nil)
			}
			state, err := domain.ParseProtocolState(args[0])
			if err != nil {
				return err
			}
			return runSetState(cmd, &state)
		},
	}
}

func runSetState(cmd *cobra.Command, state *domain.ProtocolState) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.SetProtocolState.Run(cmd.Context(), usecase.SetProtocolStateParams{State: state})
	stopProgress(cmd)
	if err != nil {
		return err
	}

	return render.NewProtocolRenderer(cmd.OutOrStdout()).RenderState(result)
}
