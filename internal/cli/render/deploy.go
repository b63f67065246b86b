package render

import (
	"fmt"
	"io"

	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DeployRenderer renders the outcome of a protocol deployment
type DeployRenderer struct {
	out  io.Writer
	plan *PlanRenderer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out, plan: NewPlanRenderer(out)}
}

// RenderDeploy renders a dry run as the plan, and a real run as its deployed contracts
func (r *DeployRenderer) RenderDeploy(result *usecase.DeployProtocolResult) error {
	if result.DryRun {
		r.plan.RenderPlan(result.Plan)
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning("Dry run: nothing was sent"))
		return nil
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s (chain %d)\n\n",
		sectionHeaderStyle.Sprint("Deployed to"), result.Network.Name, result.ChainID)

	t := newTable()
	t.AppendHeader(table.Row{"Contract", "Address", "Nonce", "Block", "Gas", "Transaction"})
	for _, rec := range result.Records {
		t.AppendRow(table.Row{
			nameStyle.Sprint(rec.Name),
			rec.Address,
			nonceStyle.Sprint(rec.Nonce),
			rec.BlockNumber,
			rec.GasUsed,
			faintStyle.Sprint(rec.TransactionHash),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Address book written to %s", result.AddressesFile)))
	return nil
}

// RenderPredict renders phase one of a deployment, or raw successive addresses
func (r *DeployRenderer) RenderPredict(result *usecase.PredictAddressesResult) error {
	if result.Plan != nil {
		r.plan.RenderPlan(result.Plan)
		return nil
	}

	fmt.Fprintf(r.out, "%s %s\n\n", sectionHeaderStyle.Sprint("CREATE addresses of"), result.Sender.Hex())
	t := newTable()
	t.AppendHeader(table.Row{"Nonce", "Address"})
	for _, a := range result.Addresses {
		t.AppendRow(table.Row{nonceStyle.Sprint(a.Nonce), a.Address.Hex()})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
