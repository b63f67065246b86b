package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProtocolRenderer renders configuration, seeding and state changes of a deployed hub
type ProtocolRenderer struct {
	out io.Writer
}

// NewProtocolRenderer creates a new protocol renderer
func NewProtocolRenderer(out io.Writer) *ProtocolRenderer {
	return &ProtocolRenderer{out: out}
}

// RenderConfigure renders each configuration call in submission order
func (r *ProtocolRenderer) RenderConfigure(result *usecase.ConfigureProtocolResult) error {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s on %s\n\n",
		sectionHeaderStyle.Sprint("Configuration of hub"), result.Hub.Hex(), result.Network.Name)

	t := newTable()
	t.AppendHeader(table.Row{"#", "Call", "Arguments", "Transaction"})
	sent := 0
	for i, step := range result.Steps {
		tx := faintStyle.Sprint("not sent")
		switch {
		case step.TxHash != nil:
			tx = step.TxHash.Hex()
			sent++
		case step.Skipped:
			tx = faintStyle.Sprint("skipped, already done")
		}
		t.AppendRow(table.Row{
			faintStyle.Sprint(i + 1),
			nameStyle.Sprint(step.Method),
			strings.Join(step.Args, ", "),
			tx,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	if result.DeployerLinkBefore != nil {
		fmt.Fprintf(r.out, "Deployer LINK before funding: %s\n", bindings.FormatEther(result.DeployerLinkBefore))
	}
	if result.ModuleLinkAfter != nil {
		fmt.Fprintf(r.out, "%s LINK after funding: %s\n", usecase.ContractBackERC20ICOModule, bindings.FormatEther(result.ModuleLinkAfter))
	}

	if result.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run: nothing was sent"))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s confirmed", pluralize(sent, "configuration call"))))
	return nil
}

// RenderSeed renders the profiles created for each seed user
func (r *ProtocolRenderer) RenderSeed(result *usecase.SeedProtocolResult) error {
	fmt.Fprintln(r.out)
	t := newTable()
	t.AppendHeader(table.Row{"User", "Profile", "Handle", "Vault", "Project"})
	for _, p := range result.Profiles {
		t.AppendRow(table.Row{
			p.User.Hex(),
			nonceStyle.Sprint(p.ProfileID),
			nameStyle.Sprint(p.Handle),
			p.Vault.Hex(),
			p.Project,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Seeded %s with %s",
		pluralize(len(result.Profiles), "profile"), pluralize(result.Transactions, "transaction"))))
	return nil
}

// RenderState renders the hub state before and after a change
func (r *ProtocolRenderer) RenderState(result *usecase.SetProtocolStateResult) error {
	title := cases.Title(language.English)
	if !result.Changed() {
		fmt.Fprintf(r.out, "Hub %s is %s\n", result.Hub.Hex(), nameStyle.Sprint(title.String(result.Initial.String())))
		return nil
	}
	fmt.Fprintf(r.out, "Hub %s: %s → %s\n", result.Hub.Hex(),
		faintStyle.Sprint(title.String(result.Initial.String())),
		nameStyle.Sprint(title.String(result.Final.String())))
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("State changed in %s", result.TxHash.Hex())))
	return nil
}
