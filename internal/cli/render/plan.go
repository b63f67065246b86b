package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PlanRenderer renders precomputed deployment plans
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// RenderPlan renders every planned contract with its nonce, address and arguments
func (r *PlanRenderer) RenderPlan(plan *domain.DeploymentPlan) {
	fmt.Fprintf(r.out, "%s %s from %s starting at nonce %d\n\n",
		sectionHeaderStyle.Sprint("Deployment plan:"),
		pluralize(len(plan.Steps), "contract"),
		addressStyle.Sprint(plan.Sender.Hex()),
		plan.StartNonce)

	t := newTable()
	t.AppendHeader(table.Row{"#", "Contract", "Nonce", "Address", "Arguments"})
	for _, step := range plan.Steps {
		t.AppendRow(table.Row{
			faintStyle.Sprint(step.Index + 1),
			nameStyle.Sprint(step.Key()),
			nonceStyle.Sprint(step.Nonce),
			step.Address.Hex(),
			strings.Join(describeArgs(plan, step), ", "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
}

// describeArgs shows references by name so the dependency order is visible
func describeArgs(plan *domain.DeploymentPlan, step domain.PlannedDeployment) []string {
	resolved := plan.ResolveArgs(step)
	out := make([]string, len(resolved))
	for i, arg := range step.Args {
		if arg.IsRef() {
			out[i] = fmt.Sprintf("%s(%s)", arg.Ref, shortHex(bindings.FormatValue(resolved[i])))
			continue
		}
		out[i] = bindings.FormatValue(resolved[i])
	}
	if len(step.Libraries) > 0 {
		out = append(out, faintStyle.Sprintf("links %s", strings.Join(step.Libraries, ", ")))
	}
	return out
}
