package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/fatih/color"
)

// StepProgress prints a "[i/n] Contract" header whenever a sequenced step starts
// and delegates everything else to the spinner.
type StepProgress struct {
	out     io.Writer
	spinner *SpinnerProgressReporter
	current string
}

// NewStepProgress creates a step progress reporter writing to out
func NewStepProgress(out io.Writer) *StepProgress {
	return &StepProgress{out: out, spinner: NewSpinnerProgressReporterTo(out)}
}

// OnProgress handles progress events
func (p *StepProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Total > 0 && event.Stage != p.current {
		p.current = event.Stage
		p.spinner.Stop()
		fmt.Fprintf(p.out, "\n%s %s\n",
			color.New(color.Faint).Sprintf("[%d/%d]", event.Current, event.Total),
			color.New(color.Bold).Sprint(event.Stage))
	}
	p.spinner.OnProgress(ctx, event)
}

// Info forwards info messages to the spinner
func (p *StepProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error forwards error messages to the spinner
func (p *StepProgress) Error(message string) {
	p.spinner.Error(message)
}

// Stop clears the spinner
func (p *StepProgress) Stop() {
	p.spinner.Stop()
}

var _ usecase.ProgressSink = (*StepProgress)(nil)
