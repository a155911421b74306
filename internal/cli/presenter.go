package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/agbru/secretsanta/internal/orchestration"
	"github.com/agbru/secretsanta/internal/ui"
)

// PendingSuffix is shown next to the spinner while a request is in flight.
const PendingSuffix = " Generating assignments..."

// Presenter renders orchestrator snapshots on a terminal: a spinner while
// Pending, then a summary of the final state.
type Presenter struct {
	out io.Writer

	mu      sync.Mutex
	spinner Spinner
	started time.Time
	elapsed time.Duration
}

// NewPresenter creates a Presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// Observe is an orchestration subscriber. It starts the spinner on entering
// Pending and stops it on any other phase.
func (p *Presenter) Observe(s orchestration.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.Phase == orchestration.Pending {
		if p.spinner == nil {
			p.started = time.Now()
			p.spinner = newSpinner(p.out)
			p.spinner.UpdateSuffix(PendingSuffix)
			p.spinner.Start()
		}
		return
	}
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
		p.elapsed = time.Since(p.started)
	}
}

// Present prints the final state of a submission.
func (p *Presenter) Present(s orchestration.Snapshot) {
	p.mu.Lock()
	elapsed := p.elapsed
	p.mu.Unlock()

	switch s.Phase {
	case orchestration.Succeeded:
		title := ui.Success(ui.OutcomeTitle(false))
		if s.Outcome.HasMatches {
			title = ui.Warning(ui.OutcomeTitle(true))
		}
		fmt.Fprintf(p.out, "%s\n", ui.Bold(title))
		fmt.Fprintf(p.out, "%s\n", s.Outcome.Message)
		fmt.Fprintf(p.out, "Saved to: %s (%s)\n", ui.Primary(s.Outcome.Path), humanize.Bytes(uint64(s.Outcome.Size)))
		if elapsed > 0 {
			fmt.Fprintf(p.out, "%s\n", ui.Secondary("Completed in "+FormatExecutionDuration(elapsed)))
		}
	case orchestration.Failed:
		fmt.Fprintf(p.out, "%s %s\n", ui.Error("Error:"), s.Message)
	case orchestration.Invalid:
		fmt.Fprintf(p.out, "%s %s\n", ui.Error("Error:"), s.Reason)
	default:
		fmt.Fprintf(p.out, "Status: %s\n", s.Phase)
	}
}
