package cli

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/orchestration"
	"github.com/agbru/secretsanta/internal/slot"
)

// LoadCandidates reads the employee and last-year files concurrently.
func LoadCandidates(ctx context.Context, employeesPath, lastYearPath string) (employees, lastYear *slot.Candidate, err error) {
	g, _ := errgroup.WithContext(ctx)
	if employeesPath != "" {
		g.Go(func() error {
			var err error
			employees, err = slot.CandidateFromFile(employeesPath)
			return err
		})
	}
	if lastYearPath != "" {
		g.Go(func() error {
			var err error
			lastYear, err = slot.CandidateFromFile(lastYearPath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return employees, lastYear, nil
}

// RunOneShot selects the two files, submits them and prints the result. It
// returns the process exit code.
func RunOneShot(ctx context.Context, orch *orchestration.Orchestrator, employeesPath, lastYearPath string, out io.Writer) int {
	presenter := NewPresenter(out)

	employees, lastYear, err := LoadCandidates(ctx, employeesPath, lastYearPath)
	if err != nil {
		presenter.Present(orchestration.Snapshot{Phase: orchestration.Failed, Message: err.Error()})
		return apperrors.ExitErrorGeneric
	}

	// Files that were not given stay empty so Submit reports them missing.
	for _, sel := range []struct {
		id        string
		candidate *slot.Candidate
	}{
		{slot.Employees, employees},
		{slot.LastYear, lastYear},
	} {
		if sel.candidate == nil {
			continue
		}
		if snap, err := orch.Select(sel.id, sel.candidate); err != nil {
			presenter.Present(snap)
			return apperrors.ExitCodeFor(err)
		}
	}

	unsubscribe := orch.Subscribe(presenter.Observe)
	snap, err := orch.Submit(ctx)
	unsubscribe()

	presenter.Present(snap)
	return apperrors.ExitCodeFor(err)
}
