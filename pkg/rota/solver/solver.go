package solver

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/gunmupyo/pkg/rerrors"
	"github.com/paiban/gunmupyo/pkg/rota"
	"github.com/paiban/gunmupyo/pkg/rota/constraints"
)

// DefaultTimeout is the wall-clock deadline applied when the caller doesn't set one.
const DefaultTimeout = 120 * time.Second

// Solution is a feasible schedule together with its soft-objective
// breakdown, ready for the extractor.
type Solution struct {
	RunID     string
	Model     *rota.Model
	Breakdown constraints.Breakdown
}

// Objective is the weighted scalar Solution.Breakdown folds to.
func (s *Solution) Objective() int {
	return s.Breakdown.Objective()
}

// eventSink receives the same hooks RotaLogger exposes, kept as a
// narrow interface here so this package doesn't depend on pkg/logger
// just to report progress.
type eventSink interface {
	StartSolve(year, month, employees, days int)
	PropagationPruned(employee, day int, reason string)
	SolveComplete(status string, elapsed time.Duration, objective int)
}

// Solve builds the model once and runs it through construction then
// polish, returning a terminal status classification. maxTime
// of zero selects DefaultTimeout. A nil sink is accepted; the HTTP
// handler passes pkg/logger's RotaLogger, the tests pass nil.
func Solve(ctx context.Context, cfg *rota.Config, maxTime time.Duration, sink eventSink) (Status, *Solution, error) {
	if maxTime <= 0 {
		maxTime = DefaultTimeout
	}
	runID := uuid.NewString()

	if sink != nil {
		sink.StartSolve(cfg.Year, cfg.Month, cfg.NumEmployees(), cfg.NumDays)
	}

	start := time.Now()
	deadline := start.Add(maxTime)
	searchCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	ok, backtracked, timedOut, model := construct(searchCtx, cfg, sink)
	if !ok {
		status := Infeasible
		if timedOut {
			status = Timeout
		}
		if sink != nil {
			sink.SolveComplete(string(status), time.Since(start), 0)
		}
		if status == Timeout {
			return status, nil, rerrors.NoIncumbent(time.Since(start).Round(time.Second).String())
		}
		return status, nil, rerrors.NoFeasibleSolution()
	}

	rng := rand.New(rand.NewSource(int64(len(cfg.Employees))*2654435761 + int64(cfg.NumDays)))
	polished, converged := polish(searchCtx, DefaultPolishConfig(), model, rng)

	// The polish moves preserve per-employee totals and the
	// Night->PostOff chain by construction, but not the six-day cap or
	// the daily coverage floor (relocating a Night/PostOff pair or a
	// Rest day can complete a 7-day work window, or strip a day down to
	// zero Night coverage, elsewhere in the month). Re-verify before
	// trusting the result; fall back to the construction incumbent,
	// which is always hard-feasible, if polish regressed it.
	final := polished
	if len(constraints.CheckAll(polished)) > 0 {
		final = model
		converged = false
	}

	status := Feasible
	if !backtracked && converged {
		status = Optimal
	}

	breakdown := constraints.Evaluate(final)
	if sink != nil {
		sink.SolveComplete(string(status), time.Since(start), breakdown.Objective())
	}
	return status, &Solution{RunID: runID, Model: final, Breakdown: breakdown}, nil
}
