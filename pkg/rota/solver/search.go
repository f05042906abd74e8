package solver

import (
	"context"
	"sort"

	"github.com/paiban/gunmupyo/pkg/rota"
	"github.com/paiban/gunmupyo/pkg/rota/constraints"
)

// pruneLogger receives one event per dead end the construction phase
// backs out of. A nil pruneLogger is valid; builder checks before
// every call.
type pruneLogger interface {
	PropagationPruned(employee, day int, reason string)
}

// builder runs the construction phase: a depth-first search over
// cells in day-major, employee-minor order, with forced-move
// propagation at every cell (pins, the Night→PostOff chain, the
// work/rest budget, and the six-day cap) so that branching only ever
// happens over genuinely free choices.
type builder struct {
	cfg    *rota.Config
	model  *rota.Model
	pinned map[[2]int]rota.Kind
	logger pruneLogger

	work, rest       []int // running per-employee totals
	backtracked      bool  // true once any cell's first candidate failed
	deadlineExceeded bool
}

// pinIndexKey identifies a pin by (employee, day).
func pinIndexKey(i, d int) [2]int { return [2]int{i, d} }

// construct finds the first complete schedule satisfying every hard
// constraint, or reports that none exists / time ran out first.
func construct(ctx context.Context, cfg *rota.Config, logger pruneLogger) (ok bool, backtracked bool, timedOut bool, m *rota.Model) {
	b := &builder{
		cfg:    cfg,
		model:  rota.NewModel(cfg),
		pinned: make(map[[2]int]rota.Kind, len(cfg.Pinned)),
		logger: logger,
		work:   make([]int, cfg.NumEmployees()),
		rest:   make([]int, cfg.NumEmployees()),
	}
	for _, p := range cfg.Pinned {
		b.pinned[pinIndexKey(p.Employee, p.Day)] = p.Shift
	}

	found := b.search(ctx, 0)
	if b.deadlineExceeded && !found {
		return false, b.backtracked, true, nil
	}
	if !found {
		return false, b.backtracked, false, nil
	}
	return true, b.backtracked, false, b.model
}

func (b *builder) logPruned(i, d int, reason string) {
	if b.logger != nil {
		b.logger.PropagationPruned(i, d, reason)
	}
}

// search decides cell idx (day-major: idx = d*numEmployees + i) and
// recurses. It returns true once every cell up to and including the
// last has been committed to a value consistent with the hard rules
// checkable incrementally; the whole-month checks (coverage per day,
// fairness bounds at the end) are re-verified at their natural
// completion points.
func (b *builder) search(ctx context.Context, idx int) bool {
	total := b.cfg.NumEmployees() * b.model.NumDays()
	if idx == total {
		return b.finalizeMonth()
	}

	select {
	case <-ctx.Done():
		b.deadlineExceeded = true
		return false
	default:
	}

	numEmployees := b.cfg.NumEmployees()
	d := idx / numEmployees
	i := idx % numEmployees

	candidates := b.candidatesFor(i, d)
	if len(candidates) == 0 {
		b.logPruned(i, d, "no candidate survives forced-move propagation")
		return false
	}

	// b.backtracked only becomes true below, when an earlier candidate
	// in this cell's list has already failed and been undone — having
	// more than one candidate to choose from isn't itself backtracking.
	for n, k := range candidates {
		if n > 0 {
			b.backtracked = true
		}
		b.model.Set(i, d, k, true)
		b.applyTotals(i, k, 1)

		ok := true
		if i == numEmployees-1 {
			// last employee of the day: the day's coverage is now
			// fully determined, check it before descending further.
			ok = b.dayCoverageOK(d)
		}
		if ok && b.search(ctx, idx+1) {
			return true
		}
		if !ok {
			b.logPruned(i, d, "day coverage floor not met")
		} else {
			b.logPruned(i, d, "candidate "+k.String()+" led to a dead end downstream")
		}

		b.applyTotals(i, k, -1)
		b.model.Unset(i, d, k)
		if b.deadlineExceeded {
			return false
		}
	}
	return false
}

func (b *builder) applyTotals(i int, k rota.Kind, delta int) {
	if k == rota.Rest {
		b.rest[i] += delta
	} else {
		b.work[i] += delta
	}
}

// candidatesFor computes the allowed kinds for (i,d) after applying
// every forced move. A pin, the Night→PostOff chain, and the
// work/rest budget can each collapse the set to a single value or
// empty it (a dead end); otherwise the free choices are ordered Day,
// Night, Rest with Night preferred first on days with an open night
// deficit so the constructor tends toward T1-friendly schedules
// without needing a second pass.
func (b *builder) candidatesFor(i, d int) []rota.Kind {
	numDays := b.model.NumDays()

	var forced rota.Kind
	hasForced := false

	if pin, ok := b.pinned[pinIndexKey(i, d)]; ok {
		forced, hasForced = pin, true
	}

	prevWasNight := d > 0 && b.kindOn(i, d-1) == rota.Night
	if prevWasNight {
		if hasForced && forced != rota.PostOff {
			return nil
		}
		forced, hasForced = rota.PostOff, true
	}

	if !prevWasNight && hasForced && forced == rota.PostOff {
		return nil // PostOff claimed without a preceding Night
	}

	if hasForced {
		if forced == rota.PostOff && !prevWasNight {
			return nil
		}
		if !b.consistentWithBudget(i, forced) {
			return nil
		}
		if forced != rota.Rest && b.violatesSixDayCap(i, d, forced) {
			return nil
		}
		return []rota.Kind{forced}
	}

	remaining := numDays - d
	restExhausted := b.rest[i] == b.cfg.RestDays // no rest quota left: everything left must be work
	workExhausted := b.work[i] == b.cfg.WorkDays // no work quota left: everything left must be rest
	// necessary pruning: if the remaining days can't possibly cover
	// the outstanding rest (or work) quota, this branch is already dead.
	if b.cfg.RestDays-b.rest[i] > remaining {
		return nil
	}
	if b.cfg.WorkDays-b.work[i] > remaining {
		return nil
	}

	capForcesRest := b.sixDayCapForcesRest(i, d)

	var candidates []rota.Kind
	switch {
	case capForcesRest:
		if restExhausted {
			return nil
		}
		candidates = []rota.Kind{rota.Rest}
	case restExhausted && workExhausted:
		return nil
	case workExhausted:
		candidates = []rota.Kind{rota.Rest}
	case restExhausted:
		candidates = b.orderWorkChoices(d)
	default:
		candidates = append(b.orderWorkChoices(d), rota.Rest)
	}

	var out []rota.Kind
	for _, k := range candidates {
		if k != rota.Rest && b.violatesSixDayCap(i, d, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// orderWorkChoices returns {Day, Night} ordered to favor whichever
// currently has fewer assignments on day d, a cheap heuristic toward
// a low night_deficit without a dedicated lookahead.
func (b *builder) orderWorkChoices(d int) []rota.Kind {
	dayCnt, nightCnt := 0, 0
	for e := 0; e < b.cfg.NumEmployees(); e++ {
		if k, ok := b.model.ShiftOf(e, d); ok {
			if k == rota.Day {
				dayCnt++
			} else if k == rota.Night {
				nightCnt++
			}
		}
	}
	if nightCnt < dayCnt {
		return []rota.Kind{rota.Night, rota.Day}
	}
	return []rota.Kind{rota.Day, rota.Night}
}

func (b *builder) consistentWithBudget(i int, k rota.Kind) bool {
	if k == rota.Rest {
		return b.rest[i] < b.cfg.RestDays
	}
	return b.work[i] < b.cfg.WorkDays
}

// sixDayCapForcesRest reports whether days [d-6,d-1] were all work for
// employee i, which forces day d to be Rest (hard constraint 5).
func (b *builder) sixDayCapForcesRest(i, d int) bool {
	if d < 6 {
		return false
	}
	for k := d - 6; k < d; k++ {
		kind := b.kindOn(i, k)
		if kind == rota.Rest {
			return false
		}
	}
	return true
}

// violatesSixDayCap reports whether committing k (a work kind) at
// (i,d) would complete a 7-day window with no rest day.
func (b *builder) violatesSixDayCap(i, d int, k rota.Kind) bool {
	if k == rota.Rest {
		return false
	}
	return b.sixDayCapForcesRest(i, d)
}

func (b *builder) kindOn(i, d int) rota.Kind {
	k, ok := b.model.ShiftOf(i, d)
	if !ok {
		return rota.Rest // treat undecided as "not Night" for chain checks; never read before d is decided
	}
	return k
}

// dayCoverageOK checks hard constraint 6 for day d once every
// employee has a committed kind that day.
func (b *builder) dayCoverageOK(d int) bool {
	dayCnt, nightCnt := 0, 0
	for i := 0; i < b.cfg.NumEmployees(); i++ {
		switch b.kindOn(i, d) {
		case rota.Day:
			dayCnt++
		case rota.Night:
			nightCnt++
		}
	}
	return dayCnt >= 1 && nightCnt >= 1
}

// finalizeMonth runs the checks that can only be evaluated once every
// cell is decided: the fairness bounds of hard constraint 8.
func (b *builder) finalizeMonth() bool {
	dayCounts, nightCounts := constraints.Counts(b.model)
	if spread(dayCounts) > 2 || spread(nightCounts) > 2 {
		return false
	}
	return true
}

func spread(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	return sorted[len(sorted)-1] - sorted[0]
}
