package solver

import (
	"context"
	"math"
	"math/rand"

	"github.com/paiban/gunmupyo/internal/metrics"
	"github.com/paiban/gunmupyo/pkg/rota"
	"github.com/paiban/gunmupyo/pkg/rota/constraints"
)

// PolishConfig configures the polish phase: a simulated-
// annealing schedule with a tabu list to stop the search from
// immediately re-trying a move it just backed out of.
type PolishConfig struct {
	MaxIterations    int
	InitialTemp      float64
	CoolingRate      float64
	TabuSize         int
	PlateauThreshold int
}

// DefaultPolishConfig provides sane defaults scaled down for
// a single-month, single-digit-employee problem size.
func DefaultPolishConfig() PolishConfig {
	return PolishConfig{
		MaxIterations:    2000,
		InitialTemp:      50.0,
		CoolingRate:      0.995,
		TabuSize:         64,
		PlateauThreshold: 200,
	}
}

// polish runs simulated-annealing local search over incumbent,
// returning the best model found and whether it ran to a plateau
// (converged) before its iteration budget or the deadline.
func polish(ctx context.Context, cfg PolishConfig, incumbent *rota.Model, rng *rand.Rand) (best *rota.Model, converged bool) {
	current := incumbent.Clone()
	currentCost := constraints.Evaluate(current).Objective()

	best = current.Clone()
	bestCost := currentCost

	tabu := newTabuList(cfg.TabuSize)
	temperature := cfg.InitialTemp
	noImprovement := 0

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return best, false
		default:
		}

		metrics.RecordPolishIteration()

		mv := randomMove(current, rng)
		if mv == nil {
			noImprovement++
			if noImprovement >= cfg.PlateauThreshold {
				return best, true
			}
			continue
		}

		mv.apply(current)
		newCost := constraints.Evaluate(current).Objective()
		delta := float64(newCost - currentCost)

		accept := false
		if newCost < currentCost {
			accept = true
		} else if !tabu.contains(mv.key()) {
			if rng.Float64() < boltzmannProbability(delta, temperature) {
				accept = true
			}
		}

		if accept {
			tabu.add(mv.key())
			currentCost = newCost
			if newCost < bestCost {
				best = current.Clone()
				bestCost = newCost
				noImprovement = 0
			} else {
				noImprovement++
			}
		} else {
			mv.undo(current)
			noImprovement++
		}

		if noImprovement >= cfg.PlateauThreshold {
			return best, true
		}
		temperature *= cfg.CoolingRate
	}
	return best, false
}

// boltzmannProbability is the standard simulated-annealing acceptance
// rule: always accept an improving move, accept a worsening one with
// probability exp(-delta/temperature).
func boltzmannProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}

// move is a reversible edit to a model. Both concrete move types below
// preserve each employee's per-kind totals and the Night->PostOff
// chain by construction, which is what lets the polish loop re-score
// only the soft objective on every iteration; they do not guarantee
// the six-day cap or the daily coverage floor stay satisfied, since
// both of those depend on days outside the cells a move touches. Solve
// re-validates the polished model in full and discards it in favor of
// the construction incumbent if either slipped.
type move interface {
	apply(m *rota.Model)
	undo(m *rota.Model)
	key() uint64
}

// relocateNightBlock moves employee emp's (Night, PostOff) pair from
// (from, from+1) to (to, to+1), where (to, to+1) currently hold
// (Rest, Rest). Both ends are two-day blocks of equal size, so the
// employee's work/rest totals and the Night→PostOff chain stay intact.
// It does NOT guarantee the six-day cap: turning (to, to+1) into work
// days can complete a 7-day work window if the five days before `to`
// were already all work. It can also strip day `from`'s Night coverage
// to zero if emp was the only Night worker there. Both are caught by
// the hard-constraint re-check in Solve, not by this move.
type relocateNightBlock struct {
	emp, from, to int
}

func (mv relocateNightBlock) apply(m *rota.Model) {
	m.Unset(mv.emp, mv.from, rota.Night)
	m.Unset(mv.emp, mv.from+1, rota.PostOff)
	m.Set(mv.emp, mv.from, rota.Rest, true)
	m.Set(mv.emp, mv.from+1, rota.Rest, true)

	m.Unset(mv.emp, mv.to, rota.Rest)
	m.Unset(mv.emp, mv.to+1, rota.Rest)
	m.Set(mv.emp, mv.to, rota.Night, true)
	m.Set(mv.emp, mv.to+1, rota.PostOff, true)
}

func (mv relocateNightBlock) undo(m *rota.Model) {
	// the inverse is the same move with from/to swapped
	relocateNightBlock{emp: mv.emp, from: mv.to, to: mv.from}.apply(m)
}

func (mv relocateNightBlock) key() uint64 {
	return uint64(mv.emp)<<40 | uint64(mv.from)<<20 | uint64(mv.to)
}

// swapDayPair exchanges a Day day with a Rest day between two
// employees at two different calendar days, so that each employee
// keeps exactly the same per-kind totals: e1 has Day at d1 and Rest at
// d2; e2 has Rest at d1 and Day at d2. After the swap e1 has Rest at
// d1 and Day at d2; e2 has Day at d1 and Rest at d2. Day and Rest have
// no chain dependency (unlike Night/PostOff), so totals and the chain
// invariant stay intact. It does NOT guarantee the six-day cap: moving
// e1's Rest day out of d2 (or e2's out of d1) can complete a 7-day work
// window around that day, same as relocateNightBlock. Caught by Solve's
// re-check.
type swapDayPair struct {
	e1, e2, d1, d2 int
}

func (mv swapDayPair) apply(m *rota.Model) {
	flipDayRest(m, mv.e1, mv.d1)
	flipDayRest(m, mv.e1, mv.d2)
	flipDayRest(m, mv.e2, mv.d1)
	flipDayRest(m, mv.e2, mv.d2)
}

func (mv swapDayPair) undo(m *rota.Model) {
	mv.apply(m) // the swap is its own inverse
}

func (mv swapDayPair) key() uint64 {
	return uint64(mv.e1)<<48 | uint64(mv.e2)<<32 | uint64(mv.d1)<<16 | uint64(mv.d2)
}

func flipDayRest(m *rota.Model, emp, day int) {
	if v, ok := m.Get(emp, day, rota.Day); ok && v {
		m.Unset(emp, day, rota.Day)
		m.Set(emp, day, rota.Rest, true)
		return
	}
	m.Unset(emp, day, rota.Rest)
	m.Set(emp, day, rota.Day, true)
}

// randomMove samples one of a small number of candidate moves and
// returns the first structurally valid one it finds, or nil if none
// of its sampling attempts turned up a usable move this iteration.
func randomMove(m *rota.Model, rng *rand.Rand) move {
	const attempts = 24
	n, days := m.NumEmployees(), m.NumDays()
	if n < 2 || days < 2 {
		return nil
	}
	for a := 0; a < attempts; a++ {
		if rng.Intn(2) == 0 {
			emp := rng.Intn(n)
			from := rng.Intn(days - 1)
			to := rng.Intn(days - 1)
			if from == to || abs(from-to) < 2 {
				continue
			}
			if k, ok := m.Get(emp, from, rota.Night); !ok || !k {
				continue
			}
			if rk, ok := m.Get(emp, to, rota.Rest); !ok || !rk {
				continue
			}
			if rk, ok := m.Get(emp, to+1, rota.Rest); !ok || !rk {
				continue
			}
			return relocateNightBlock{emp: emp, from: from, to: to}
		}

		e1, e2 := rng.Intn(n), rng.Intn(n)
		d1, d2 := rng.Intn(days), rng.Intn(days)
		if e1 == e2 || d1 == d2 {
			continue
		}
		if ok := isDay(m, e1, d1) && isRest(m, e2, d1) && isRest(m, e1, d2) && isDay(m, e2, d2); ok {
			return swapDayPair{e1: e1, e2: e2, d1: d1, d2: d2}
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func isDay(m *rota.Model, emp, day int) bool {
	v, ok := m.Get(emp, day, rota.Day)
	return ok && v
}

func isRest(m *rota.Model, emp, day int) bool {
	v, ok := m.Get(emp, day, rota.Rest)
	return ok && v
}

// tabuList is a fixed-capacity FIFO set of recently-applied move keys.
type tabuList struct {
	items   map[uint64]struct{}
	order   []uint64
	maxSize int
}

func newTabuList(size int) *tabuList {
	return &tabuList{items: make(map[uint64]struct{}, size), maxSize: size}
}

func (t *tabuList) contains(key uint64) bool {
	_, ok := t.items[key]
	return ok
}

func (t *tabuList) add(key uint64) {
	if t.maxSize <= 0 {
		return
	}
	if _, ok := t.items[key]; ok {
		return
	}
	if len(t.order) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.items, oldest)
	}
	t.items[key] = struct{}{}
	t.order = append(t.order, key)
}
