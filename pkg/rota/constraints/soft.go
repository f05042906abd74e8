package constraints

import "github.com/paiban/gunmupyo/pkg/rota"

// Weights are the fixed multipliers of the soft terms, ordered by
// priority. They form a plain weighted sum, not a strict lexical order:
// enough units of a lower-priority term can outweigh one unit of a
// higher-priority one (both imbalance terms at their hard cap of 2
// already cost 800, more than one night-deficit unit).
const (
	WeightNightDeficit  = 500
	WeightDayImbalance  = 200
	WeightNightImbalance = 200
	WeightConsec5       = 100
	WeightPostOffToRest = 50 // subtracted — this term is a reward
)

// Breakdown is the per-term cost of a completed schedule, kept
// separate from the combined Objective so logging and tests can
// inspect which term drove a result.
type Breakdown struct {
	NightDeficit   int
	DayImbalance   int
	NightImbalance int
	Consec5        int
	PostOffToRest  int
}

// Objective folds a Breakdown into the single weighted scalar the
// solver minimizes: 500·T1 + 200·T2 + 100·T3 − 50·T4.
func (b Breakdown) Objective() int {
	return WeightNightDeficit*b.NightDeficit +
		WeightDayImbalance*b.DayImbalance +
		WeightNightImbalance*b.NightImbalance +
		WeightConsec5*b.Consec5 -
		WeightPostOffToRest*b.PostOffToRest
}

// Evaluate computes the full Breakdown for a completed model.
func Evaluate(m *rota.Model) Breakdown {
	return Breakdown{
		NightDeficit:   nightDeficit(m),
		DayImbalance:   dayImbalance(m),
		NightImbalance: nightImbalance(m),
		Consec5:        consec5(m),
		PostOffToRest:  postOffToRest(m),
	}
}

// nightDeficit sums T1 = max(0, day_cnt_day − night_cnt_day) across
// every day — it pushes Night staffing to never trail Day staffing.
func nightDeficit(m *rota.Model) int {
	total := 0
	for d := 0; d < m.NumDays(); d++ {
		dayCnt, nightCnt := 0, 0
		for i := 0; i < m.NumEmployees(); i++ {
			k, ok := m.ShiftOf(i, d)
			if !ok {
				continue
			}
			if k == rota.Day {
				dayCnt++
			} else if k == rota.Night {
				nightCnt++
			}
		}
		if deficit := dayCnt - nightCnt; deficit > 0 {
			total += deficit
		}
	}
	return total
}

// dayImbalance and nightImbalance are T2: max−min across employees
// for Day counts and Night counts respectively. The hard bound of 2
// in checkFairnessBounds caps how large these can ever get; they are
// still minimized toward 0 for a fairer schedule.
func dayImbalance(m *rota.Model) int {
	day, _ := Counts(m)
	min, max := minMax(day)
	return max - min
}

func nightImbalance(m *rota.Model) int {
	_, night := Counts(m)
	min, max := minMax(night)
	return max - min
}

// consec5 is T3: the count of 5-day windows of uninterrupted working
// days (Day/Night/PostOff), one per (employee, window-start).
func consec5(m *rota.Model) int {
	total := 0
	n := m.NumDays()
	if n < 5 {
		return 0
	}
	for i := 0; i < m.NumEmployees(); i++ {
		for start := 0; start <= n-5; start++ {
			allWork := true
			for k := 0; k < 5; k++ {
				kind, ok := m.ShiftOf(i, start+k)
				if !ok || kind == rota.Rest {
					allWork = false
					break
				}
			}
			if allWork {
				total++
			}
		}
	}
	return total
}

// postOffToRest is T4: the count of (employee, day) pairs where a
// PostOff is immediately followed by a true Rest day — the reward
// term, subtracted in Breakdown.Objective.
func postOffToRest(m *rota.Model) int {
	total := 0
	n := m.NumDays()
	for i := 0; i < m.NumEmployees(); i++ {
		for d := 0; d < n-1; d++ {
			k, ok := m.ShiftOf(i, d)
			if !ok || k != rota.PostOff {
				continue
			}
			if next, ok := m.ShiftOf(i, d+1); ok && next == rota.Rest {
				total++
			}
		}
	}
	return total
}
