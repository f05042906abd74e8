// Package constraints implements the hard and soft rules a schedule is
// checked against: the mandatory scheduling rules, and the
// weighted objective terms of the soft score. Both halves are pure functions
// over a completed rota.Model, so they double as the property checks
// exercised by the test suite.
package constraints

import "github.com/paiban/gunmupyo/pkg/rota"

// Violation names one hard rule that failed, with enough context to
// explain why. Day/Employee are -1 when a violation isn't scoped to a
// single day or employee (e.g. a coverage shortfall names no employee,
// a fairness spread names neither).
type Violation struct {
	Rule     string
	Employee int
	Day      int
	Detail   string
}

// CheckAll runs every hard rule against a fully-decided model
// and returns every violation found. An empty result means the model
// is a feasible schedule.
func CheckAll(m *rota.Model) []Violation {
	var v []Violation
	v = append(v, checkUniqueAssignment(m)...)
	v = append(v, checkWorkRestTotals(m)...)
	v = append(v, checkNightPostOffCoupling(m)...)
	v = append(v, checkSixDayCap(m)...)
	v = append(v, checkDailyCoverage(m)...)
	v = append(v, checkPinned(m)...)
	v = append(v, checkFairnessBounds(m)...)
	return v
}

// checkUniqueAssignment is hard constraint 1: exactly one shift kind
// per (employee, day).
func checkUniqueAssignment(m *rota.Model) []Violation {
	var v []Violation
	for i := 0; i < m.NumEmployees(); i++ {
		for d := 0; d < m.NumDays(); d++ {
			count := 0
			for s := rota.Kind(0); int(s) < rota.NumKinds; s++ {
				if val, ok := m.Get(i, d, s); ok && val {
					count++
				}
			}
			if count != 1 {
				v = append(v, Violation{Rule: "unique_assignment", Employee: i, Day: d,
					Detail: "expected exactly one shift kind assigned"})
			}
		}
	}
	return v
}

// checkWorkRestTotals is hard constraint 2: per-employee work/rest
// totals must match Config.WorkDays/RestDays exactly.
func checkWorkRestTotals(m *rota.Model) []Violation {
	var v []Violation
	cfg := m.Config()
	for i := 0; i < m.NumEmployees(); i++ {
		work, rest := 0, 0
		for d := 0; d < m.NumDays(); d++ {
			k, ok := m.ShiftOf(i, d)
			if !ok {
				continue
			}
			if k.IsWork() || k == rota.PostOff {
				work++
			} else {
				rest++
			}
		}
		if work != cfg.WorkDays {
			v = append(v, Violation{Rule: "work_total", Employee: i,
				Day: -1, Detail: "work+night+postoff count does not equal work_days"})
		}
		if rest != cfg.RestDays {
			v = append(v, Violation{Rule: "rest_total", Employee: i,
				Day: -1, Detail: "rest count does not equal rest_days"})
		}
	}
	return v
}

// checkNightPostOffCoupling is hard constraints 3 and 4: B is exactly
// the day after an N, and only ever that.
func checkNightPostOffCoupling(m *rota.Model) []Violation {
	var v []Violation
	for i := 0; i < m.NumEmployees(); i++ {
		for d := 0; d < m.NumDays(); d++ {
			k, ok := m.ShiftOf(i, d)
			if !ok {
				continue
			}
			if k == rota.Night && d+1 < m.NumDays() {
				if next, ok := m.ShiftOf(i, d+1); !ok || next != rota.PostOff {
					v = append(v, Violation{Rule: "night_implies_postoff", Employee: i, Day: d,
						Detail: "Night not followed by PostOff"})
				}
			}
			if k == rota.PostOff {
				if d == 0 {
					v = append(v, Violation{Rule: "postoff_day_one", Employee: i, Day: d,
						Detail: "PostOff on day 1 is never allowed"})
					continue
				}
				if prev, ok := m.ShiftOf(i, d-1); !ok || prev != rota.Night {
					v = append(v, Violation{Rule: "postoff_only_after_night", Employee: i, Day: d,
						Detail: "PostOff not preceded by Night"})
				}
			}
		}
	}
	return v
}

// checkSixDayCap is hard constraint 5: no 7-day window has 7 working
// days (Day/Night/PostOff all count as work).
func checkSixDayCap(m *rota.Model) []Violation {
	var v []Violation
	n := m.NumDays()
	if n < 7 {
		return v
	}
	for i := 0; i < m.NumEmployees(); i++ {
		for start := 0; start <= n-7; start++ {
			working := 0
			for k := 0; k < 7; k++ {
				if kind, ok := m.ShiftOf(i, start+k); ok && kind != rota.Rest {
					working++
				}
			}
			if working > 6 {
				v = append(v, Violation{Rule: "six_day_cap", Employee: i, Day: start,
					Detail: "7-day window has no rest day"})
			}
		}
	}
	return v
}

// checkDailyCoverage is hard constraint 6: every day needs at least
// one Day worker and one Night worker.
func checkDailyCoverage(m *rota.Model) []Violation {
	var v []Violation
	for d := 0; d < m.NumDays(); d++ {
		dayWorkers, nightWorkers := 0, 0
		for i := 0; i < m.NumEmployees(); i++ {
			k, ok := m.ShiftOf(i, d)
			if !ok {
				continue
			}
			if k == rota.Day {
				dayWorkers++
			} else if k == rota.Night {
				nightWorkers++
			}
		}
		if dayWorkers < 1 {
			v = append(v, Violation{Rule: "coverage_day", Employee: -1, Day: d, Detail: "no Day worker"})
		}
		if nightWorkers < 1 {
			v = append(v, Violation{Rule: "coverage_night", Employee: -1, Day: d, Detail: "no Night worker"})
		}
	}
	return v
}

// checkPinned is hard constraint 7: every pinned triple must hold.
func checkPinned(m *rota.Model) []Violation {
	var v []Violation
	for _, p := range m.Config().Pinned {
		if val, ok := m.Get(p.Employee, p.Day, p.Shift); !ok || !val {
			v = append(v, Violation{Rule: "pinned", Employee: p.Employee, Day: p.Day,
				Detail: "pinned shift not honored"})
		}
	}
	return v
}

// checkFairnessBounds is hard constraint 8: the spread of Day counts
// and of Night counts across employees must each be ≤2.
func checkFairnessBounds(m *rota.Model) []Violation {
	dayCounts, nightCounts := Counts(m)
	minDay, maxDay := minMax(dayCounts)
	minNight, maxNight := minMax(nightCounts)
	var v []Violation
	if maxDay-minDay > 2 {
		v = append(v, Violation{Rule: "balance_day", Employee: -1, Day: -1,
			Detail: "Day-count spread exceeds 2 across employees"})
	}
	if maxNight-minNight > 2 {
		v = append(v, Violation{Rule: "balance_night", Employee: -1, Day: -1,
			Detail: "Night-count spread exceeds 2 across employees"})
	}
	return v
}

// Counts returns per-employee Day and Night totals, the same
// day_cnt/night_cnt summaries the fairness check introduces.
func Counts(m *rota.Model) (day, night []int) {
	day = make([]int, m.NumEmployees())
	night = make([]int, m.NumEmployees())
	for i := 0; i < m.NumEmployees(); i++ {
		for d := 0; d < m.NumDays(); d++ {
			k, ok := m.ShiftOf(i, d)
			if !ok {
				continue
			}
			switch k {
			case rota.Day:
				day[i]++
			case rota.Night:
				night[i]++
			}
		}
	}
	return day, night
}

func minMax(vals []int) (min, max int) {
	if len(vals) == 0 {
		return 0, 0
	}
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
