package rota

// DayAssignment is one decoded (day, kind) pair in an employee's
// schedule, 1-based for display.
type DayAssignment struct {
	Day    int
	Kind   Kind
	Symbol string
	Name   string
}

// EmployeeSchedule is the per-employee row of the extracted schedule:
// the ordered list of assignments plus the four per-kind totals.
type EmployeeSchedule struct {
	Name         string
	Shifts       []DayAssignment
	DayCount     int
	NightCount   int
	OffBCount    int
	OffRCount    int
}

// DailyCoverage is the per-day staffing snapshot.
type DailyCoverage struct {
	Day          int
	DayWorkers   int
	NightWorkers int
}

// Extraction is the decoded form of a feasible model, ready for the
// wire response.
type Extraction struct {
	Schedule []EmployeeSchedule
	Coverage []DailyCoverage
}

// Extract decodes a model whose hard constraints hold (status OPTIMAL
// or FEASIBLE): for each (employee, day) it reads off the unique kind
// with value 1 (uniqueness guarantees it exists).
// It never returns an error — by precondition the caller only invokes
// it once the solver has classified the model as solved.
func Extract(m *Model) Extraction {
	schedules := make([]EmployeeSchedule, m.NumEmployees())
	for i := 0; i < m.NumEmployees(); i++ {
		name := m.Config().Employees[i]
		sched := EmployeeSchedule{Name: name, Shifts: make([]DayAssignment, 0, m.NumDays())}
		for d := 0; d < m.NumDays(); d++ {
			k, ok := m.ShiftOf(i, d)
			if !ok {
				continue
			}
			sched.Shifts = append(sched.Shifts, DayAssignment{
				Day:    d + 1,
				Kind:   k,
				Symbol: k.Symbol(),
				Name:   k.String(),
			})
			switch k {
			case Day:
				sched.DayCount++
			case Night:
				sched.NightCount++
			case PostOff:
				sched.OffBCount++
			case Rest:
				sched.OffRCount++
			}
		}
		schedules[i] = sched
	}

	coverage := make([]DailyCoverage, m.NumDays())
	for d := 0; d < m.NumDays(); d++ {
		dc := DailyCoverage{Day: d + 1}
		for i := 0; i < m.NumEmployees(); i++ {
			switch k, _ := m.ShiftOf(i, d); k {
			case Day:
				dc.DayWorkers++
			case Night:
				dc.NightWorkers++
			}
		}
		coverage[d] = dc
	}

	return Extraction{Schedule: schedules, Coverage: coverage}
}
