package rota

import "github.com/paiban/gunmupyo/pkg/rerrors"

// Pin forces employee Employee to work Shift on Day. Two pins on
// the same (Employee, Day) pair are fine when they agree; NewConfig
// rejects the case where they name different kinds as InvalidInput,
// since the search indexes pins by (Employee, Day) and would
// otherwise silently keep whichever pin happened to be seen last.
type Pin struct {
	Employee int
	Day      int
	Shift    Kind
}

// Config is the validated, immutable input to the model builder. It
// is constructed once per request and never mutated afterward.
type Config struct {
	Year     int
	Month    int
	NumDays  int
	Weekdays []int // Weekdays[d] is time.Weekday of day d, 0-indexed

	Employees []string
	WorkDays  int
	RestDays  int
	Pinned    []Pin
}

// DefaultWorkDays is used when a request omits work_days.
const DefaultWorkDays = 20

// NewConfig validates raw request fields against calendar facts and
// returns a Config, or InvalidInput on the first violation found.
//
// numDays/weekdays come from rcalendar.For — kept as plain ints/slices
// here so this package has no import-time dependency beyond rerrors.
func NewConfig(year, month, numDays int, weekdays []int, employees []string, workDays int, pins []Pin) (*Config, error) {
	if len(employees) < 2 {
		return nil, rerrors.InvalidInput("employees", "at least 2 employees are required")
	}
	for idx, name := range employees {
		if name == "" {
			return nil, rerrors.InvalidInput("employees", "display names must not be empty")
		}
		_ = idx
	}
	if workDays < 0 || workDays > numDays {
		return nil, rerrors.InvalidInput("work_days", "must be between 0 and the number of days in the month")
	}

	numEmployees := len(employees)
	seen := make(map[[2]int]Kind, len(pins))
	for _, p := range pins {
		if p.Employee < 0 || p.Employee >= numEmployees {
			return nil, rerrors.InvalidInput("fixed_shifts.employee_idx", "out of range")
		}
		if p.Day < 0 || p.Day >= numDays {
			return nil, rerrors.InvalidInput("fixed_shifts.day", "out of range")
		}
		if p.Shift < 0 || int(p.Shift) >= NumKinds {
			return nil, rerrors.InvalidInput("fixed_shifts.shift_type", "must be 0..3")
		}
		key := [2]int{p.Employee, p.Day}
		if prior, ok := seen[key]; ok && prior != p.Shift {
			return nil, rerrors.InvalidInput("fixed_shifts", "conflicting pins for the same employee and day")
		}
		seen[key] = p.Shift
	}

	return &Config{
		Year:      year,
		Month:     month,
		NumDays:   numDays,
		Weekdays:  weekdays,
		Employees: employees,
		WorkDays:  workDays,
		RestDays:  numDays - workDays,
		Pinned:    pins,
	}, nil
}

// NumEmployees is a convenience accessor mirroring the
// num_employees derived count.
func (c *Config) NumEmployees() int {
	return len(c.Employees)
}
