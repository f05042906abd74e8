package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/gunmupyo/pkg/rota"
)

func newModel(t *testing.T, numDays, workDays int, employees []string) *rota.Model {
	t.Helper()
	cfg, err := rota.NewConfig(2025, 1, numDays, make([]int, numDays), employees, workDays, nil)
	require.NoError(t, err)
	return rota.NewModel(cfg)
}

// fillUniform gives every employee the same pattern, workDays Day
// shifts followed by Rest for the rest of the month, so the totals hold
// by construction (and the six-day cap too when workDays <= 6); tests
// then corrupt one cell at a time to isolate a single violation.
func fillUniform(m *rota.Model, workDays int) {
	numEmployees := m.NumEmployees()
	numDays := m.NumDays()
	for i := 0; i < numEmployees; i++ {
		worked := 0
		d := 0
		for d < numDays {
			if worked < workDays && (numDays-d) > (workDays-worked) {
				m.Set(i, d, rota.Day, true)
				worked++
				d++
			} else if worked < workDays {
				m.Set(i, d, rota.Day, true)
				worked++
				d++
			} else {
				m.Set(i, d, rota.Rest, true)
				d++
			}
		}
	}
}

func TestCheckUniqueAssignment_ViolationWhenUnset(t *testing.T) {
	m := newModel(t, 10, 6, []string{"A", "B"})
	fillUniform(m, 6)
	m.Unset(0, 0, rota.Day)

	violations := checkUniqueAssignment(m)
	require.NotEmpty(t, violations)
	assert.Equal(t, "unique_assignment", violations[0].Rule)
}

func TestCheckUniqueAssignment_NoViolationWhenConsistent(t *testing.T) {
	m := newModel(t, 10, 6, []string{"A", "B"})
	fillUniform(m, 6)
	assert.Empty(t, checkUniqueAssignment(m))
}

func TestCheckWorkRestTotals(t *testing.T) {
	m := newModel(t, 10, 6, []string{"A", "B"})
	fillUniform(m, 6)
	assert.Empty(t, checkWorkRestTotals(m))

	// break employee 0's totals by adding an extra work day
	m.Unset(0, 9, rota.Rest)
	m.Set(0, 9, rota.Day, true)
	violations := checkWorkRestTotals(m)
	assert.NotEmpty(t, violations)
}

func TestCheckNightPostOffCoupling(t *testing.T) {
	m := newModel(t, 5, 3, []string{"A", "B"})
	m.Set(0, 0, rota.Night, true)
	m.Set(0, 1, rota.PostOff, true)
	m.Set(0, 2, rota.Rest, true)
	m.Set(0, 3, rota.Rest, true)
	m.Set(0, 4, rota.Rest, true)
	m.Set(1, 0, rota.Day, true)
	m.Set(1, 1, rota.Day, true)
	m.Set(1, 2, rota.Day, true)
	m.Set(1, 3, rota.Rest, true)
	m.Set(1, 4, rota.Rest, true)

	assert.Empty(t, checkNightPostOffCoupling(m))
}

func TestCheckNightPostOffCoupling_MissingPostOffAfterNight(t *testing.T) {
	m := newModel(t, 5, 3, []string{"A", "B"})
	m.Set(0, 0, rota.Night, true)
	m.Set(0, 1, rota.Rest, true) // should have been PostOff
	m.Set(0, 2, rota.Rest, true)
	m.Set(0, 3, rota.Rest, true)
	m.Set(0, 4, rota.Rest, true)
	m.Set(1, 0, rota.Day, true)
	m.Set(1, 1, rota.Day, true)
	m.Set(1, 2, rota.Day, true)
	m.Set(1, 3, rota.Rest, true)
	m.Set(1, 4, rota.Rest, true)

	violations := checkNightPostOffCoupling(m)
	require.NotEmpty(t, violations)
	assert.Equal(t, "night_implies_postoff", violations[0].Rule)
}

func TestCheckNightPostOffCoupling_PostOffOnDayOneIsAlwaysInvalid(t *testing.T) {
	m := newModel(t, 5, 3, []string{"A", "B"})
	m.Set(0, 0, rota.PostOff, true)
	m.Set(0, 1, rota.Rest, true)
	m.Set(0, 2, rota.Rest, true)
	m.Set(0, 3, rota.Rest, true)
	m.Set(0, 4, rota.Rest, true)
	m.Set(1, 0, rota.Day, true)
	m.Set(1, 1, rota.Day, true)
	m.Set(1, 2, rota.Day, true)
	m.Set(1, 3, rota.Rest, true)
	m.Set(1, 4, rota.Rest, true)

	violations := checkNightPostOffCoupling(m)
	require.NotEmpty(t, violations)
	assert.Equal(t, "postoff_day_one", violations[0].Rule)
}

func TestCheckSixDayCap_ViolatedWithNoRestInWindow(t *testing.T) {
	m := newModel(t, 7, 7, []string{"A", "B"})
	for d := 0; d < 7; d++ {
		m.Set(0, d, rota.Day, true)
		m.Set(1, d, rota.Day, true)
	}
	violations := checkSixDayCap(m)
	assert.NotEmpty(t, violations)
}

func TestCheckSixDayCap_SatisfiedWithOneRest(t *testing.T) {
	m := newModel(t, 7, 6, []string{"A", "B"})
	for d := 0; d < 6; d++ {
		m.Set(0, d, rota.Day, true)
		m.Set(1, d, rota.Day, true)
	}
	m.Set(0, 6, rota.Rest, true)
	m.Set(1, 6, rota.Rest, true)
	assert.Empty(t, checkSixDayCap(m))
}

func TestCheckDailyCoverage(t *testing.T) {
	m := newModel(t, 3, 2, []string{"A", "B"})
	m.Set(0, 0, rota.Day, true)
	m.Set(1, 0, rota.Night, true)
	m.Set(0, 1, rota.Day, true)
	m.Set(1, 1, rota.Day, true) // no Night worker on day 1
	m.Set(0, 2, rota.Rest, true)
	m.Set(1, 2, rota.Rest, true)

	violations := checkDailyCoverage(m)
	require.Len(t, violations, 3) // missing Night on day 1, missing both on day 2
}

func TestCheckPinned(t *testing.T) {
	cfg, err := rota.NewConfig(2025, 1, 3, make([]int, 3), []string{"A", "B"}, 2,
		[]rota.Pin{{Employee: 0, Day: 0, Shift: rota.Day}})
	require.NoError(t, err)
	m := rota.NewModel(cfg)
	m.Set(0, 0, rota.Night, true) // violates the pin
	m.Set(0, 1, rota.PostOff, true)
	m.Set(0, 2, rota.Rest, true)
	m.Set(1, 0, rota.Day, true)
	m.Set(1, 1, rota.Day, true)
	m.Set(1, 2, rota.Rest, true)

	violations := checkPinned(m)
	require.NotEmpty(t, violations)
	assert.Equal(t, "pinned", violations[0].Rule)
}

func TestCheckFairnessBounds(t *testing.T) {
	m := newModel(t, 10, 6, []string{"A", "B", "C"})
	m.Set(0, 0, rota.Day, true)
	m.Set(0, 1, rota.Day, true)
	m.Set(0, 2, rota.Day, true)
	m.Set(0, 3, rota.Day, true)
	m.Set(0, 4, rota.Day, true)
	m.Set(0, 5, rota.Day, true)
	for d := 6; d < 10; d++ {
		m.Set(0, d, rota.Rest, true)
	}
	// employee 1 and 2 get zero Day shifts: spread = 6-0 = 6 > 2
	for i := 1; i < 3; i++ {
		for d := 0; d < 6; d++ {
			m.Set(i, d, rota.Night, true)
		}
		for d := 6; d < 10; d++ {
			m.Set(i, d, rota.Rest, true)
		}
	}

	violations := checkFairnessBounds(m)
	assert.NotEmpty(t, violations)
}

func TestMinMax(t *testing.T) {
	min, max := minMax([]int{3, 1, 4, 1, 5})
	assert.Equal(t, 1, min)
	assert.Equal(t, 5, max)

	min, max = minMax(nil)
	assert.Equal(t, 0, min)
	assert.Equal(t, 0, max)
}
