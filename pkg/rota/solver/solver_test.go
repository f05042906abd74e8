package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/gunmupyo/pkg/rcalendar"
	"github.com/paiban/gunmupyo/pkg/rerrors"
	"github.com/paiban/gunmupyo/pkg/rota"
	"github.com/paiban/gunmupyo/pkg/rota/constraints"
)

func namedEmployees(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	return names
}

func weekdayInts(t *testing.T, year, month int) (int, []int) {
	t.Helper()
	facts, err := rcalendar.For(year, month)
	require.NoError(t, err)
	weekdays := make([]int, len(facts.Weekdays))
	for i, w := range facts.Weekdays {
		weekdays[i] = int(w)
	}
	return facts.NumDays, weekdays
}

// checkInvariants re-verifies every hard rule against a solved model,
// the round-trip check that guards against the extractor and the
// checker disagreeing about what "solved" means.
func checkInvariants(t *testing.T, m *rota.Model) {
	t.Helper()
	violations := constraints.CheckAll(m)
	assert.Empty(t, violations, "solved model must satisfy every hard rule")
}

func TestSolve_HappyPath(t *testing.T) {
	numDays, weekdays := weekdayInts(t, 2025, 1)
	cfg, err := rota.NewConfig(2025, 1, numDays, weekdays, namedEmployees(5), 20, nil)
	require.NoError(t, err)

	status, sol, err := Solve(context.Background(), cfg, 0, nil)
	require.NoError(t, err)
	require.NotNil(t, sol)
	assert.Contains(t, []Status{Optimal, Feasible}, status)

	checkInvariants(t, sol.Model)

	ex := rota.Extract(sol.Model)
	for _, row := range ex.Schedule {
		assert.Equal(t, numDays-20, row.OffRCount)
		assert.Equal(t, 20, row.DayCount+row.NightCount+row.OffBCount)
	}
}

func TestSolve_PinsAreHonored(t *testing.T) {
	numDays, weekdays := weekdayInts(t, 2025, 1)
	pins := []rota.Pin{
		{Employee: 0, Day: 0, Shift: rota.Day},
		{Employee: 1, Day: 0, Shift: rota.Night},
	}
	cfg, err := rota.NewConfig(2025, 1, numDays, weekdays, namedEmployees(5), 20, pins)
	require.NoError(t, err)

	status, sol, err := Solve(context.Background(), cfg, 0, nil)
	require.NoError(t, err)
	require.Contains(t, []Status{Optimal, Feasible}, status)

	k0, ok := sol.Model.ShiftOf(0, 0)
	require.True(t, ok)
	assert.Equal(t, rota.Day, k0)

	k1, ok := sol.Model.ShiftOf(1, 0)
	require.True(t, ok)
	assert.Equal(t, rota.Night, k1)

	checkInvariants(t, sol.Model)
}

func TestSolve_TooFewEmployees_RejectedBeforeSolve(t *testing.T) {
	numDays, weekdays := weekdayInts(t, 2025, 1)
	_, err := rota.NewConfig(2025, 1, numDays, weekdays, []string{"A"}, 20, nil)
	require.Error(t, err)

	appErr, ok := err.(*rerrors.AppError)
	require.True(t, ok)
	assert.Equal(t, rerrors.CodeInvalidInput, appErr.Code)
}

func TestSolve_ImpossibleRatio_Infeasible(t *testing.T) {
	// 2 employees, 28 days, every day must have a Day worker and a
	// Night worker; work_days=28 leaves zero rest days, so the
	// Night->PostOff chain alone makes a full month impossible.
	weekdays := make([]int, 28)
	cfg, err := rota.NewConfig(2025, 1, 28, weekdays, namedEmployees(2), 28, nil)
	require.NoError(t, err)

	status, sol, err := Solve(context.Background(), cfg, 0, nil)
	require.Error(t, err)
	assert.Nil(t, sol)
	assert.Equal(t, Infeasible, status)

	appErr, ok := err.(*rerrors.AppError)
	require.True(t, ok)
	assert.Equal(t, rerrors.CodeNoFeasibleSolution, appErr.Code)
}

func TestSolve_ConflictingPins_RejectedBeforeSolve(t *testing.T) {
	numDays, weekdays := weekdayInts(t, 2025, 1)
	pins := []rota.Pin{
		{Employee: 0, Day: 0, Shift: rota.Day},
		{Employee: 0, Day: 0, Shift: rota.Night},
	}
	_, err := rota.NewConfig(2025, 1, numDays, weekdays, namedEmployees(5), 20, pins)
	require.Error(t, err)

	appErr, ok := err.(*rerrors.AppError)
	require.True(t, ok)
	assert.Equal(t, rerrors.CodeInvalidInput, appErr.Code)
}

func TestSolve_ShortFebruary(t *testing.T) {
	numDays, weekdays := weekdayInts(t, 2025, 2)
	require.Equal(t, 28, numDays)

	cfg, err := rota.NewConfig(2025, 2, numDays, weekdays, namedEmployees(3), 20, nil)
	require.NoError(t, err)

	status, sol, err := Solve(context.Background(), cfg, 0, nil)
	require.NoError(t, err)
	require.Contains(t, []Status{Optimal, Feasible}, status)

	checkInvariants(t, sol.Model)

	ex := rota.Extract(sol.Model)
	for _, row := range ex.Schedule {
		assert.Equal(t, 8, row.OffRCount)
	}
}

// TestSolve_RoundTripReencoding re-derives the model state from the
// extracted schedule and checks it against the same hard rules, to
// guard against the extractor silently disagreeing with the checker
// about what a cell's kind is.
func TestSolve_RoundTripReencoding(t *testing.T) {
	numDays, weekdays := weekdayInts(t, 2025, 1)
	cfg, err := rota.NewConfig(2025, 1, numDays, weekdays, namedEmployees(4), 20, nil)
	require.NoError(t, err)

	_, sol, err := Solve(context.Background(), cfg, 0, nil)
	require.NoError(t, err)

	ex := rota.Extract(sol.Model)
	reencoded := rota.NewModel(cfg)
	for i, row := range ex.Schedule {
		for _, a := range row.Shifts {
			reencoded.Set(i, a.Day-1, a.Kind, true)
		}
	}

	assert.Empty(t, constraints.CheckAll(reencoded))
}
