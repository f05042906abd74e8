package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGini_PerfectlyEven(t *testing.T) {
	assert.InDelta(t, 0.0, Gini([]int{5, 5, 5, 5}), 1e-9)
}

func TestGini_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Gini(nil))
}

func TestGini_AllZero(t *testing.T) {
	assert.Equal(t, 0.0, Gini([]int{0, 0, 0}))
}

func TestGini_UnevenIsPositive(t *testing.T) {
	g := Gini([]int{1, 1, 1, 10})
	assert.Greater(t, g, 0.0)
	assert.LessOrEqual(t, g, 1.0)
}

func TestReportFairness_CountsDayAndNightSeparately(t *testing.T) {
	cfg := testConfig(t)
	m := NewModel(cfg)
	// employee 0: two Day shifts, employee 1: one Night shift
	m.Set(0, 0, Day, true)
	m.Set(0, 1, Day, true)
	m.Set(1, 0, Night, true)

	report := ReportFairness(m)
	assert.GreaterOrEqual(t, report.DayGini, 0.0)
	assert.GreaterOrEqual(t, report.NightGini, 0.0)
}
