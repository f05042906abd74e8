package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/gunmupyo/pkg/rota"
)

func TestBreakdown_Objective(t *testing.T) {
	b := Breakdown{
		NightDeficit:   2,
		DayImbalance:   1,
		NightImbalance: 1,
		Consec5:        1,
		PostOffToRest:  3,
	}
	// 500*2 + 200*1 + 200*1 + 100*1 - 50*3 = 1000+200+200+100-150 = 1350
	assert.Equal(t, 1350, b.Objective())
}

func TestNightDeficit_ZeroWhenBalanced(t *testing.T) {
	m := newModel(t, 3, 2, []string{"A", "B"})
	m.Set(0, 0, rota.Day, true)
	m.Set(1, 0, rota.Night, true)
	m.Set(0, 1, rota.Rest, true)
	m.Set(1, 1, rota.Rest, true)
	m.Set(0, 2, rota.Rest, true)
	m.Set(1, 2, rota.Rest, true)

	assert.Equal(t, 0, nightDeficit(m))
}

func TestNightDeficit_PositiveWhenDayOutnumbersNight(t *testing.T) {
	m := newModel(t, 1, 1, []string{"A", "B", "C"})
	m.Set(0, 0, rota.Day, true)
	m.Set(1, 0, rota.Day, true)
	m.Set(2, 0, rota.Night, true)

	assert.Equal(t, 1, nightDeficit(m))
}

func TestDayAndNightImbalance(t *testing.T) {
	m := newModel(t, 1, 1, []string{"A", "B"})
	m.Set(0, 0, rota.Day, true)
	m.Set(1, 0, rota.Night, true)

	assert.Equal(t, 1, dayImbalance(m)) // counts: A=1,B=0
	assert.Equal(t, 1, nightImbalance(m))
}

func TestConsec5_DetectsFiveDayWorkWindow(t *testing.T) {
	cfg, err := rota.NewConfig(2025, 1, 6, make([]int, 6), []string{"A", "B"}, 5, nil)
	require.NoError(t, err)
	m := rota.NewModel(cfg)
	for d := 0; d < 5; d++ {
		m.Set(0, d, rota.Day, true)
	}
	m.Set(0, 5, rota.Rest, true)
	for d := 0; d < 6; d++ {
		m.Set(1, d, rota.Rest, true)
	}

	assert.Equal(t, 1, consec5(m))
}

func TestConsec5_ZeroWhenRestBreaksWindow(t *testing.T) {
	m := newModel(t, 6, 4, []string{"A", "B"})
	m.Set(0, 0, rota.Day, true)
	m.Set(0, 1, rota.Day, true)
	m.Set(0, 2, rota.Rest, true)
	m.Set(0, 3, rota.Day, true)
	m.Set(0, 4, rota.Day, true)
	m.Set(0, 5, rota.Rest, true)
	for d := 0; d < 6; d++ {
		m.Set(1, d, rota.Rest, true)
	}

	assert.Equal(t, 0, consec5(m))
}

func TestPostOffToRest_RewardsRestAfterPostOff(t *testing.T) {
	m := newModel(t, 3, 2, []string{"A", "B"})
	m.Set(0, 0, rota.Night, true)
	m.Set(0, 1, rota.PostOff, true)
	m.Set(0, 2, rota.Rest, true)
	for d := 0; d < 3; d++ {
		m.Set(1, d, rota.Rest, true)
	}

	assert.Equal(t, 1, postOffToRest(m))
}

func TestPostOffToRest_ZeroWhenPostOffLeadsToMoreWork(t *testing.T) {
	m := newModel(t, 4, 3, []string{"A", "B"})
	m.Set(0, 0, rota.Night, true)
	m.Set(0, 1, rota.PostOff, true)
	m.Set(0, 2, rota.Day, true)
	m.Set(0, 3, rota.Rest, true)
	for d := 0; d < 4; d++ {
		m.Set(1, d, rota.Rest, true)
	}

	assert.Equal(t, 0, postOffToRest(m))
}
