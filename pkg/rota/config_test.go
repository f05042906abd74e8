package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Valid(t *testing.T) {
	cfg, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.WorkDays)
	assert.Equal(t, 11, cfg.RestDays)
	assert.Equal(t, 2, cfg.NumEmployees())
}

func TestNewConfig_TooFewEmployees(t *testing.T) {
	_, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A"}, 20, nil)
	assert.Error(t, err)
}

func TestNewConfig_EmptyEmployeeName(t *testing.T) {
	_, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A", ""}, 20, nil)
	assert.Error(t, err)
}

func TestNewConfig_WorkDaysOutOfRange(t *testing.T) {
	_, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, 32, nil)
	assert.Error(t, err)

	_, err = NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, -1, nil)
	assert.Error(t, err)
}

func TestNewConfig_PinOutOfRange(t *testing.T) {
	_, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, 20,
		[]Pin{{Employee: 5, Day: 0, Shift: Day}})
	assert.Error(t, err)

	_, err = NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, 20,
		[]Pin{{Employee: 0, Day: 31, Shift: Day}})
	assert.Error(t, err)
}

func TestNewConfig_ConflictingPinsRejected(t *testing.T) {
	_, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, 20, []Pin{
		{Employee: 0, Day: 0, Shift: Day},
		{Employee: 0, Day: 0, Shift: Night},
	})
	assert.Error(t, err)
}

func TestNewConfig_IdenticalDuplicatePinsAllowed(t *testing.T) {
	_, err := NewConfig(2025, 1, 31, make([]int, 31), []string{"A", "B"}, 20, []Pin{
		{Employee: 0, Day: 0, Shift: Day},
		{Employee: 0, Day: 0, Shift: Day},
	})
	assert.NoError(t, err)
}
