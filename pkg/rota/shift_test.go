package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_SymbolAndString(t *testing.T) {
	cases := []struct {
		k      Kind
		symbol string
		name   string
	}{
		{Day, "D", "Day"},
		{Night, "N", "Night"},
		{PostOff, "B", "PostOff"},
		{Rest, "R", "Rest"},
	}
	for _, c := range cases {
		assert.Equal(t, c.symbol, c.k.Symbol())
		assert.Equal(t, c.name, c.k.String())
	}
}

func TestKind_IsWork(t *testing.T) {
	assert.True(t, Day.IsWork())
	assert.True(t, Night.IsWork())
	assert.False(t, PostOff.IsWork())
	assert.False(t, Rest.IsWork())
}

func TestParseKind_Valid(t *testing.T) {
	for raw := 0; raw < NumKinds; raw++ {
		k, err := ParseKind(raw)
		require.NoError(t, err)
		assert.Equal(t, Kind(raw), k)
	}
}

func TestParseKind_Invalid(t *testing.T) {
	_, err := ParseKind(-1)
	assert.Error(t, err)

	_, err = ParseKind(4)
	assert.Error(t, err)
}
