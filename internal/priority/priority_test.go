package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdering(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		assert.Greater(t, Levels[i].Rank(), Levels[i-1].Rank(),
			"%s should rank above %s", Levels[i], Levels[i-1])
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Level
		want int
	}{
		{None, None, 0},
		{None, High, 3},
		{High, None, 3},
		{Medium, High, 1},
		{Low, High, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%s↔%s", tt.a, tt.b)
	}
}

func TestParse(t *testing.T) {
	l, err := Parse(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, High, l)

	_, err = Parse("critical")
	require.Error(t, err)
	assert.ErrorContains(t, err, "valid: [none low medium high]")
}
