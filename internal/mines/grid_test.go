package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerGrid(t *testing.T) {
	b := mustBoard(t, 3, 3, Point{0, 0}, Point{2, 0}, Point{2, 2})
	require.True(t, b.Flag(Point{0, 0}))
	require.True(t, b.Flag(Point{0, 2}))
	require.Equal(t, OpenOutcome{Kind: NoMine, Count: 2}, b.Open(Point{1, 0}))

	assert.Equal(t, GridInfo{
		Flag, 2, Unknown,
		Unknown, Unknown, Unknown,
		Flag, Unknown, Unknown,
	}, b.PlayerGrid())

	require.Equal(t, OpenOutcome{Kind: Mine}, b.Open(Point{2, 2}))

	assert.Equal(t, GridInfo{
		CorrectFlag, 2, UnflaggedMine,
		Unknown, Unknown, Unknown,
		WrongFlag, Unknown, ExplodedMine,
	}, b.PlayerGrid())
}

func TestGridToString(t *testing.T) {
	g := GridInfo{Unknown, Flag, 0, 3}
	assert.Equal(t, "  * \n0 3 \n", g.ToString(2))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "no_mine(3)", OpenOutcome{Kind: NoMine, Count: 3}.String())
	assert.Equal(t, "chorded", OpenOutcome{Kind: Chorded}.String())
	assert.False(t, OpenOutcome{}.Changed())
	assert.Equal(t, "opened(mine)", CellState{Kind: Opened, Mine: true}.String())
	assert.Equal(t, "flagged", CellState{Kind: Flagged}.String())
}

func TestPhaseAndOutcomeText(t *testing.T) {
	for _, p := range []Phase{InProgress, Lost, Won} {
		text, err := p.MarshalText()
		require.NoError(t, err)
		var got Phase
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}
	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("paused")))

	var k OutcomeKind
	require.NoError(t, k.UnmarshalText([]byte("chorded")))
	assert.Equal(t, Chorded, k)
	assert.Error(t, k.UnmarshalText([]byte("boom")))
}
