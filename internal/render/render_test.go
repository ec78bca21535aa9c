package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/sweeper/internal/mines"
)

func TestTextASCII(t *testing.T) {
	b, err := mines.NewWithMines(4, 3, []mines.Point{{X: 3, Y: 0}, {X: 3, Y: 2}})
	require.NoError(t, err)

	assert.Equal(t, "# # # #\n# # # #\n# # # #\n", Text(b, ASCII))

	require.True(t, b.Flag(mines.Point{X: 3, Y: 2}))
	b.Open(mines.Point{X: 0, Y: 0})

	assert.Equal(t, ". . 1 #\n. . 2 #\n. . 1 F\n", Text(b, ASCII))
	assert.Equal(t, "mines left: 1", Status(b))
}

func TestTextRevealsMinesOnLoss(t *testing.T) {
	b, err := mines.NewWithMines(3, 1, []mines.Point{{X: 0, Y: 0}, {X: 2, Y: 0}})
	require.NoError(t, err)
	require.True(t, b.Flag(mines.Point{X: 0, Y: 0}))

	b.Open(mines.Point{X: 2, Y: 0})

	assert.Equal(t, "💣 🟪 💣\n", Text(b, Emoji))
	assert.Equal(t, "* # *\n", Text(b, ASCII))
	assert.Equal(t, "boom! game over", Status(b))
}

func TestTextWon(t *testing.T) {
	b, err := mines.NewWithMines(3, 1, []mines.Point{{X: 2, Y: 0}})
	require.NoError(t, err)
	b.Open(mines.Point{X: 0, Y: 0})

	assert.Equal(t, "⬜ 1 🟪\n", Text(b, Emoji))
	assert.Equal(t, "cleared! you win", Status(b))
}

func TestByName(t *testing.T) {
	g, ok := ByName("ASCII")
	assert.True(t, ok)
	assert.Equal(t, ASCII.Name, g.Name)

	g, ok = ByName("")
	assert.True(t, ok)
	assert.Equal(t, Emoji.Name, g.Name)

	_, ok = ByName("braille")
	assert.False(t, ok)
}
