package game

import (
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/metrics"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/render"
)

func newTestHost(t *testing.T) (*Host, *metrics.Metrics) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.New()
	return NewHost(log, m, rand.New(rand.NewPCG(1, 2)), 100), m
}

func startFixed(t *testing.T, h *Host, width, height int, mines_ ...mines.Point) Snapshot {
	t.Helper()
	b, err := mines.NewWithMines(width, height, mines_)
	require.NoError(t, err)
	return h.Start(b)
}

func TestNoGame(t *testing.T) {
	h, _ := newTestHost(t)

	_, err := h.Snapshot()
	assert.ErrorIs(t, err, ErrNoGame)
	_, err = h.Render(render.ASCII)
	assert.ErrorIs(t, err, ErrNoGame)
	_, _, err = h.Open(uuid.New(), mines.Point{})
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestNewGame(t *testing.T) {
	h, m := newTestHost(t)

	snap, err := h.NewGame(Params{Width: 9, Height: 9, MineCount: 10})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, snap.GameID)
	assert.Equal(t, 9, snap.Width)
	assert.Equal(t, 10, snap.MineCount)
	assert.Equal(t, mines.InProgress, snap.Phase)
	assert.Len(t, snap.Grid, 81)
	assert.False(t, snap.StartedAt.IsZero())
	assert.True(t, snap.EndedAt.IsZero())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesStarted))

	_, err = h.NewGame(Params{Width: 3, Height: 3, MineCount: 9})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)

	current, err := h.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snap.GameID, current.GameID, "failed NewGame keeps the old board")
}

func TestStaleGame(t *testing.T) {
	h, _ := newTestHost(t)
	first := startFixed(t, h, 3, 1, mines.Point{X: 2, Y: 0})
	second := startFixed(t, h, 3, 1, mines.Point{X: 2, Y: 0})
	require.NotEqual(t, first.GameID, second.GameID)

	_, _, err := h.Open(first.GameID, mines.Point{})
	assert.ErrorIs(t, err, ErrStaleGame)
	_, _, err = h.ToggleFlag(first.GameID, mines.Point{})
	assert.ErrorIs(t, err, ErrStaleGame)

	_, outcome, err := h.Open(second.GameID, mines.Point{})
	require.NoError(t, err)
	assert.Equal(t, mines.OpenOutcome{Kind: mines.NoMine}, outcome)
}

func TestGameOverRecordedOnce(t *testing.T) {
	h, m := newTestHost(t)
	ended := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := startFixed(t, h, 3, 1, mines.Point{X: 2, Y: 0})
	h.now = func() time.Time { return ended }

	snap, outcome, err := h.Open(snap.GameID, mines.Point{X: 2, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, mines.Mine, outcome.Kind)
	assert.Equal(t, mines.Lost, snap.Phase)
	assert.Equal(t, ended, snap.EndedAt)
	assert.Equal(t, mines.ExplodedMine, snap.Grid[2])

	h.now = func() time.Time { return ended.Add(time.Hour) }
	snap, outcome, err = h.Open(snap.GameID, mines.Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, mines.NoEffect, outcome.Kind)
	assert.Equal(t, ended, snap.EndedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("lost")))
}

func TestOutOfRangeMoves(t *testing.T) {
	h, _ := newTestHost(t)
	snap := startFixed(t, h, 3, 3)

	_, _, err := h.Open(snap.GameID, mines.Point{X: 3, Y: 0})
	assert.ErrorIs(t, err, commands.ErrOutOfRange)
	_, _, err = h.Chord(snap.GameID, mines.Point{X: -1, Y: 0})
	assert.ErrorIs(t, err, commands.ErrOutOfRange)
	_, _, err = h.ToggleFlag(snap.GameID, mines.Point{X: 0, Y: 9})
	assert.ErrorIs(t, err, commands.ErrOutOfRange)
}

func TestChordAndFlag(t *testing.T) {
	h, _ := newTestHost(t)
	snap := startFixed(t, h, 3, 3, mines.Point{X: 0, Y: 0})
	id := snap.GameID

	_, outcome, err := h.Chord(id, mines.Point{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, mines.NoEffect, outcome.Kind, "chording a concealed cell does nothing")

	_, outcome, err = h.Open(id, mines.Point{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, mines.OpenOutcome{Kind: mines.NoMine, Count: 1}, outcome)

	snap, changed, err := h.ToggleFlag(id, mines.Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, snap.FlagCount)

	snap, outcome, err = h.Chord(id, mines.Point{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, mines.Chorded, outcome.Kind)
	assert.Equal(t, mines.Won, snap.Phase)
	assert.Equal(t, mines.CorrectFlag, snap.Grid[0])
	assert.False(t, snap.EndedAt.IsZero())

	text, err := h.Render(render.ASCII)
	require.NoError(t, err)
	assert.Equal(t, "F 1 .\n1 1 .\n. . .\n", text)
}

func TestBatch(t *testing.T) {
	h, m := newTestHost(t)
	snap := startFixed(t, h, 3, 3, mines.Point{X: 0, Y: 0})

	snap, results, err := h.Batch(snap.GameID, "o 1 1\nf 0 0\nq")
	var cmdErr *commands.Error
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.Line, "zero-based line index")
	assert.Len(t, results, 2)
	assert.Equal(t, 1, snap.FlagCount)

	snap, results, err = h.Batch(snap.GameID, "c 1 1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, mines.Won, snap.Phase)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Moves.WithLabelValues("chord", "chorded")))

	var cells dto.Metric
	require.NoError(t, m.CellsOpened.Write(&cells))
	assert.Equal(t, uint64(2), cells.GetHistogram().GetSampleCount())
	assert.Equal(t, 8.0, cells.GetHistogram().GetSampleSum(), "one cell opened, then seven by the chord")
}

func TestNewGameCellLimit(t *testing.T) {
	h, m := newTestHost(t)

	tests := []struct {
		name          string
		width, height int
	}{
		{"over the limit", 11, 10},
		{"overflowing product", 1<<62 + 1, 4},
		{"huge square", 1 << 32, 1 << 32},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := h.NewGame(Params{Width: test.width, Height: test.height})
			assert.ErrorIs(t, err, ErrBoardTooLarge)
		})
	}
	_, err := h.Snapshot()
	assert.ErrorIs(t, err, ErrNoGame)
	assert.Zero(t, testutil.ToFloat64(m.GamesStarted))

	snap, err := h.NewGame(Params{Width: 10, Height: 10, MineCount: 1})
	require.NoError(t, err)
	assert.Len(t, snap.Grid, 100, "a board of exactly the limit is allowed")

	_, err = h.NewGame(Params{Width: 0, Height: 10})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
}
