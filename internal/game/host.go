// Package game hosts the single board a server plays. All access to the
// board goes through Host, which serialises it.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/metrics"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/render"
)

var (
	ErrNoGame        = errors.New("no game has been started")
	ErrStaleGame     = errors.New("game is no longer current")
	ErrBoardTooLarge = errors.New("board exceeds the cell limit")
)

type Params struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func (p Params) Fields() logrus.Fields {
	return logrus.Fields{
		"width":      p.Width,
		"height":     p.Height,
		"mine_count": p.MineCount,
	}
}

// Snapshot is a copy of the game state taken under the host lock.
type Snapshot struct {
	GameID    uuid.UUID
	Width     int
	Height    int
	MineCount int
	FlagCount int
	Phase     mines.Phase
	Grid      mines.GridInfo
	StartedAt time.Time
	EndedAt   time.Time
}

type Host struct {
	mu       sync.Mutex
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	rnd      *rand.Rand
	now      func() time.Time
	maxCells int

	id        uuid.UUID
	board     *mines.Board
	startedAt time.Time
	endedAt   time.Time
}

// NewHost returns a host without a game. NewGame refuses boards of more than
// maxCells cells.
func NewHost(log logrus.FieldLogger, m *metrics.Metrics, rnd *rand.Rand, maxCells int) *Host {
	return &Host{
		log:      log,
		metrics:  m,
		rnd:      rnd,
		now:      time.Now,
		maxCells: maxCells,
	}
}

// NewGame replaces the current board with a fresh one.
func (h *Host) NewGame(p Params) (Snapshot, error) {
	// non-positive dimensions are left for the board to reject
	if p.Width > 0 && p.Height > 0 && p.Width > h.maxCells/p.Height {
		return Snapshot{}, fmt.Errorf(
			"%w: %dx%d is more than %d cells",
			ErrBoardTooLarge, p.Width, p.Height, h.maxCells,
		)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	board, err := mines.New(p.Width, p.Height, p.MineCount, h.rnd)
	if err != nil {
		return Snapshot{}, err
	}
	h.start(board)
	h.log.WithFields(p.Fields()).WithField("game_id", h.id).Info("new game")
	return h.snapshot(), nil
}

// Start installs a prepared board as the current game.
func (h *Host) Start(board *mines.Board) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.start(board)
	h.log.WithField("game_id", h.id).Info("new game")
	return h.snapshot()
}

func (h *Host) start(board *mines.Board) {
	if h.board != nil && !h.board.Phase().Over() {
		h.log.WithField("game_id", h.id).Debug("abandoning unfinished game")
	}
	h.id = uuid.New()
	h.board = board
	h.startedAt = h.now().UTC()
	h.endedAt = time.Time{}
	h.metrics.GamesStarted.Inc()
}

func (h *Host) snapshot() Snapshot {
	b := h.board
	return Snapshot{
		GameID:    h.id,
		Width:     b.Width(),
		Height:    b.Height(),
		MineCount: b.MineCount(),
		FlagCount: b.FlagCount(),
		Phase:     b.Phase(),
		Grid:      b.PlayerGrid(),
		StartedAt: h.startedAt,
		EndedAt:   h.endedAt,
	}
}

func (h *Host) Snapshot() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.board == nil {
		return Snapshot{}, ErrNoGame
	}
	return h.snapshot(), nil
}

// Render draws the current board with g.
func (h *Host) Render(g render.Glyphs) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.board == nil {
		return "", ErrNoGame
	}
	return render.Text(h.board, g), nil
}

// with runs fn on the board of game id and records the end of the game if fn
// finished it, even when fn also returns an error.
func (h *Host) with(id uuid.UUID, fn func(b *mines.Board) error) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.board == nil {
		return Snapshot{}, ErrNoGame
	}
	if id != h.id {
		return Snapshot{}, ErrStaleGame
	}

	over := h.board.Phase().Over()
	err := fn(h.board)
	if phase := h.board.Phase(); !over && phase.Over() {
		h.endedAt = h.now().UTC()
		h.metrics.ObserveFinished(phase)
		h.log.WithFields(logrus.Fields{
			"game_id":  h.id,
			"phase":    phase,
			"duration": h.endedAt.Sub(h.startedAt).String(),
		}).Info("game over")
	}
	return h.snapshot(), err
}

func (h *Host) open(b *mines.Board, move string, p mines.Point) (mines.OpenOutcome, error) {
	if !b.InBounds(p) {
		return mines.OpenOutcome{}, commands.ErrOutOfRange
	}
	opened := b.OpenCount()
	outcome := b.Open(p)
	h.metrics.ObserveOpen(move, outcome, b.OpenCount()-opened)
	h.log.WithFields(logrus.Fields{
		"game_id": h.id,
		"point":   p,
		"outcome": outcome,
	}).Debug(move)
	return outcome, nil
}

// Open opens p, or chords it if it is already open.
func (h *Host) Open(id uuid.UUID, p mines.Point) (snap Snapshot, outcome mines.OpenOutcome, err error) {
	snap, err = h.with(id, func(b *mines.Board) error {
		outcome, err = h.open(b, "open", p)
		return err
	})
	return snap, outcome, err
}

// Chord opens the unflagged neighbors of p when p is open and satisfied.
// Concealed cells are left alone.
func (h *Host) Chord(id uuid.UUID, p mines.Point) (snap Snapshot, outcome mines.OpenOutcome, err error) {
	snap, err = h.with(id, func(b *mines.Board) error {
		if !b.InBounds(p) {
			return commands.ErrOutOfRange
		}
		if b.Cell(p).Kind != mines.Opened {
			h.metrics.ObserveOpen("chord", outcome, 0)
			return nil
		}
		outcome, err = h.open(b, "chord", p)
		return err
	})
	return snap, outcome, err
}

func (h *Host) ToggleFlag(id uuid.UUID, p mines.Point) (snap Snapshot, changed bool, err error) {
	snap, err = h.with(id, func(b *mines.Board) error {
		if !b.InBounds(p) {
			return commands.ErrOutOfRange
		}
		changed = b.ToggleFlag(p)
		h.metrics.ObserveFlag(changed)
		return nil
	})
	return snap, changed, err
}

// Batch executes newline-separated protocol commands. See
// [commands.ExecuteBatch] for how failures are reported.
func (h *Host) Batch(id uuid.UUID, text string) (snap Snapshot, results []commands.Result, err error) {
	snap, err = h.with(id, func(b *mines.Board) error {
		results, err = commands.ExecuteBatch(b, text)
		for _, res := range results {
			switch res.Command {
			case "o":
				h.metrics.ObserveOpen("open", res.Outcome, res.Opened)
			case "c":
				h.metrics.ObserveOpen("chord", res.Outcome, res.Opened)
			case "f":
				h.metrics.ObserveFlag(res.Flagged)
			}
		}
		return err
	})
	return snap, results, err
}
