package mines

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
)

// Phase is the stage of a game. Every mutator checks it first: once a board
// leaves InProgress its open and flag state never changes again.
type Phase int8

const (
	InProgress Phase = iota
	Lost
	Won
)

func (p Phase) String() string {
	switch p {
	case InProgress:
		return "in_progress"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return fmt.Sprintf("Phase(%d)", int8(p))
	}
}

// [Phase] implements [encoding.TextMarshaler]
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for c := InProgress; c <= Won; c++ {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

func (p Phase) Over() bool {
	return p != InProgress
}

// Board is the authoritative state of one game. It is not safe for
// concurrent use; the owner serialises calls.
//
// Both terminal phases freeze the board: after a win, as after a loss, Open
// and the flag operations have no effect.
type Board struct {
	width, height int
	mineCount     int

	mines   []bool
	open    []bool
	flagged []bool

	opened   int // safe cells opened
	flags    int
	exploded int // index of the mine that ended the game, -1 if none
	phase    Phase
}

func checkParams(width, height, mineCount int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf(
			"%w: dimensions must be positive (width = %d, height = %d)",
			ErrInvalidConfiguration, width, height,
		)
	}
	if width > math.MaxInt/height {
		return fmt.Errorf(
			"%w: board is too large (width = %d, height = %d)",
			ErrInvalidConfiguration, width, height,
		)
	}
	if mineCount < 0 || mineCount >= width*height {
		return fmt.Errorf(
			"%w: mine count must be in [0, %d) (mine_count = %d)",
			ErrInvalidConfiguration, width*height, mineCount,
		)
	}
	return nil
}

func newBoard(width, height, mineCount int) *Board {
	size := width * height
	return &Board{
		width:     width,
		height:    height,
		mineCount: mineCount,
		mines:     make([]bool, size),
		open:      make([]bool, size),
		flagged:   make([]bool, size),
		exploded:  -1,
	}
}

// New creates a board with mineCount mines placed uniformly at random using
// r. A nil r falls back to a package-level generator.
func New(width, height, mineCount int, r *rand.Rand) (*Board, error) {
	if err := checkParams(width, height, mineCount); err != nil {
		return nil, err
	}
	b := newBoard(width, height, mineCount)
	if r == nil {
		defaultRandMu.Lock()
		defer defaultRandMu.Unlock()
		r = defaultRand
	}
	for placed := 0; placed < mineCount; {
		i := r.IntN(height)*width + r.IntN(width)
		if b.mines[i] {
			continue
		}
		b.mines[i] = true
		placed++
	}
	return b, nil
}

// NewWithMines creates a board with a fixed mine layout.
func NewWithMines(width, height int, mines []Point) (*Board, error) {
	if err := checkParams(width, height, len(mines)); err != nil {
		return nil, err
	}
	b := newBoard(width, height, len(mines))
	for _, p := range mines {
		if !b.InBounds(p) {
			return nil, fmt.Errorf(
				"%w: mine %s is out of bounds", ErrInvalidConfiguration, p,
			)
		}
		i := b.index(p)
		if b.mines[i] {
			return nil, fmt.Errorf(
				"%w: duplicate mine %s", ErrInvalidConfiguration, p,
			)
		}
		b.mines[i] = true
	}
	return b, nil
}

func (b *Board) Width() int     { return b.width }
func (b *Board) Height() int    { return b.height }
func (b *Board) MineCount() int { return b.mineCount }
func (b *Board) FlagCount() int { return b.flags }
func (b *Board) OpenCount() int { return b.opened }
func (b *Board) Phase() Phase   { return b.phase }
func (b *Board) IsLost() bool   { return b.phase == Lost }

// IsWon reports whether every cell without a mine is open.
func (b *Board) IsWon() bool {
	return b.opened == len(b.mines)-b.mineCount
}

func (b *Board) InBounds(p Point) bool {
	return 0 <= p.X && p.X < b.width && 0 <= p.Y && p.Y < b.height
}

func (b *Board) index(p Point) int {
	return p.Y*b.width + p.X
}

func (b *Board) point(i int) Point {
	return Point{X: i % b.width, Y: i / b.width}
}

// neighbors yields the cells of the 3x3 block centred on p, except p itself,
// clipped to the board.
func (b *Board) neighbors(p Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y := max(p.Y-1, 0); y <= min(p.Y+1, b.height-1); y++ {
			for x := max(p.X-1, 0); x <= min(p.X+1, b.width-1); x++ {
				if x == p.X && y == p.Y {
					continue
				}
				if !yield(Point{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// Neighbors returns the in-bounds cells adjacent to p. Corner cells have 3
// neighbors, edge cells 5, interior cells 8.
func (b *Board) Neighbors(p Point) []Point {
	if !b.InBounds(p) {
		return nil
	}
	res := make([]Point, 0, 8)
	for n := range b.neighbors(p) {
		res = append(res, n)
	}
	return res
}

// NeighborMineCount returns the number of mines adjacent to p.
func (b *Board) NeighborMineCount(p Point) int {
	if !b.InBounds(p) {
		return 0
	}
	count := 0
	for n := range b.neighbors(p) {
		if b.mines[b.index(n)] {
			count++
		}
	}
	return count
}

// Open reveals p. Opening an already open cell whose flagged neighbors match
// its mine count opens the rest of its neighbors (chording). Flagged cells,
// out-of-range points and finished games yield NoEffect.
func (b *Board) Open(p Point) OpenOutcome {
	if b.phase.Over() || !b.InBounds(p) {
		return OpenOutcome{}
	}
	i := b.index(p)
	if b.flagged[i] {
		return OpenOutcome{}
	}
	if b.open[i] {
		return b.chord(p)
	}
	return b.openCell(i)
}

func (b *Board) chord(p Point) OpenOutcome {
	var (
		flags   int
		targets = make([]int, 0, 8)
	)
	for n := range b.neighbors(p) {
		j := b.index(n)
		if b.flagged[j] {
			flags++
		} else if !b.open[j] {
			targets = append(targets, j)
		}
	}
	if flags != b.NeighborMineCount(p) {
		return OpenOutcome{}
	}
	for _, j := range targets {
		if b.phase.Over() {
			break
		}
		// flood fill from an earlier target may have got here first
		if !b.open[j] {
			b.openCell(j)
		}
	}
	return OpenOutcome{Kind: Chorded}
}

// openCell opens a concealed, unflagged cell.
func (b *Board) openCell(i int) OpenOutcome {
	b.open[i] = true
	if b.mines[i] {
		b.exploded = i
		b.phase = Lost
		return OpenOutcome{Kind: Mine}
	}
	b.opened++
	p := b.point(i)
	count := b.NeighborMineCount(p)
	if count == 0 {
		b.flood(p)
	}
	if b.IsWon() {
		b.phase = Won
	}
	return OpenOutcome{Kind: NoMine, Count: count}
}

// flood opens the connected zero-count region around start together with its
// numbered border. A cell is pushed only when it is first opened, so every
// cell is visited at most once. Neighbors of a zero-count cell are never
// mines.
func (b *Board) flood(start Point) {
	stack := []Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for n := range b.neighbors(p) {
			j := b.index(n)
			if b.open[j] || b.flagged[j] {
				continue
			}
			b.open[j] = true
			b.opened++
			if b.NeighborMineCount(n) == 0 {
				stack = append(stack, n)
			}
		}
	}
}

func (b *Board) flaggable(p Point) bool {
	return !b.phase.Over() && b.InBounds(p) && !b.open[b.index(p)]
}

func (b *Board) setFlag(i int, flagged bool) {
	b.flagged[i] = flagged
	b.flags += iif(flagged, 1, -1)
}

// ToggleFlag flips the flag on a concealed cell and reports whether anything
// changed.
func (b *Board) ToggleFlag(p Point) bool {
	if !b.flaggable(p) {
		return false
	}
	i := b.index(p)
	b.setFlag(i, !b.flagged[i])
	return true
}

// Flag marks a concealed cell. It returns false if the cell could not be
// flagged or already was.
func (b *Board) Flag(p Point) bool {
	if !b.flaggable(p) || b.flagged[b.index(p)] {
		return false
	}
	b.setFlag(b.index(p), true)
	return true
}

// Unflag removes a flag. It returns false if there was none to remove.
func (b *Board) Unflag(p Point) bool {
	if !b.flaggable(p) || !b.flagged[b.index(p)] {
		return false
	}
	b.setFlag(b.index(p), false)
	return true
}

// Cell returns what a player can see at p. Out-of-range points read as
// concealed.
func (b *Board) Cell(p Point) CellState {
	if !b.InBounds(p) {
		return CellState{}
	}
	i := b.index(p)
	switch {
	case b.open[i] && b.mines[i]:
		return CellState{Kind: Opened, Mine: true}
	case b.open[i]:
		return CellState{Kind: Opened, Count: b.NeighborMineCount(p)}
	case b.flagged[i]:
		return CellState{Kind: Flagged}
	default:
		return CellState{Kind: Concealed}
	}
}

// Mines returns the mine positions in row-major order once the game is
// over, and nil while it is still in progress.
func (b *Board) Mines() []Point {
	if !b.phase.Over() {
		return nil
	}
	res := make([]Point, 0, b.mineCount)
	for i, mine := range b.mines {
		if mine {
			res = append(res, b.point(i))
		}
	}
	return res
}
