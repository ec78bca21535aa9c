// Package render turns a board into text, one glyph per cell.
package render

import (
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

// Glyphs maps cell states to their printed form. Digits 1-8 are printed
// with Number.
type Glyphs struct {
	Name      string
	Concealed string
	Flag      string
	Mine      string
	Blank     string
	Number    func(count int) string
}

var (
	Emoji = Glyphs{
		Name:      "emoji",
		Concealed: "🟪",
		Flag:      "🚩",
		Mine:      "💣",
		Blank:     "⬜",
		Number:    strconv.Itoa,
	}
	ASCII = Glyphs{
		Name:      "ascii",
		Concealed: "#",
		Flag:      "F",
		Mine:      "*",
		Blank:     ".",
		Number:    strconv.Itoa,
	}
)

// ByName looks up a glyph set, defaulting to Emoji.
func ByName(name string) (Glyphs, bool) {
	switch strings.ToLower(name) {
	case "", Emoji.Name:
		return Emoji, true
	case ASCII.Name:
		return ASCII, true
	default:
		return Emoji, false
	}
}

func (g Glyphs) cell(b *mines.Board, p mines.Point, mine bool) string {
	s := b.Cell(p)
	if s.Kind != mines.Opened && mine && b.IsLost() {
		return g.Mine
	}
	switch s.Kind {
	case mines.Opened:
		switch {
		case s.Mine:
			return g.Mine
		case s.Count == 0:
			return g.Blank
		default:
			return g.Number(s.Count)
		}
	case mines.Flagged:
		return g.Flag
	default:
		return g.Concealed
	}
}

// Text renders b row by row. Glyphs are separated by single spaces and every
// row ends with a newline. Once the game is lost, every mine is shown, flagged
// or not.
func Text(b *mines.Board, g Glyphs) string {
	mined := make(map[mines.Point]bool, b.MineCount())
	for _, p := range b.Mines() {
		mined[p] = true
	}
	var sb strings.Builder
	for y := range b.Height() {
		for x := range b.Width() {
			if x > 0 {
				sb.WriteByte(' ')
			}
			p := mines.Point{X: x, Y: y}
			sb.WriteString(g.cell(b, p, mined[p]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Status is a one-line summary suitable for a prompt.
func Status(b *mines.Board) string {
	var sb strings.Builder
	switch b.Phase() {
	case mines.Lost:
		sb.WriteString("boom! game over")
	case mines.Won:
		sb.WriteString("cleared! you win")
	default:
		sb.WriteString("mines left: ")
		sb.WriteString(strconv.Itoa(b.MineCount() - b.FlagCount()))
	}
	return sb.String()
}
