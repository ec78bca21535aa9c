package mines

import (
	"fmt"
	"strings"
)

type OutcomeKind int8

const (
	NoEffect OutcomeKind = iota
	Mine
	NoMine
	Chorded
)

func (k OutcomeKind) String() string {
	switch k {
	case NoEffect:
		return "no_effect"
	case Mine:
		return "mine"
	case NoMine:
		return "no_mine"
	case Chorded:
		return "chorded"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int8(k))
	}
}

// [OutcomeKind] implements [encoding.TextMarshaler]
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for c := NoEffect; c <= Chorded; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// OpenOutcome is the result of [Board.Open]. Count is the neighbor mine count
// of the opened cell and is only meaningful for NoMine.
type OpenOutcome struct {
	Kind  OutcomeKind `json:"kind"`
	Count int         `json:"count"`
}

func (o OpenOutcome) String() string {
	if o.Kind == NoMine {
		return fmt.Sprintf("%s(%d)", o.Kind, o.Count)
	}
	return o.Kind.String()
}

// Changed reports whether the move could have altered the board.
func (o OpenOutcome) Changed() bool {
	return o.Kind != NoEffect
}

type CellKind int8

const (
	Concealed CellKind = iota
	Flagged
	Opened
)

func (k CellKind) String() string {
	switch k {
	case Concealed:
		return "concealed"
	case Flagged:
		return "flagged"
	case Opened:
		return "opened"
	default:
		return fmt.Sprintf("CellKind(%d)", int8(k))
	}
}

// CellState is the player's view of one cell. Mine and Count are set only
// for opened cells.
type CellState struct {
	Kind  CellKind
	Mine  bool
	Count int
}

func (s CellState) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	if s.Kind == Opened {
		if s.Mine {
			b.WriteString("(mine)")
		} else {
			fmt.Fprintf(&b, "(%d)", s.Count)
		}
	}
	return b.String()
}
