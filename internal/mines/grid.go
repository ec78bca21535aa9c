package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellStatus int8

const (
	Unknown       CellStatus = -2
	Flag          CellStatus = -1
	CorrectFlag   CellStatus = 64 // post-game-over
	ExplodedMine  CellStatus = 65
	WrongFlag     CellStatus = 66
	UnflaggedMine CellStatus = 67
	// 0-8 for open cells with given number of mined neighbors
)

func (s CellStatus) String() string {
	switch s {
	case Unknown:
		return " "
	case Flag:
		return "*"
	case 0, 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// GridInfo is the row-major player view of a board as sent to clients.
type GridInfo []CellStatus

func (g GridInfo) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerGrid encodes what the player may know about every cell. While the
// game is in progress only open counts and flags are exposed; afterwards
// mines and wrong flags are revealed too.
func (b *Board) PlayerGrid() GridInfo {
	grid := make(GridInfo, len(b.mines))
	over := b.phase.Over()
	for i := range grid {
		switch {
		case i == b.exploded:
			grid[i] = ExplodedMine
		case b.open[i]:
			grid[i] = CellStatus(b.NeighborMineCount(b.point(i)))
		case b.flagged[i] && over:
			grid[i] = iif(b.mines[i], CorrectFlag, WrongFlag)
		case b.flagged[i]:
			grid[i] = Flag
		case b.mines[i] && over:
			grid[i] = UnflaggedMine
		default:
			grid[i] = Unknown
		}
	}
	return grid
}
