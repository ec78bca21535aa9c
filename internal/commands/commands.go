// Package commands implements the line-oriented move protocol shared by the
// terminal client, the batch endpoint and the websocket connection:
//
//	o x y // open a cell at x:y (chords if it is already open)
//	f x y // toggle a flag at x:y
//	c x y // chord an open cell at x:y
//	g     // do nothing, fetch state
package commands

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("invalid number of arguments")
	ErrBadArgument    = errors.New("argument must be an int")
	ErrOutOfRange     = errors.New("invalid cell coordinates")
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"c": 2,
}

// Error reports the line at which a batch failed.
type Error struct {
	Line int
	Err  error
}

// [Error] implements [error]
func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the effect of one executed command.
type Result struct {
	Command string
	Point   mines.Point
	Outcome mines.OpenOutcome // open and chord only
	Opened  int               // safe cells revealed
	Flagged bool              // flag only: whether the toggle had effect
}

func parseXY(twoStrings []string) (p mines.Point, err error) {
	if p.X, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, fmt.Errorf("first %w", ErrBadArgument)
	}
	if p.Y, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, fmt.Errorf("second %w", ErrBadArgument)
	}
	return p, nil
}

// Execute runs a single command against b.
func Execute(b *mines.Board, c string) (res Result, err error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return res, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return res, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return res, ErrArgCount
	}
	res.Command = parts[0]
	if nargs == 0 {
		return res, nil
	}
	if res.Point, err = parseXY(parts[1:]); err != nil {
		return res, err
	}
	if !b.InBounds(res.Point) {
		return res, ErrOutOfRange
	}
	opened := b.OpenCount()
	switch res.Command {
	case "o":
		res.Outcome = b.Open(res.Point)
	case "f":
		res.Flagged = b.ToggleFlag(res.Point)
	case "c":
		if b.Cell(res.Point).Kind == mines.Opened {
			res.Outcome = b.Open(res.Point)
		}
	}
	res.Opened = b.OpenCount() - opened
	return res, nil
}

// ExecuteBatch runs newline-separated commands in order. Blank lines are
// skipped. It stops at the first malformed command, returning an [*Error],
// or as soon as the game is over. Commands executed before a failure keep
// their effect.
func ExecuteBatch(b *mines.Board, text string) ([]Result, error) {
	var results []Result
	for i, line := range byPiece(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		res, err := Execute(b, line)
		if err != nil {
			return results, &Error{Line: i, Err: err}
		}
		results = append(results, res)
		if b.Phase().Over() {
			break
		}
	}
	return results, nil
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
