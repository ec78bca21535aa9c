package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/render"
)

const help = "commands: o x y (open), f x y (flag), c x y (chord), g (redraw)"

func draw(w io.Writer, b *mines.Board, g render.Glyphs) {
	fmt.Fprint(w, render.Text(b, g))
	fmt.Fprintln(w, render.Status(b))
}

// play reads commands from in until the game ends or input runs out,
// redrawing the board after every accepted command.
func play(b *mines.Board, g render.Glyphs, in io.Reader, out io.Writer, log logrus.FieldLogger) error {
	fmt.Fprintln(out, help)
	draw(out, b, g)

	scanner := bufio.NewScanner(in)
	for !b.Phase().Over() && scanner.Scan() {
		line := scanner.Text()
		res, err := commands.Execute(b, line)
		if err != nil {
			fmt.Fprintf(out, "%s\n%s\n", err, help)
			continue
		}
		log.WithFields(logrus.Fields{
			"command": res.Command,
			"point":   res.Point,
			"outcome": res.Outcome,
			"flagged": res.Flagged,
		}).Debug("move")
		draw(out, b, g)
	}
	return scanner.Err()
}
