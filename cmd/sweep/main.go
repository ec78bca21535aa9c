// Command sweep plays a game in the terminal using the same line protocol
// as the server's batch and websocket endpoints.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/render"
)

var (
	width     = flag.Int("width", 10, "board width")
	height    = flag.Int("height", 10, "board height")
	mineCount = flag.Int("mines", 30, "number of mines")
	glyphs    = flag.String("glyphs", "emoji", "glyph set: emoji or ascii")
	verbose   = flag.Bool("v", false, "log every move")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	g, ok := render.ByName(*glyphs)
	if !ok {
		log.Fatalf("unknown glyph set %q", *glyphs)
	}

	b, err := mines.New(*width, *height, *mineCount, nil)
	if err != nil {
		log.Fatal(err)
	}

	if err := play(b, g, os.Stdin, os.Stdout, log); err != nil {
		log.Fatal(err)
	}
}
