package app

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/sweeper/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.log, a.host, a.jwt, a.cookies, a.ws)

	a.router.HandleFunc("GET /v1/status", game.Status)

	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.HandleFunc("GET /v1/game", game.Fetch)
	a.router.HandleFunc("POST /v1/game/open", game.Open)
	a.router.HandleFunc("POST /v1/game/flag", game.Flag)
	a.router.HandleFunc("POST /v1/game/chord", game.Chord)
	a.router.HandleFunc("POST /v1/game/batch", game.Batch)
	a.router.HandleFunc("GET /v1/game/text", game.Text)
	a.router.HandleFunc("/v1/game/connect", game.ConnectWS)

	a.router.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
}
