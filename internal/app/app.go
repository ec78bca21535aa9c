// Package app assembles the game server: one hosted board behind an HTTP and
// websocket API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/metrics"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/token"
)

const shutdownTimeout = time.Second * 30

type App struct {
	log      *logrus.Logger
	config   *config.Config
	router   *http.ServeMux
	registry *prometheus.Registry
	host     *game.Host
	jwt      *token.JWT
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func New(log *logrus.Logger, c *config.Config) (*App, error) {
	jwt, err := token.NewJWT(c.Token.Secret, c.Token.Issuer, c.Token.Lifetime.Duration)
	if err != nil {
		return nil, fmt.Errorf("unable to set up game tokens: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		return nil, fmt.Errorf("unable to register metrics: %w", err)
	}

	a := &App{
		log:      log,
		config:   c,
		router:   http.NewServeMux(),
		registry: registry,
		host:     game.NewHost(log, m, mines.NewRand(), c.Game.MaxCells),
		jwt:      jwt,
		cookies:  config.NewCookies(c),
		ws:       config.NewWebSocket(c),
	}

	if _, err := a.host.NewGame(game.Params{
		Width:     c.Game.Width,
		Height:    c.Game.Height,
		MineCount: c.Game.MineCount,
	}); err != nil {
		return nil, fmt.Errorf("unable to create initial game: %w", err)
	}

	a.loadRoutes()

	return a, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.log, a.cookies, a.jwt),
		middleware.Cors(a.config),
		middleware.Logging(a.log),
	)
}

// Start serves until ctx is cancelled, then shuts the server down.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.config.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  a.config.ReadTimeout.Duration,
		WriteTimeout: a.config.WriteTimeout.Duration,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.config.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
