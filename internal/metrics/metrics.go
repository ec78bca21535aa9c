package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vancomm/sweeper/internal/mines"
)

// Metrics groups the collectors the game host reports to.
type Metrics struct {
	GamesStarted  prometheus.Counter
	GamesFinished *prometheus.CounterVec
	Moves         *prometheus.CounterVec
	CellsOpened   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sweeper",
			Name:      "games_started_total",
			Help:      "Boards created",
		}),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sweeper",
				Name:      "games_finished_total",
				Help:      "Boards that reached a terminal phase",
			},
			[]string{"phase"},
		),
		Moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sweeper",
				Name:      "moves_total",
				Help:      "Moves applied to the current board by kind and outcome",
			},
			[]string{"move", "outcome"},
		),
		CellsOpened: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sweeper",
			Name:      "cells_opened_per_move",
			Help:      "Cells revealed by a single open or chord",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.GamesStarted, m.GamesFinished, m.Moves, m.CellsOpened,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveOpen(move string, outcome mines.OpenOutcome, opened int) {
	m.Moves.WithLabelValues(move, outcome.Kind.String()).Inc()
	if opened > 0 {
		m.CellsOpened.Observe(float64(opened))
	}
}

func (m *Metrics) ObserveFlag(changed bool) {
	outcome := "no_effect"
	if changed {
		outcome = "toggled"
	}
	m.Moves.WithLabelValues("flag", outcome).Inc()
}

func (m *Metrics) ObserveFinished(phase mines.Phase) {
	m.GamesFinished.WithLabelValues(phase.String()).Inc()
}
