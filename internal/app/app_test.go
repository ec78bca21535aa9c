package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
)

func newTestApp(t *testing.T) (*App, *config.Config) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := config.Default()
	c.Token.Secret = "test secret"
	a, err := New(log, &c)
	require.NoError(t, err)
	return a, &c
}

func TestNewRequiresSecret(t *testing.T) {
	c := config.Default()
	_, err := New(logrus.New(), &c)
	assert.Error(t, err)
}

func TestNewRejectsBadInitialGame(t *testing.T) {
	c := config.Default()
	c.Token.Secret = "test secret"
	c.Game.MineCount = c.Game.Width * c.Game.Height
	_, err := New(logrus.New(), &c)
	assert.Error(t, err)
}

func TestInitialGameAndMetrics(t *testing.T) {
	a, c := newTestApp(t)
	h := a.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/game", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var dto map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, float64(c.Game.Width), dto["width"])
	assert.Equal(t, float64(c.Game.MineCount), dto["mine_count"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/game?width=4&height=4&mine_count=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweeper_games_started_total 2")
}

func TestUnknownRoute(t *testing.T) {
	a, _ := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/records", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	a, c := newTestApp(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	c.Addr = l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + c.Addr + "/v1/status")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
