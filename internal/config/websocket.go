package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin in development and only the configured
// origins otherwise.
func NewWebSocket(c *Config) *WebSocket {
	development := c.Development()
	origins := c.AllowedOrigins
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return development || origin == "" || slices.Contains(origins, origin)
		},
	}
	return &WebSocket{
		Upgrader: upgrader,
	}
}
