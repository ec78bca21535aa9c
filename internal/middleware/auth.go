package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/token"
)

type CtxKey int

const (
	CtxGameClaims CtxKey = iota
)

// GameClaims returns the claims Auth stored in ctx.
func GameClaims(ctx context.Context) (*token.GameClaims, bool) {
	claims, ok := ctx.Value(CtxGameClaims).(*token.GameClaims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	t, ok := strings.CutPrefix(header, "Bearer ")
	return strings.TrimSpace(t), ok && strings.TrimSpace(t) != ""
}

// Auth reads a game token from the Authorization header or, failing that,
// from the cookie pair and stores its claims in the request context.
// Requests without a valid token pass through unauthenticated; cookies
// holding a bad token are cleared.
func Auth(log logrus.FieldLogger, cookies *config.Cookies, j *token.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, fromHeader := bearerToken(r)
			if !fromHeader {
				var err error
				if raw, err = cookies.Token(r); err != nil {
					h.ServeHTTP(w, r)
					return
				}
			}
			claims, err := j.Parse(raw)
			if err != nil {
				log.WithError(err).Debug("rejected game token")
				if !fromHeader {
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxGameClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
