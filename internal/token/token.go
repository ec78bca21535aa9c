// Package token issues and checks the signed tokens that tie a client to
// the game it started.
package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

var ErrInvalidToken = errors.New("invalid game token")

const keyInfo = "sweeper game token v1"

type GameClaims struct {
	jwt.RegisteredClaims
}

// GameID returns the id of the game the token was issued for.
func (c GameClaims) GameID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type JWT struct {
	key           []byte
	issuer        string
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	now           func() time.Time
}

// deriveKey stretches the configured secret into an HMAC key.
func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("unable to derive signing key: %w", err)
	}
	return key, nil
}

func NewJWT(secret, issuer string, lifetime time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("empty token secret")
	}
	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}
	j := &JWT{
		key:           key,
		issuer:        issuer,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
		now:           time.Now,
	}
	return j, nil
}

func (j *JWT) Lifetime() time.Duration {
	return j.tokenLifetime
}

// Sign issues a token for gameID and returns it with its expiry time.
func (j *JWT) Sign(gameID uuid.UUID) (string, time.Time, error) {
	now := j.now()
	expires := now.Add(j.tokenLifetime)
	claims := GameClaims{
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   gameID.String(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (j *JWT) Parse(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&GameClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.key, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok {
		return nil, fmt.Errorf("%w: malformed claims", ErrInvalidToken)
	}
	if _, err := claims.GameID(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
