package config

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	authCookie = "auth"
	signCookie = "sign"
)

var ErrMalformedToken = errors.New("token must have three dot-separated parts")

// Cookies stores a game token split in two: the readable header and payload
// in "auth", the signature in an HttpOnly "sign" cookie.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookies(c *Config) *Cookies {
	return &Cookies{
		Domain:   c.Cookies.Domain,
		Secure:   c.Cookies.Secure,
		SameSite: c.HttpCookieSameSite(),
	}
}

func (c *Cookies) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		HttpOnly: name == signCookie,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{authCookie, signCookie} {
		cookie := c.cookie(name, "delete")
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string, expires time.Time) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrMalformedToken
	}
	auth := c.cookie(authCookie, parts[0]+"."+parts[1])
	sign := c.cookie(signCookie, parts[2])
	auth.Expires, sign.Expires = expires, expires
	http.SetCookie(w, auth)
	http.SetCookie(w, sign)
	return nil
}

// Token reassembles the token stored by Refresh.
func (c *Cookies) Token(r *http.Request) (string, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return "", err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return "", err
	}
	return auth.Value + "." + sign.Value, nil
}
