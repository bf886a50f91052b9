// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package auth issues and checks the session cookie of the reference backend.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/httperr"
)

// CookieName is the HttpOnly cookie carrying the session token.
const CookieName = "betdesk_session"

const issuer = "betdesk"

var (
	ErrNoSession = errs.NewAuth("Not authenticated")
	ErrForbidden = errs.NewAuth("Forbidden")
)

// Principal is the authenticated account behind a request.
type Principal struct {
	ID       string
	Username string
	Role     backend.Role
}

type claims struct {
	Username string       `json:"usr"`
	Role     backend.Role `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewIssuer signs tokens with secret (HS256). ttl <= 0 means 12h.
func NewIssuer(secret []byte, ttl time.Duration, secureCookie bool) (*Issuer, error) {
	if len(secret) < 16 {
		return nil, errs.NewFatal("session secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Issuer{secret: secret, ttl: ttl, secure: secureCookie, now: time.Now}, nil
}

// Issue returns a signed token for p.
func (is *Issuer) Issue(p Principal) (string, error) {
	now := is.now()
	c := claims{
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(is.ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(is.secret)
	if err != nil {
		return "", errs.Wrap(err, "sign session token")
	}
	return s, nil
}

// Parse validates token and returns its principal. Any failure is an Auth error.
func (is *Issuer) Parse(token string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return is.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(is.now),
	)
	if err != nil {
		return Principal{}, errs.NewWithExtra(errs.Auth, "Session expired", err.Error())
	}
	if c.Subject == "" || !c.Role.Valid() {
		return Principal{}, ErrNoSession
	}
	return Principal{ID: c.Subject, Username: c.Username, Role: c.Role}, nil
}

// SetCookie issues a token for p and stores it on w.
func (is *Issuer) SetCookie(w http.ResponseWriter, p Principal) error {
	tok, err := is.Issue(p)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   is.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  is.now().Add(is.ttl),
	})
	return nil
}

// ClearCookie expires the session cookie.
func (is *Issuer) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   is.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type ctxKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal resolved by Middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// Middleware rejects requests without a valid session cookie with 401.
func (is *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(CookieName)
		if err != nil || ck.Value == "" {
			httperr.Errs(w, ErrNoSession)
			return
		}
		p, err := is.Parse(ck.Value)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireRole answers 403 when the principal's role is not role.
// It must run after Middleware.
func RequireRole(role backend.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				httperr.Errs(w, ErrNoSession)
				return
			}
			if p.Role != role {
				httperr.WriteStatus(w, http.StatusForbidden, ErrForbidden.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
