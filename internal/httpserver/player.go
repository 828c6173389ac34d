// internal/httpserver/player.go
//
// Anonymous player identity.
// Every visitor gets a signed HS256 token whose subject is a random player
// id. The id selects the player's storage namespace, which is the server-side
// counterpart of per-browser storage. There are no accounts.
//
// Notes:
//   - The token travels in an HttpOnly cookie; API clients may send it as a
//     bearer token instead.
//   - A missing, expired or forged token silently starts a new player.
//   - A valid token past half its lifetime is re-issued for the same id, so
//     an active player keeps their progress.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/store"
)

const playerTTL = 180 * 24 * time.Hour

// ctxPlayerKey is the context key for the player id.
type ctxPlayerKey struct{}

// playerID returns the id placed in the context by withPlayer.
func playerID(ctx context.Context) string {
	id, _ := ctx.Value(ctxPlayerKey{}).(string)
	return id
}

// withPlayer resolves (or mints) the player id for every request.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, exp := s.parsePlayerToken(bearerOrCookie(r, s.cfg.CookieName))
		if id == "" {
			id = uuid.NewString()
		}
		if exp.Sub(s.now()) < playerTTL/2 {
			tok, exp, err := s.signPlayerToken(id)
			if err != nil {
				log.Error().Err(err).Msg("sign player token")
				writeError(w, http.StatusInternalServerError, "sign_failed", msgServerError)
				return
			}
			s.setPlayerCookie(w, tok, exp)
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// signPlayerToken creates an HS256 token with sub=id.
func (s *Server) signPlayerToken(id string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(playerTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.cfg.PlayerSecret))
	return ss, exp, err
}

// parsePlayerToken returns the subject and expiry of a valid token, or "".
func (s *Server) parsePlayerToken(tok string) (string, time.Time) {
	if tok == "" {
		return "", time.Time{}
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.PlayerSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid || claims.ExpiresAt == nil {
		return "", time.Time{}
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}
	}
	return claims.Subject, claims.ExpiresAt.Time
}

// setPlayerCookie writes the player cookie with appropriate security attributes.
func (s *Server) setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the player cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}

// playerStore is the storage namespace of the request's player.
func (s *Server) playerStore(r *http.Request) store.Store {
	return store.Namespace(s.store, "player:"+playerID(r.Context()))
}

// playerLocks serializes requests of the same player. Games are not safe
// for concurrent use and a player may fire overlapping requests.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: map[string]*playerLock{}}
}

// lock blocks until id is free and returns the matching unlock.
func (p *playerLocks) lock(id string) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &playerLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}
