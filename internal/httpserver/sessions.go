package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/play"
)

// sessionIdle is how long an unused session stays in memory. Evicted
// sessions are restored from storage on the next request; only an open
// reveal window is lost.
const sessionIdle = 30 * time.Minute

// sessionCache keeps live sessions between requests, keyed by
// player|storage key, so the reveal window spans requests.
type sessionCache struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	swept   time.Time
}

type sessionEntry struct {
	sess   *play.Session
	target string
	used   time.Time
}

func newSessionCache() *sessionCache {
	return &sessionCache{entries: map[string]*sessionEntry{}}
}

// get returns the cached session for key if it was opened for target.
func (c *sessionCache) get(key, target string, now time.Time) *play.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.target != target {
		return nil
	}
	e.used = now
	return e.sess
}

func (c *sessionCache) put(key, target string, sess *play.Session, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &sessionEntry{sess: sess, target: target, used: now}
	if now.Sub(c.swept) < sessionIdle {
		return
	}
	for k, e := range c.entries {
		if now.Sub(e.used) > sessionIdle {
			delete(c.entries, k)
		}
	}
	c.swept = now
}

func (c *sessionCache) drop(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *sessionCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (s *Server) gameOptions() []game.Option {
	return []game.Option{game.WithRevealDuration(s.cfg.RevealDuration), game.WithClock(s.now)}
}

func sessionKey(ctx context.Context, ref play.Ref) string {
	return cacheKey(playerID(ctx), ref.Key)
}

func cacheKey(player, storageKey string) string { return player + "|" + storageKey }

// session returns the player's live session for ref, restoring it from
// storage when it is not cached.
func (s *Server) session(r *http.Request, ref play.Ref, target string) (*play.Session, error) {
	key := sessionKey(r.Context(), ref)
	if sess := s.sessions.get(key, target, s.now()); sess != nil {
		return sess, nil
	}
	sess, err := play.Open(r.Context(), s.playerStore(r), ref, target, s.dict, s.gameOptions()...)
	if err != nil {
		return nil, err
	}
	s.sessions.put(key, target, sess, s.now())
	return sess, nil
}
