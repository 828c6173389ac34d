// internal/httpserver/server.go
//
// HTTP server wiring for Wordle Shqip.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, timeouts, JSON, CORS,
//     access log, anonymous player identity).
//   - Public endpoints: "/", "/health"; "/keyboard" renders hints.
//   - Game endpoints: free play under /game, the daily puzzle under /daily,
//     friend challenges under /friends, statistics under /stats.
//
// Notes:
//   - All player state lives in the player's storage namespace; the server
//     itself only caches live sessions.
//   - Requests of one player are serialized.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/config"
	"github.com/robalobadob/wordle-shqip/internal/store"
	"github.com/robalobadob/wordle-shqip/internal/words"
)

// Server bundles the router, the shared storage backend and the dictionary.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	store    store.Store
	dict     *words.Dictionary
	sessions *sessionCache
	locks    *playerLocks
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, dict *words.Dictionary) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    st,
		dict:     dict,
		sessions: newSessionCache(),
		locks:    newPlayerLocks(),
		now:      time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordle-shqip",
			"endpoints": []string{
				"/health", "/keyboard", "/stats",
				"POST /game/new", "GET /game", "POST /game/keys",
				"GET /daily", "POST /daily/keys", "POST /daily/reset", "GET /daily/share",
				"POST /friends", "GET /friends/{token}", "POST /friends/{token}/keys", "POST /friends/{token}/reset",
			},
		})
	})
	s.r.Get("/health", s.handleHealth)

	// Player routes: identity, then per-player serialization.
	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Use(s.serializePlayer)

		s.mountStats(r)

		r.Group(func(r chi.Router) {
			r.Use(s.requireDictionary)
			r.Get("/keyboard", s.handleKeyboard)
			s.mountGame(r)
			s.mountDaily(r)
			s.mountFriends(r)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets a Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "loading"
	select {
	case <-s.dict.EnsureLoaded():
		status = "ok"
		if s.dict.Err() != nil {
			status = "unavailable"
		}
	default:
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"dictionary": status,
		"terms":      s.dict.Stats(),
		"sessions":   s.sessions.len(),
	})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http")
		}()
		next.ServeHTTP(ww, r)
	})
}

// serializePlayer holds the player's lock for the whole request.
func (s *Server) serializePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unlock := s.locks.lock(playerID(r.Context()))
		defer unlock()
		next.ServeHTTP(w, r)
	})
}

// requireDictionary waits for the dictionary load. A failed load is not an
// error here: the empty dictionary rejects every guess.
func (s *Server) requireDictionary(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.dict.Wait(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "dictionary_loading", msgServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPServer wraps s in an http.Server with conservative timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
