package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-shqip/internal/alphabet"
	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/play"
	"github.com/robalobadob/wordle-shqip/internal/stats"
)

// mountStats registers GET /stats and DELETE /stats.
func (s *Server) mountStats(r chi.Router) {
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		st, err := stats.NewTracker(s.playerStore(r)).Load(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	})
	r.Delete("/stats", func(w http.ResponseWriter, r *http.Request) {
		st, err := stats.NewTracker(s.playerStore(r)).Reset(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	})
}

type keyboardRes struct {
	Alphabet []string    `json:"alphabet"`
	Rows     [][]keyView `json:"rows"`
}

// handleKeyboard returns the on-screen keyboard. With ?mode=free|daily|friends
// (plus ?date or ?token) the keys carry that game's hints.
func (s *Server) handleKeyboard(w http.ResponseWriter, r *http.Request) {
	var hints game.Hints
	var sess *play.Session
	ok := true
	switch r.URL.Query().Get("mode") {
	case "":
	case "free":
		var err error
		if sess, err = s.freeSession(r); err != nil {
			writeDomainError(w, err)
			return
		}
	case "daily":
		sess, ok = s.dailySession(w, r)
	case "friends":
		sess, _, ok = s.friendsSession(w, r, r.URL.Query().Get("token"))
	default:
		writeError(w, http.StatusBadRequest, "bad_mode", "")
		return
	}
	if !ok {
		return
	}
	if sess != nil {
		hints = sess.Game().Snapshot().LetterStates
	}
	writeJSON(w, http.StatusOK, keyboardRes{Alphabet: alphabet.Alphabet(), Rows: keyboardView(hints)})
}
