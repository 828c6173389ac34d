// internal/httpserver/routes_game.go
//
// Free play under /game, plus the key handling shared by every mode.
//   - POST /game/new  → discard the current game and pick a new word
//   - GET  /game      → current free-play game (created on first visit)
//   - POST /game/keys → apply key events
//
// The free-play target is kept in the player's storage beside, never inside,
// the snapshot.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/play"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/", s.handleGetGame)
		r.Post("/keys", s.handleGameKeys)
	})
}

func (s *Server) freeSession(r *http.Request) (*play.Session, error) {
	target, err := play.FreeTarget(r.Context(), s.playerStore(r), s.dict.RandomTerm)
	if err != nil {
		return nil, err
	}
	return s.session(r, play.FreeRef(), target)
}

func freeView(g *game.Game) gameView {
	v := newGameView(g)
	v.Message = finishMessage(g,
		func(n int) string { return fmt.Sprintf("E gjetët fjalën \"%s\" në %d përpjekje!", g.Target(), n) },
		func(t string) string { return fmt.Sprintf("Fjala ishte \"%s\". Provo sërish!", t) },
	)
	return v
}

// handleNewGame picks a new word and starts over.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	target, err := play.NewFreeTarget(r.Context(), s.playerStore(r), s.dict.RandomTerm)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sess, err := s.session(r, play.FreeRef(), target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := sess.Reset(r.Context(), target); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, freeView(sess.Game()))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.freeSession(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, freeView(sess.Game()))
}

func (s *Server) handleGameKeys(w http.ResponseWriter, r *http.Request) {
	sess, err := s.freeSession(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	reveal, ok := applyKeys(w, r, sess, freeView)
	if !ok {
		return
	}
	v := freeView(sess.Game())
	v.Reveal = reveal
	writeJSON(w, http.StatusOK, v)
}

// applyKeys decodes the key events of r and applies them to sess. When it
// returns false the response has been written: a bad body, a refused guess
// (422 with the current game) or a storage failure.
func applyKeys(w http.ResponseWriter, r *http.Request, sess *play.Session, view func(*game.Game) gameView) (*game.Reveal, bool) {
	var req keysReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return nil, false
	}
	keys := req.all()
	if len(keys) == 0 {
		writeError(w, http.StatusBadRequest, "no_keys", "")
		return nil, false
	}

	reveal, err := pressAll(r.Context(), sess, keys)
	switch {
	case err == nil:
		return reveal, true
	case errors.Is(err, game.ErrInvalidShape):
		v := view(sess.Game())
		v.Reveal = reveal
		writeJSON(w, http.StatusUnprocessableEntity, rejection{apiError{"invalid_shape", msgInvalidShape}, v})
	case errors.Is(err, game.ErrNotInWordList):
		v := view(sess.Game())
		v.Reveal = reveal
		writeJSON(w, http.StatusUnprocessableEntity, rejection{apiError{"not_in_word_list", msgNotInWordList}, v})
	default:
		writeDomainError(w, err)
	}
	return nil, false
}

// finishMessage is the toast for a finished game, empty while playing.
func finishMessage(g *game.Game, won func(attempts int) string, lost func(target string) string) string {
	switch g.Status() {
	case game.StatusWon:
		return msgWon + " " + won(g.Attempts())
	case game.StatusLost:
		return msgLost + " " + lost(g.Target())
	}
	return ""
}
