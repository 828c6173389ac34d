// internal/httpserver/routes_friends.go
//
// Friend challenges under /friends.
//   - POST /friends                 → create a challenge, returns its token
//   - GET  /friends/{token}         → the player's game for the challenge
//   - POST /friends/{token}/keys    → apply key events
//   - POST /friends/{token}/reset   → start the challenge over
//
// The token is the whole challenge, so any player can resolve it. The
// creator additionally keeps a cached copy in their own storage.

package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-shqip/internal/challenge"
	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/play"
)

func (s *Server) mountFriends(r chi.Router) {
	r.Route("/friends", func(r chi.Router) {
		r.Post("/", s.handleCreateChallenge)
		r.Route("/{token}", func(r chi.Router) {
			r.Get("/", s.handleFriendsGame)
			r.Post("/keys", s.handleFriendsKeys)
			r.Post("/reset", s.handleFriendsReset)
		})
	})
}

type createChallengeReq struct {
	Word        string `json:"word"`
	CreatorName string `json:"creatorName"`
}

type challengeRes struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	CreatorName string    `json:"creatorName"`
	CreatedAt   time.Time `json:"createdAt"`
	Message     string    `json:"message,omitempty"`
}

type friendsRes struct {
	gameView
	Challenge challengeRes `json:"challenge"`
}

func (s *Server) resolver(r *http.Request) *challenge.Resolver {
	return challenge.NewResolver(s.playerStore(r))
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req createChallengeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	c, err := s.resolver(r).Create(r.Context(), req.Word, req.CreatorName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res := challengeInfo(c)
	res.Message = "Loja u krijua! Tani mund të ndani lidhjen me miqtë tuaj."
	writeJSON(w, http.StatusCreated, res)
}

func challengeInfo(c challenge.Challenge) challengeRes {
	return challengeRes{ID: c.ID, Path: "/friends/" + c.ID, CreatorName: c.CreatorName, CreatedAt: c.CreatedAt}
}

// friendsSession resolves token. On false the response has been written.
func (s *Server) friendsSession(w http.ResponseWriter, r *http.Request, token string) (*play.Session, challenge.Challenge, bool) {
	c, err := s.resolver(r).Resolve(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return nil, challenge.Challenge{}, false
	}
	sess, err := s.session(r, play.FriendsRef(c.ID), c.Word)
	if err != nil {
		writeDomainError(w, err)
		return nil, challenge.Challenge{}, false
	}
	return sess, c, true
}

func friendsView(c challenge.Challenge) func(*game.Game) gameView {
	return func(g *game.Game) gameView {
		v := newGameView(g)
		v.Message = finishMessage(g,
			func(n int) string { return fmt.Sprintf("E gjetët fjalën e %s në %d përpjekje!", c.CreatorName, n) },
			func(t string) string { return fmt.Sprintf("Fjala e %s ishte \"%s\". Provo sërish!", c.CreatorName, t) },
		)
		return v
	}
}

func (s *Server) handleFriendsGame(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := s.friendsSession(w, r, chi.URLParam(r, "token"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, friendsRes{gameView: friendsView(c)(sess.Game()), Challenge: challengeInfo(c)})
}

func (s *Server) handleFriendsKeys(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := s.friendsSession(w, r, chi.URLParam(r, "token"))
	if !ok {
		return
	}
	reveal, ok := applyKeys(w, r, sess, friendsView(c))
	if !ok {
		return
	}
	v := friendsView(c)(sess.Game())
	v.Reveal = reveal
	writeJSON(w, http.StatusOK, friendsRes{gameView: v, Challenge: challengeInfo(c)})
}

func (s *Server) handleFriendsReset(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := s.friendsSession(w, r, chi.URLParam(r, "token"))
	if !ok {
		return
	}
	if err := sess.Reset(r.Context(), c.Word); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendsRes{gameView: friendsView(c)(sess.Game()), Challenge: challengeInfo(c)})
}
