// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes four endpoints under /daily, each taking an optional ?date=YYYY-MM-DD
// (default: today in DAILY_TIMEZONE) so past puzzles can be replayed:
//   - GET  /daily        → the player's game for the date
//   - POST /daily/keys   → apply key events
//   - POST /daily/reset  → start the date's puzzle over
//   - GET  /daily/share  → spoiler-free result text
//
// Everyone gets the same word for a date. Future dates are refused.
// The first visit of a new day clears unfinished puzzles of other days;
// completion markers are kept.

package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/daily"
	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/play"
	"github.com/robalobadob/wordle-shqip/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Post("/keys", s.handleDailyKeys)
		r.Post("/reset", s.handleDailyReset)
		r.Get("/share", s.handleDailyShare)
	})
}

// dailyRes is returned by every /daily endpoint except share.
type dailyRes struct {
	gameView
	Date       string            `json:"date"`
	Today      bool              `json:"today"`
	Completion *daily.Completion `json:"completion,omitempty"`
}

func (s *Server) today() string {
	return daily.DateKey(s.now().In(s.cfg.DailyLocation))
}

// dailySession resolves ?date, runs the new-day housekeeping and returns
// the session. On false the response has been written.
func (s *Server) dailySession(w http.ResponseWriter, r *http.Request) (*play.Session, bool) {
	today := s.today()
	date := today
	if q := r.URL.Query().Get("date"); q != "" {
		t, err := daily.ParseDateKey(q, s.cfg.DailyLocation)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date", msgBadDate)
			return nil, false
		}
		date = daily.DateKey(t)
	}
	if date > today {
		writeError(w, http.StatusBadRequest, "future_date", msgFutureDate)
		return nil, false
	}

	st := s.playerStore(r)
	if err := s.dailyHousekeeping(r.Context(), st, today); err != nil {
		writeDomainError(w, err)
		return nil, false
	}

	t, _ := daily.ParseDateKey(date, s.cfg.DailyLocation)
	sess, err := s.session(r, play.DailyRef(date), daily.Word(t, s.dict.Terms()))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return sess, true
}

// dailyHousekeeping clears other days' unfinished puzzles on the first
// visit of a new day, in storage and in the session cache.
func (s *Server) dailyHousekeeping(ctx context.Context, st store.Store, today string) error {
	ds := daily.NewStore(st)
	isNew, err := ds.IsNewDay(ctx, today)
	if err != nil || !isNew {
		return err
	}
	removed, err := ds.ClearStale(ctx, today)
	for _, k := range removed {
		s.sessions.drop(cacheKey(playerID(ctx), k))
	}
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		log.Debug().Int("removed", len(removed)).Str("today", today).Msg("cleared stale daily progress")
	}
	return ds.MarkPlayed(ctx, today)
}

func (s *Server) dailyView(r *http.Request, sess *play.Session) (dailyRes, error) {
	g := sess.Game()
	v := newGameView(g)
	date := sess.Ref().Date
	today := date == s.today()
	v.Message = finishMessage(g,
		func(n int) string {
			if today {
				return fmt.Sprintf("E gjetët fjalën e sotme në %d përpjekje!", n)
			}
			return fmt.Sprintf("E gjetët fjalën e %s në %d përpjekje!", date, n)
		},
		func(t string) string {
			if today {
				return fmt.Sprintf("Fjala e sotme ishte \"%s\". Kthehuni nesër për një sfidë të re!", t)
			}
			return fmt.Sprintf("Fjala e %s ishte \"%s\".", date, t)
		},
	)
	res := dailyRes{gameView: v, Date: date, Today: today}
	c, ok, err := daily.NewStore(s.playerStore(r)).Completion(r.Context(), date)
	if err != nil {
		return dailyRes{}, err
	}
	if ok {
		res.Completion = &c
	}
	return res, nil
}

func (s *Server) writeDaily(w http.ResponseWriter, r *http.Request, sess *play.Session, reveal *game.Reveal) {
	res, err := s.dailyView(r, sess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res.Reveal = reveal
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.dailySession(w, r)
	if !ok {
		return
	}
	s.writeDaily(w, r, sess, nil)
}

func (s *Server) handleDailyKeys(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.dailySession(w, r)
	if !ok {
		return
	}
	view := func(*game.Game) gameView {
		res, _ := s.dailyView(r, sess)
		return res.gameView
	}
	reveal, ok := applyKeys(w, r, sess, view)
	if !ok {
		return
	}
	s.writeDaily(w, r, sess, reveal)
}

// handleDailyReset starts the date's puzzle over. A recorded completion
// stays recorded.
func (s *Server) handleDailyReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.dailySession(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(r.Context(), sess.Game().Target()); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeDaily(w, r, sess, nil)
}

type shareRes struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

func (s *Server) handleDailyShare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.dailySession(w, r)
	if !ok {
		return
	}
	date := sess.Ref().Date
	writeJSON(w, http.StatusOK, shareRes{Date: date, Text: play.ShareText(date, sess.Game())})
}
