// Package stats keeps a player's cumulative results under a single storage key.
package stats

import (
	"context"
	"encoding/json"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/store"
)

// Key is where the record lives in a player's storage.
const Key = "wordle-statistics"

// Statistics accumulates across every finished game. GuessDistribution maps
// attempt count to the number of wins with that many attempts.
type Statistics struct {
	GamesPlayed       int         `json:"gamesPlayed"`
	GamesWon          int         `json:"gamesWon"`
	CurrentStreak     int         `json:"currentStreak"`
	MaxStreak         int         `json:"maxStreak"`
	WinPercentage     int         `json:"winPercentage"`
	GuessDistribution map[int]int `json:"guessDistribution"`
}

func empty() Statistics {
	return Statistics{GuessDistribution: map[int]int{}}
}

// Apply returns s updated with one result. attempts is only counted for a win.
func (s Statistics) Apply(won bool, attempts int) Statistics {
	next := s
	next.GuessDistribution = make(map[int]int, len(s.GuessDistribution)+1)
	for k, v := range s.GuessDistribution {
		next.GuessDistribution[k] = v
	}

	next.GamesPlayed++
	if won {
		next.GamesWon++
		next.CurrentStreak++
		if attempts > 0 {
			next.GuessDistribution[attempts]++
		}
	} else {
		next.CurrentStreak = 0
	}
	if next.CurrentStreak > next.MaxStreak {
		next.MaxStreak = next.CurrentStreak
	}
	next.WinPercentage = int(math.Round(100 * float64(next.GamesWon) / float64(next.GamesPlayed)))
	return next
}

// Tracker reads and writes Statistics through the storage port.
type Tracker struct{ st store.Store }

func NewTracker(st store.Store) *Tracker { return &Tracker{st: st} }

// Load returns the stored record. A missing or corrupt record yields
// zeroed statistics; only storage failures are returned.
func (t *Tracker) Load(ctx context.Context) (Statistics, error) {
	raw, err := t.st.Get(ctx, Key)
	if store.IsNotFound(err) {
		return empty(), nil
	}
	if err != nil {
		return Statistics{}, err
	}
	s := empty()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Warn().Err(err).Msg("statistics record unreadable, starting over")
		return empty(), nil
	}
	if s.GuessDistribution == nil {
		s.GuessDistribution = map[int]int{}
	}
	return s, nil
}

// RecordResult folds one finished game into the record and persists it.
func (t *Tracker) RecordResult(ctx context.Context, won bool, attempts int) (Statistics, error) {
	cur, err := t.Load(ctx)
	if err != nil {
		return Statistics{}, err
	}
	next := cur.Apply(won, attempts)
	if err := store.SetJSON(ctx, t.st, Key, next); err != nil {
		return Statistics{}, err
	}
	return next, nil
}

// Reset persists an empty record.
func (t *Tracker) Reset(ctx context.Context) (Statistics, error) {
	s := empty()
	if err := store.SetJSON(ctx, t.st, Key, s); err != nil {
		return Statistics{}, err
	}
	return s, nil
}
