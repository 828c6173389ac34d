package daily

import (
	"context"
	"strings"
	"time"

	"github.com/robalobadob/wordle-shqip/internal/store"
)

const (
	progressPrefix  = "daily-"
	completedPrefix = "daily-completed-"
	lastPlayKey     = "lastDailyPlayDate"
)

// ProgressKey is the snapshot key of the daily game for date.
func ProgressKey(date string) string { return progressPrefix + date }

// CompletedKey is the completion marker key for date.
func CompletedKey(date string) string { return completedPrefix + date }

// Completion marks a finished daily puzzle. It never carries the word.
type Completion struct {
	Attempts    int   `json:"attempts"`
	CompletedAt int64 `json:"completedAt"` // unix milliseconds
	Completed   bool  `json:"completed"`
	Failed      bool  `json:"failed,omitempty"`
}

// Store keeps the per-player daily bookkeeping on top of the storage port.
type Store struct{ st store.Store }

func NewStore(st store.Store) *Store { return &Store{st: st} }

// IsNewDay reports whether today differs from the last recorded play date.
func (s *Store) IsNewDay(ctx context.Context, today string) (bool, error) {
	last, err := s.st.Get(ctx, lastPlayKey)
	if store.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return last != today, nil
}

func (s *Store) MarkPlayed(ctx context.Context, today string) error {
	return s.st.Set(ctx, lastPlayKey, today)
}

// ClearStale removes daily progress snapshots of every date except today
// and returns the removed keys. Completion markers are kept.
func (s *Store) ClearStale(ctx context.Context, today string) ([]string, error) {
	keys, err := s.st.Keys(ctx, progressPrefix)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, k := range keys {
		if strings.HasPrefix(k, completedPrefix) || k == ProgressKey(today) {
			continue
		}
		if err := s.st.Remove(ctx, k); err != nil {
			return removed, err
		}
		removed = append(removed, k)
	}
	return removed, nil
}

// Completion returns the marker for date, if any.
func (s *Store) Completion(ctx context.Context, date string) (Completion, bool, error) {
	var c Completion
	err := store.GetJSON(ctx, s.st, CompletedKey(date), &c)
	if store.IsNotFound(err) {
		return Completion{}, false, nil
	}
	if err != nil {
		return Completion{}, false, err
	}
	return c, true, nil
}

// RecordCompletion writes the marker for date. A loss is recorded as six
// attempts with Failed set.
func (s *Store) RecordCompletion(ctx context.Context, date string, won bool, attempts int, at time.Time) error {
	c := Completion{Attempts: attempts, CompletedAt: at.UnixMilli(), Completed: true}
	if !won {
		c.Attempts = 6
		c.Failed = true
	}
	return store.SetJSON(ctx, s.st, CompletedKey(date), c)
}
