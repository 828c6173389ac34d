// internal/play/session.go
//
// A Session binds one game engine to a player's storage.
// Responsibilities:
//   - Restore the snapshot stored under the session key, or start fresh.
//   - Persist a new snapshot after every key event that changed state.
//   - Observe the playing → won/lost transition: update statistics and, for
//     daily puzzles, write the completion marker.
//
// Notes:
//   - The target is always supplied by the caller. Snapshots never hold it.
//   - A Session is not safe for concurrent use; callers serialize access per
//     player.

package play

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/daily"
	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/stats"
	"github.com/robalobadob/wordle-shqip/internal/store"
)

// Kind is the game mode a session belongs to.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindFriends Kind = "friends"
	KindFree    Kind = "free"
)

// FreePlayKey is the snapshot key of the free-play game.
const FreePlayKey = "free-play"

// Ref names a session and the storage key of its snapshot.
type Ref struct {
	Kind Kind
	Key  string
	Date string // daily only, YYYY-MM-DD
}

func DailyRef(date string) Ref { return Ref{Kind: KindDaily, Key: daily.ProgressKey(date), Date: date} }

func FriendsRef(token string) Ref { return Ref{Kind: KindFriends, Key: "friends-" + token} }

func FreeRef() Ref { return Ref{Kind: KindFree, Key: FreePlayKey} }

// Session is a live game plus the storage it persists to.
type Session struct {
	ref   Ref
	game  *game.Game
	st    store.Store
	stats *stats.Tracker
	days  *daily.Store
	now   func() time.Time
}

// Open restores the session under ref.Key with target, or starts a new game
// when nothing usable is stored. A corrupt snapshot is logged and dropped.
func Open(ctx context.Context, st store.Store, ref Ref, target string, dict game.Validator, opts ...game.Option) (*Session, error) {
	s := &Session{
		ref:   ref,
		st:    st,
		stats: stats.NewTracker(st),
		days:  daily.NewStore(st),
		now:   time.Now,
	}

	raw, err := st.Get(ctx, ref.Key)
	if store.IsNotFound(err) {
		s.game = game.New(target, dict, opts...)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("play: open %s: %w", ref.Key, err)
	}

	var snap game.Snapshot
	if err = json.Unmarshal([]byte(raw), &snap); err == nil {
		var g *game.Game
		if g, err = game.Restore(snap, target, dict, opts...); err == nil {
			s.game = g
			return s, nil
		}
	}
	log.Warn().Err(err).Str("key", ref.Key).Msg("discarding unreadable snapshot")
	if err := st.Remove(ctx, ref.Key); err != nil && !store.IsNotFound(err) {
		return nil, fmt.Errorf("play: drop %s: %w", ref.Key, err)
	}
	s.game = game.New(target, dict, opts...)
	return s, nil
}

// Press applies one key event. A rejected guess returns the engine's error
// and persists nothing.
func (s *Session) Press(ctx context.Context, key string) (game.Outcome, error) {
	before := s.game.Status()
	out, err := s.game.HandleKey(key)
	if err != nil || !out.Changed {
		return out, err
	}
	if err := s.save(ctx); err != nil {
		return out, err
	}
	if before == game.StatusPlaying && s.game.Status() != game.StatusPlaying {
		if err := s.finish(ctx); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Reset starts over with target and clears the stored snapshot.
func (s *Session) Reset(ctx context.Context, target string) error {
	s.game.Reset(target)
	if err := s.st.Remove(ctx, s.ref.Key); err != nil && !store.IsNotFound(err) {
		return fmt.Errorf("play: reset %s: %w", s.ref.Key, err)
	}
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if err := store.SetJSON(ctx, s.st, s.ref.Key, s.game.Snapshot()); err != nil {
		return fmt.Errorf("play: save %s: %w", s.ref.Key, err)
	}
	return nil
}

func (s *Session) finish(ctx context.Context) error {
	won := s.game.Status() == game.StatusWon
	attempts := s.game.Attempts()
	if _, err := s.stats.RecordResult(ctx, won, attempts); err != nil {
		return fmt.Errorf("play: record result: %w", err)
	}
	if s.ref.Kind == KindDaily {
		if err := s.days.RecordCompletion(ctx, s.ref.Date, won, attempts, s.now()); err != nil {
			return fmt.Errorf("play: record completion: %w", err)
		}
	}
	log.Info().
		Str("session", s.ref.Key).
		Str("status", string(s.game.Status())).
		Int("attempts", attempts).
		Msg("game finished")
	return nil
}

func (s *Session) Ref() Ref         { return s.ref }
func (s *Session) Game() *game.Game { return s.game }
