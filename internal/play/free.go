package play

import (
	"context"
	"fmt"

	"github.com/robalobadob/wordle-shqip/internal/store"
)

// freeTargetKey holds the free-play target on the server side so the game
// survives a restart. It is never part of a snapshot or a response.
const freeTargetKey = "free-play-target"

// FreeTarget returns the current free-play target, storing a new pick when
// there is none.
func FreeTarget(ctx context.Context, st store.Store, pick func() string) (string, error) {
	t, err := st.Get(ctx, freeTargetKey)
	if err == nil && t != "" {
		return t, nil
	}
	if err != nil && !store.IsNotFound(err) {
		return "", fmt.Errorf("play: free target: %w", err)
	}
	return NewFreeTarget(ctx, st, pick)
}

// NewFreeTarget replaces the free-play target with a new pick.
func NewFreeTarget(ctx context.Context, st store.Store, pick func() string) (string, error) {
	t := pick()
	if err := st.Set(ctx, freeTargetKey, t); err != nil {
		return "", fmt.Errorf("play: free target: %w", err)
	}
	return t, nil
}
