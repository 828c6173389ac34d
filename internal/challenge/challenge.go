// internal/challenge/challenge.go
//
// Friend challenge tokens.
// A token is the challenge itself: {word, creatorName, createdAt} as JSON,
// UTF-8 encoded, then base64url without padding, so a link resolves with no
// server-side lookup. The creator also keeps a copy under "game-<token>" in
// its own storage namespace; Resolver falls back to it for tokens that do
// not decode.

package challenge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/alphabet"
	"github.com/robalobadob/wordle-shqip/internal/store"
)

var (
	// ErrNotFound: the token neither decodes nor is cached.
	ErrNotFound = errors.New("challenge: not found")
	// ErrInvalidWord: the secret word is not five alphabet letters.
	ErrInvalidWord = errors.New("challenge: invalid word")
	// ErrMissingName: the creator name is empty after trimming.
	ErrMissingName = errors.New("challenge: missing creator name")
)

const cachePrefix = "game-"

// Challenge is an immutable friend challenge. ID is the token.
type Challenge struct {
	ID          string    `json:"id"`
	Word        string    `json:"word"`
	CreatorName string    `json:"creatorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// payload is the wire shape. createdAt is unix milliseconds.
type payload struct {
	Word        *string `json:"word"`
	CreatorName *string `json:"creatorName"`
	CreatedAt   *int64  `json:"createdAt"`
}

// Encode builds the token for a challenge. createdAt is kept to the
// millisecond.
func Encode(word, creatorName string, createdAt time.Time) (string, error) {
	ms := createdAt.UnixMilli()
	b, err := json.Marshal(payload{Word: &word, CreatorName: &creatorName, CreatedAt: &ms})
	if err != nil {
		return "", fmt.Errorf("challenge: encode: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode reverses Encode. Any malformed token yields ErrNotFound.
func Decode(token string) (Challenge, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: bad encoding", ErrNotFound)
	}
	if !utf8.Valid(raw) {
		return Challenge{}, fmt.Errorf("%w: payload is not utf-8", ErrNotFound)
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Challenge{}, fmt.Errorf("%w: bad payload", ErrNotFound)
	}
	return p.challenge(token)
}

// challenge checks that every field is present and that the word can be
// played.
func (p payload) challenge(id string) (Challenge, error) {
	if p.Word == nil || p.CreatorName == nil || p.CreatedAt == nil {
		return Challenge{}, fmt.Errorf("%w: missing field", ErrNotFound)
	}
	if !alphabet.IsValidShape(*p.Word) {
		return Challenge{}, fmt.Errorf("%w: unplayable word %q", ErrNotFound, *p.Word)
	}
	return Challenge{
		ID:          id,
		Word:        *p.Word,
		CreatorName: *p.CreatorName,
		CreatedAt:   time.UnixMilli(*p.CreatedAt),
	}, nil
}

// Resolver creates and resolves challenges against one player's storage.
type Resolver struct {
	st  store.Store
	now func() time.Time
}

func NewResolver(st store.Store) *Resolver {
	return &Resolver{st: st, now: time.Now}
}

// Create validates and encodes a new challenge and caches it for the
// creator.
func (r *Resolver) Create(ctx context.Context, word, creatorName string) (Challenge, error) {
	word = alphabet.Normalize(word)
	if !alphabet.IsValidShape(word) {
		return Challenge{}, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	creatorName = strings.TrimSpace(creatorName)
	if creatorName == "" {
		return Challenge{}, ErrMissingName
	}
	createdAt := time.UnixMilli(r.now().UnixMilli())
	token, err := Encode(word, creatorName, createdAt)
	if err != nil {
		return Challenge{}, err
	}
	c := Challenge{ID: token, Word: word, CreatorName: creatorName, CreatedAt: createdAt}
	ms := createdAt.UnixMilli()
	if err := store.SetJSON(ctx, r.st, cachePrefix+token, payload{Word: &word, CreatorName: &creatorName, CreatedAt: &ms}); err != nil {
		return Challenge{}, err
	}
	return c, nil
}

// Resolve decodes token, falling back to the creator-side cache.
func (r *Resolver) Resolve(ctx context.Context, token string) (Challenge, error) {
	if token == "" {
		return Challenge{}, ErrNotFound
	}
	c, err := Decode(token)
	if err == nil {
		return c, nil
	}

	var p payload
	cerr := store.GetJSON(ctx, r.st, cachePrefix+token, &p)
	switch {
	case store.IsNotFound(cerr):
		return Challenge{}, err
	case cerr != nil:
		log.Warn().Err(cerr).Str("token", token).Msg("challenge cache unreadable")
		return Challenge{}, fmt.Errorf("%w: %v", ErrNotFound, cerr)
	}
	return p.challenge(token)
}
