// internal/words/words.go
//
// Dictionary loading and guess validation.
//
// Responsibilities:
//   - Load the dictionary resource exactly once, in the background, and let
//     any number of callers wait on the same completion signal.
//   - Extract the playable pool: first whitespace-delimited token of each
//     entry's "term", normalized, exactly five alphabet letters, first
//     occurrence wins, load order kept.
//   - Answer IsValidGuess / RandomTerm / Terms against that pool.
//
// Failure behavior:
//   A missing or unparsable resource never fails the caller. The dictionary
//   degrades to empty (every guess is rejected, selectors fall back to
//   FallbackWord) and Err reports ErrDictionaryUnavailable.
//
// Sources:
//   - EmbeddedSource: assets/dictionary.json compiled into the binary.
//   - FileSource: a JSON file on disk (WORDS_DICTIONARY_FILE).

package words

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordle-shqip/assets"
	"github.com/robalobadob/wordle-shqip/internal/alphabet"
)

// FallbackWord is used whenever the pool is empty.
const FallbackWord = "FJALË"

// ErrDictionaryUnavailable marks a load that degraded to an empty dictionary.
var ErrDictionaryUnavailable = errors.New("words: dictionary unavailable")

// Source fetches the raw dictionary resource.
type Source func(ctx context.Context) ([]byte, error)

// EmbeddedSource reads the dictionary compiled into the binary.
func EmbeddedSource() Source {
	return func(context.Context) ([]byte, error) { return assets.Dictionary() }
}

// FileSource reads the dictionary from path.
func FileSource(path string) Source {
	return func(context.Context) ([]byte, error) { return os.ReadFile(path) }
}

// Dictionary is a lazily loaded, immutable-after-load word pool.
type Dictionary struct {
	src  Source
	once sync.Once
	done chan struct{}

	// Written by the loader before done is closed; read-only afterwards.
	terms []string
	set   map[string]struct{}
	err   error
}

// New returns a Dictionary that will load from src on first use.
func New(src Source) *Dictionary {
	return &Dictionary{src: src, done: make(chan struct{})}
}

// EnsureLoaded starts the load on the first call and returns a channel that
// is closed once the load has finished (successfully or degraded). Every
// call returns the same channel.
func (d *Dictionary) EnsureLoaded() <-chan struct{} {
	d.once.Do(func() { go d.load() })
	return d.done
}

// Wait starts the load if needed and blocks until it has finished or ctx is
// done. The load itself is never cancelled; only this caller's wait is.
func (d *Dictionary) Wait(ctx context.Context) error {
	select {
	case <-d.EnsureLoaded():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err reports why the dictionary degraded to empty, or nil. It is nil
// while the load is still in flight.
func (d *Dictionary) Err() error {
	if !d.loaded() {
		return nil
	}
	return d.err
}

func (d *Dictionary) loaded() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

func (d *Dictionary) load() {
	defer close(d.done)

	d.set = map[string]struct{}{}
	raw, err := d.src(context.Background())
	if err != nil {
		d.err = fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
		log.Error().Err(err).Msg("dictionary load failed; all guesses will be rejected")
		return
	}
	terms, err := ExtractTerms(raw)
	if err != nil {
		d.err = fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
		log.Error().Err(err).Msg("dictionary parse failed; all guesses will be rejected")
		return
	}
	d.terms = terms
	for _, t := range terms {
		d.set[t] = struct{}{}
	}
	log.Info().Int("terms", len(terms)).Msg("dictionary loaded")
}

// ExtractTerms parses a JSON array of dictionary entries and returns the
// playable five-letter terms in load order without duplicates. Entries
// that are not objects, or whose "term" is missing or not a string, are
// skipped; only a resource that is not a JSON array is an error.
func ExtractTerms(raw []byte) ([]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	candidates := lo.FilterMap(entries, func(e json.RawMessage, _ int) (string, bool) {
		var entry struct {
			Term json.RawMessage `json:"term"`
		}
		if json.Unmarshal(e, &entry) != nil {
			return "", false
		}
		var term string
		if json.Unmarshal(entry.Term, &term) != nil {
			return "", false
		}
		fields := strings.Fields(term)
		if len(fields) == 0 {
			return "", false
		}
		w := alphabet.Normalize(fields[0])
		return w, alphabet.IsValidShape(w)
	})
	return lo.Uniq(candidates), nil
}

// IsValidGuess reports whether word, once normalized, is in the pool.
// Before the load completes, and after a failed load, it returns false.
func (d *Dictionary) IsValidGuess(word string) bool {
	if word == "" || !d.loaded() {
		return false
	}
	_, ok := d.set[alphabet.Normalize(word)]
	return ok
}

// Terms returns the pool in load order (empty until loaded).
func (d *Dictionary) Terms() []string {
	if !d.loaded() {
		return nil
	}
	return d.terms
}

// RandomTerm returns a cryptographically random term, or FallbackWord if
// the pool is empty.
func (d *Dictionary) RandomTerm() string {
	terms := d.Terms()
	if len(terms) == 0 {
		return FallbackWord
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(terms))))
	if err != nil {
		return terms[0]
	}
	return terms[n.Int64()]
}

// Stats returns the number of playable terms.
func (d *Dictionary) Stats() int { return len(d.Terms()) }
