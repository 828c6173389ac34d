// internal/game/engine.go
//
// Core game engine for a single Wordle Shqip session.
// Responsibilities:
//   - Own the 6x5 board, the cursor, the submitted guesses and the keyboard hints.
//   - Consume key events (letters, BACKSPACE, ENTER) one at a time.
//   - Validate and score submitted rows; drive playing → won/lost.
//   - Produce snapshots without the target word and restore from them.
//
// Notes:
//   - A Game is owned by one session and is not safe for concurrent use.
//   - After an accepted guess the engine ignores key events for the reveal
//     window (DefaultRevealDuration unless configured), mirroring the tile
//     animation in the UI.
//   - The target word is always supplied by the caller, never restored.

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle-shqip/internal/alphabet"
)

// DefaultRevealDuration is how long key events are ignored after a guess.
const DefaultRevealDuration = 1500 * time.Millisecond

var (
	// ErrInvalidShape: the row is not five alphabet letters.
	ErrInvalidShape = errors.New("game: invalid word shape")
	// ErrNotInWordList: the row is well formed but not in the dictionary.
	ErrNotInWordList = errors.New("game: word not in dictionary")
	// ErrCorruptSnapshot: a persisted snapshot violates the board invariants.
	ErrCorruptSnapshot = errors.New("game: corrupt snapshot")
)

// Validator decides whether a word may be submitted.
type Validator interface {
	IsValidGuess(word string) bool
}

// Option configures a Game.
type Option func(*Game)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithRevealDuration sets the reveal window; zero disables it.
func WithRevealDuration(d time.Duration) Option {
	return func(g *Game) { g.revealFor = d }
}

// Game holds the state of a single game session.
type Game struct {
	board   Board
	row     int
	col     int
	status  Status
	guesses []string
	hints   Hints

	targetWord string   // normalized
	target     []string // one letter per position

	dict        Validator
	now         func() time.Time
	revealFor   time.Duration
	revealUntil time.Time
}

// New starts a fresh game for target.
func New(target string, dict Validator, opts ...Option) *Game {
	g := &Game{
		dict:      dict,
		now:       time.Now,
		revealFor: DefaultRevealDuration,
	}
	for _, o := range opts {
		o(g)
	}
	g.Reset(target)
	return g
}

// Restore rebuilds a game from snap with the caller-supplied target.
// A snapshot that breaks the board invariants yields ErrCorruptSnapshot.
func Restore(snap Snapshot, target string, dict Validator, opts ...Option) (*Game, error) {
	if err := snap.validate(); err != nil {
		return nil, err
	}
	g := New(target, dict, opts...)
	g.board = snap.Board
	g.row = snap.CurrentRow
	g.col = snap.CurrentCol
	g.status = snap.GameStatus
	g.guesses = append([]string{}, snap.Guesses...)
	g.hints = Hints{}
	for l, s := range snap.LetterStates {
		g.hints[l] = s
	}
	return g, nil
}

// Reset discards all progress and starts over with target.
func (g *Game) Reset(target string) {
	g.targetWord = alphabet.Normalize(target)
	g.target = alphabet.Split(g.targetWord)
	g.board = Board{}
	g.row, g.col = 0, 0
	g.status = StatusPlaying
	g.guesses = []string{}
	g.hints = Hints{}
	g.revealUntil = time.Time{}
}

// HandleKey applies one key event: a typeable letter, alphabet.KeyBackspace
// or alphabet.KeyEnter. Events that do nothing return a zero Outcome. A full
// row rejected on ENTER returns ErrInvalidShape or ErrNotInWordList and
// leaves the state untouched.
func (g *Game) HandleKey(key string) (Outcome, error) {
	if g.status != StatusPlaying || g.Revealing() {
		return Outcome{}, nil
	}

	switch k := alphabet.Normalize(key); {
	case k == alphabet.KeyBackspace:
		if g.col == 0 {
			return Outcome{}, nil
		}
		g.col--
		g.board[g.row][g.col] = ""
		return Outcome{Changed: true}, nil

	case k == alphabet.KeyEnter:
		return g.submit()

	case alphabet.IsTypeable(k):
		if g.col >= Cols {
			return Outcome{}, nil
		}
		g.board[g.row][g.col] = k
		g.col++
		return Outcome{Changed: true}, nil
	}
	return Outcome{}, nil
}

func (g *Game) submit() (Outcome, error) {
	if g.col != Cols {
		return Outcome{}, nil
	}
	word := alphabet.Normalize(strings.Join(g.board[g.row][:], ""))
	if !alphabet.IsValidShape(word) {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidShape, word)
	}
	if g.dict == nil || !g.dict.IsValidGuess(word) {
		return Outcome{}, fmt.Errorf("%w: %q", ErrNotInWordList, word)
	}

	letters := alphabet.Split(word)
	marks := Score(letters, g.target)
	g.guesses = append(g.guesses, word)
	g.hints = MergeHints(g.hints, letters, marks)
	reveal := &Reveal{Row: g.row, Marks: marks}

	switch {
	case allCorrect(marks):
		g.status = StatusWon
	case g.row == Rows-1:
		g.status = StatusLost
	default:
		g.row++
		g.col = 0
	}
	if g.revealFor > 0 {
		g.revealUntil = g.now().Add(g.revealFor)
	}
	return Outcome{Changed: true, Reveal: reveal}, nil
}

// Revealing reports whether the reveal window is open.
func (g *Game) Revealing() bool {
	return !g.revealUntil.IsZero() && g.now().Before(g.revealUntil)
}

// Snapshot returns a deep copy of the persistable state.
func (g *Game) Snapshot() Snapshot {
	hints := make(Hints, len(g.hints))
	for l, s := range g.hints {
		hints[l] = s
	}
	return Snapshot{
		Board:        g.board,
		CurrentRow:   g.row,
		CurrentCol:   g.col,
		GameStatus:   g.status,
		Guesses:      append([]string{}, g.guesses...),
		LetterStates: hints,
	}
}

// Marks re-scores every submitted guess against the target, row by row.
func (g *Game) Marks() [][]LetterState {
	return lo.Map(g.guesses, func(w string, _ int) []LetterState {
		return Score(alphabet.Split(w), g.target)
	})
}

func (g *Game) Status() Status { return g.status }
func (g *Game) Target() string { return g.targetWord }
func (g *Game) Board() Board   { return g.board }
func (g *Game) Attempts() int  { return len(g.guesses) }

// Cursor returns the current row and column.
func (g *Game) Cursor() (row, col int) { return g.row, g.col }

// Hint returns the keyboard hint for letter.
func (g *Game) Hint(letter string) LetterState {
	return g.hints[alphabet.Normalize(letter)]
}

// validate checks the board invariants: the cursor is in range, rows after
// the current one are empty, the current row is filled exactly up to the
// cursor, and the guess count matches the status.
func (s Snapshot) validate() error {
	if s.CurrentRow < 0 || s.CurrentRow >= Rows || s.CurrentCol < 0 || s.CurrentCol > Cols {
		return fmt.Errorf("%w: cursor (%d,%d)", ErrCorruptSnapshot, s.CurrentRow, s.CurrentCol)
	}
	switch s.GameStatus {
	case StatusPlaying:
		if len(s.Guesses) != s.CurrentRow {
			return fmt.Errorf("%w: %d guesses on row %d", ErrCorruptSnapshot, len(s.Guesses), s.CurrentRow)
		}
	case StatusWon, StatusLost:
		if len(s.Guesses) != s.CurrentRow+1 {
			return fmt.Errorf("%w: %d guesses on finished row %d", ErrCorruptSnapshot, len(s.Guesses), s.CurrentRow)
		}
	default:
		return fmt.Errorf("%w: status %q", ErrCorruptSnapshot, s.GameStatus)
	}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			filled := s.Board[r][c] != ""
			want := r < s.CurrentRow || (r == s.CurrentRow && c < s.CurrentCol)
			if filled != want {
				return fmt.Errorf("%w: cell (%d,%d)", ErrCorruptSnapshot, r, c)
			}
		}
	}
	return nil
}
