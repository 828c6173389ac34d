// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - LetterState: per-letter classification, ordered so that max() is the
//     keyboard hint upgrade rule.
//   - Status: playing / won / lost.
//   - Board: the fixed 6x5 grid.
//   - Snapshot: the persisted shape of a game, without the target word.

package game

import (
	"encoding/json"
	"fmt"
)

// Board dimensions.
const (
	Rows = 6
	Cols = 5
)

// LetterState is the evaluation of a letter. Values are ordered:
// Unused < Incorrect < Partial < Correct.
type LetterState int

const (
	Unused LetterState = iota
	Incorrect
	Partial
	Correct
)

var letterStateNames = [...]string{
	Unused:    "unused",
	Incorrect: "incorrect",
	Partial:   "partial",
	Correct:   "correct",
}

func (s LetterState) String() string {
	if s < Unused || s > Correct {
		return fmt.Sprintf("LetterState(%d)", int(s))
	}
	return letterStateNames[s]
}

// Max returns the stronger of two states.
func (s LetterState) Max(o LetterState) LetterState {
	if o > s {
		return o
	}
	return s
}

func (s LetterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LetterState) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range letterStateNames {
		if n == name {
			*s = LetterState(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown letter state %q", name)
}

// Status is the coarse game state.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Board holds one typed token per cell; "" is empty.
type Board [Rows][Cols]string

// Hints is the cumulative keyboard hint map.
type Hints map[string]LetterState

// Reveal describes the row just evaluated. It drives a timed animation in
// the UI and has no effect on the logical state.
type Reveal struct {
	Row   int           `json:"row"`
	Marks []LetterState `json:"marks"`
}

// Outcome reports what a key event did.
type Outcome struct {
	Changed bool    // state was mutated and a new snapshot is due
	Reveal  *Reveal // set on an accepted guess
}

// Snapshot is the persisted shape of a game. It never contains the target.
type Snapshot struct {
	Board        Board    `json:"board"`
	CurrentRow   int      `json:"currentRow"`
	CurrentCol   int      `json:"currentCol"`
	GameStatus   Status   `json:"gameStatus"`
	Guesses      []string `json:"guesses"`
	LetterStates Hints    `json:"letterStates"`
}
