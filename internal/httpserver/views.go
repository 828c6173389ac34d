package httpserver

import (
	"context"

	"github.com/robalobadob/wordle-shqip/internal/alphabet"
	"github.com/robalobadob/wordle-shqip/internal/game"
	"github.com/robalobadob/wordle-shqip/internal/play"
)

// gameView is what a client renders. Target is only set once the game is
// over.
type gameView struct {
	Board        game.Board           `json:"board"`
	Marks        [][]game.LetterState `json:"marks"`
	CurrentRow   int                  `json:"currentRow"`
	CurrentCol   int                  `json:"currentCol"`
	GameStatus   game.Status          `json:"gameStatus"`
	Guesses      []string             `json:"guesses"`
	LetterStates game.Hints           `json:"letterStates"`
	Revealing    bool                 `json:"revealing"`
	Reveal       *game.Reveal         `json:"reveal,omitempty"`
	Target       string               `json:"target,omitempty"`
	Message      string               `json:"message,omitempty"`
}

func newGameView(g *game.Game) gameView {
	snap := g.Snapshot()
	v := gameView{
		Board:        snap.Board,
		Marks:        g.Marks(),
		CurrentRow:   snap.CurrentRow,
		CurrentCol:   snap.CurrentCol,
		GameStatus:   snap.GameStatus,
		Guesses:      snap.Guesses,
		LetterStates: snap.LetterStates,
		Revealing:    g.Revealing(),
	}
	if g.Status() != game.StatusPlaying {
		v.Target = g.Target()
	}
	return v
}

// rejection is the 422 body for a refused guess; it carries the state
// reached by the keys applied before the refusal.
type rejection struct {
	apiError
	Game gameView `json:"game"`
}

type keysReq struct {
	Key  string   `json:"key"`
	Keys []string `json:"keys"`
}

func (k keysReq) all() []string {
	if k.Key != "" {
		return append([]string{k.Key}, k.Keys...)
	}
	return k.Keys
}

// pressAll applies keys in order and stops at the first refused guess. It
// returns the last reveal produced.
func pressAll(ctx context.Context, sess *play.Session, keys []string) (*game.Reveal, error) {
	var last *game.Reveal
	for _, k := range keys {
		out, err := sess.Press(ctx, k)
		if err != nil {
			return last, err
		}
		if out.Reveal != nil {
			last = out.Reveal
		}
	}
	return last, nil
}

type keyView struct {
	Key   string           `json:"key"`
	State game.LetterState `json:"state"`
}

// keyboardView overlays hints on the on-screen keyboard. Control keys are
// always unused.
func keyboardView(hints game.Hints) [][]keyView {
	rows := alphabet.KeyboardLayout()
	out := make([][]keyView, len(rows))
	for i, row := range rows {
		for _, k := range row {
			out[i] = append(out[i], keyView{Key: k, State: hints[k]})
		}
	}
	return out
}
