package play

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle-shqip/internal/game"
)

var tiles = map[game.LetterState]string{
	game.Correct:   "🟩",
	game.Partial:   "🟨",
	game.Incorrect: "⬛",
}

// ShareText renders the spoiler-free result of a daily game.
//
//	Wordle Shqip 2025-01-01
//	3/6
//
//	⬛🟨⬛⬛⬛
//	🟩🟩⬛🟩⬛
//	🟩🟩🟩🟩🟩
//
//	#WordleShqip
func ShareText(date string, g *game.Game) string {
	score := "X"
	if g.Status() == game.StatusWon {
		score = fmt.Sprint(g.Attempts())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wordle Shqip %s\n%s/6\n\n", date, score)
	for _, row := range g.Marks() {
		for _, m := range row {
			b.WriteString(tiles[m])
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n#WordleShqip")
	return b.String()
}
