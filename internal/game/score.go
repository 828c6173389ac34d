package game

// Score classifies each position of guess against target. Both slices hold
// one letter per position and have the same length.
//
// Pass 1 marks exact matches Correct and counts, per letter, the target
// occurrences not consumed by an exact match. Pass 2 walks the remaining
// guess positions left to right: the k-th non-correct occurrence of a letter
// is Partial while k <= that count, Incorrect afterwards.
func Score(guess, target []string) []LetterState {
	n := len(guess)
	res := make([]LetterState, n)
	if len(target) != n {
		for i := range res {
			res[i] = Incorrect
		}
		return res
	}

	available := make(map[string]int, n)
	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			res[i] = Correct
		} else {
			available[target[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == Correct {
			continue
		}
		if available[guess[i]] > 0 {
			res[i] = Partial
			available[guess[i]]--
		} else {
			res[i] = Incorrect
		}
	}
	return res
}

// MergeHints folds the marks of one guess into hints, keeping the stronger
// state per letter. A letter once Correct stays Correct.
func MergeHints(hints Hints, guess []string, marks []LetterState) Hints {
	if hints == nil {
		hints = Hints{}
	}
	for i, l := range guess {
		hints[l] = hints[l].Max(marks[i])
	}
	return hints
}

func allCorrect(marks []LetterState) bool {
	for _, m := range marks {
		if m != Correct {
			return false
		}
	}
	return true
}
