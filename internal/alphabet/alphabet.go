// internal/alphabet/alphabet.go
//
// The closed Albanian alphabet and input normalization.
//
// Letters are either a single character (A, Ç, Ë, ...) or one of the nine
// digraphs (DH, GJ, LL, NJ, RR, SH, TH, XH, ZH). Digraphs exist as keyboard
// tokens only: Normalize never splits text into digraphs, and IsValidShape
// checks a word character by character.

package alphabet

import (
	"strings"
	"unicode/utf8"
)

// WordLength is the fixed board width.
const WordLength = 5

// Virtual keys that are not letters.
const (
	KeyEnter     = "ENTER"
	KeyBackspace = "BACKSPACE"
)

var letters = []string{
	"A", "B", "C", "Ç", "D", "DH", "E", "Ë", "F", "G", "GJ", "H", "I", "J", "K", "L", "LL", "M",
	"N", "NJ", "O", "P", "Q", "R", "RR", "S", "SH", "T", "TH", "U", "V", "X", "XH", "Y", "Z", "ZH",
}

var keyboard = [][]string{
	{"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P", "Ë"},
	{"A", "S", "D", "F", "G", "H", "J", "K", "L", "Ç"},
	{KeyEnter, "Z", "X", "C", "V", "B", "N", "M", KeyBackspace},
}

var letterSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(letters))
	for _, l := range letters {
		m[l] = struct{}{}
	}
	return m
}()

// extraKeys are keyboard letters outside the alphabet.
var extraKeys = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, row := range keyboard {
		for _, k := range row {
			if _, ok := letterSet[k]; !ok && k != KeyEnter && k != KeyBackspace {
				m[k] = struct{}{}
			}
		}
	}
	return m
}()

// Alphabet returns the 36 letters in alphabetical order.
func Alphabet() []string {
	return append([]string(nil), letters...)
}

// KeyboardLayout returns the rows of the on-screen keyboard.
func KeyboardLayout() [][]string {
	out := make([][]string, len(keyboard))
	for i, row := range keyboard {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Normalize upper-cases and trims text.
func Normalize(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}

// IsLetter reports whether token is one of the 36 alphabet symbols.
// The token is normalized first, so "sh" and "Ë" are both letters.
func IsLetter(token string) bool {
	_, ok := letterSet[Normalize(token)]
	return ok
}

// IsTypeable reports whether token may be written into a board cell: any
// alphabet letter plus the extra keys of the on-screen keyboard (W).
func IsTypeable(token string) bool {
	if IsLetter(token) {
		return true
	}
	_, ok := extraKeys[Normalize(token)]
	return ok
}

// IsValidShape reports whether word normalizes to exactly WordLength
// characters, all of them from the alphabet.
func IsValidShape(word string) bool {
	n := Normalize(word)
	if utf8.RuneCountInString(n) != WordLength {
		return false
	}
	for _, r := range n {
		if !IsLetter(string(r)) {
			return false
		}
	}
	return true
}

// Split normalizes word and returns one letter per character.
func Split(word string) []string {
	n := Normalize(word)
	out := make([]string, 0, utf8.RuneCountInString(n))
	for _, r := range n {
		out = append(out, string(r))
	}
	return out
}
