package daily

import (
	"time"

	"github.com/robalobadob/wordle-shqip/internal/words"
)

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in the location of t. Callers pick the
// puzzle's timezone by converting t first.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

// Hash is the 31-multiplier polynomial string hash, wrapped to a signed
// 32-bit integer after every step, with the absolute value taken at the end.
// The result is widened so that |math.MinInt32| is representable.
func Hash(s string) int64 {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return n
}

// WordIndex returns the pool index for date, or -1 for an empty pool.
func WordIndex(date time.Time, poolLen int) int {
	if poolLen <= 0 {
		return -1
	}
	return int(Hash(DateKey(date)) % int64(poolLen))
}

// Word returns the puzzle word for date. The same date and the same pool
// always give the same word; an empty pool gives words.FallbackWord.
func Word(date time.Time, pool []string) string {
	idx := WordIndex(date, len(pool))
	if idx < 0 {
		return words.FallbackWord
	}
	return pool[idx]
}
