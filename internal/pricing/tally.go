package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Parse reads an opaque money string such as "1,200 円" or "¥980" by keeping
// only digits and '.'; anything unparsable counts as 0.
func Parse(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Format renders an amount rounded to whole units, e.g. "1200 円".
func Format(amount float64, currency string) string {
	s := strconv.FormatInt(int64(math.Round(amount)), 10)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// Tally is a running price total.
type Tally struct {
	Total float64
	Count int // number of priced entries added, zero prices included
}

// Add parses each price and adds it to the total; it returns the sum of this call.
func (t *Tally) Add(prices ...string) float64 {
	var sum float64
	for _, p := range prices {
		sum += Parse(p)
	}
	t.Total += sum
	t.Count += len(prices)
	return sum
}

// Reset zeroes the tally.
func (t *Tally) Reset() { *t = Tally{} }
