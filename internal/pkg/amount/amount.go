// Package amount turns human-written funding amounts ("$82M", "€25k", "1.2 billion")
// into whole currency units. Currency symbols are dropped; no FX conversion happens.
package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	billion  = decimal.NewFromInt(1_000_000_000)
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// Parse returns the integer amount encoded in raw and false when nothing numeric remains
// after stripping every character that is not a digit or '.'.
func Parse(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return value.Mul(scale(raw)).Round(0).IntPart(), true
}

// ParsePtr is the nullable form of Parse.
func ParsePtr(raw *string) *int64 {
	if raw == nil {
		return nil
	}
	v, ok := Parse(*raw)
	if !ok {
		return nil
	}
	return &v
}

// scale picks the multiplier from the first matching suffix letter, checked b, m, k in order.
func scale(raw string) decimal.Decimal {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "b"):
		return billion
	case strings.Contains(lower, "m"):
		return million
	case strings.Contains(lower, "k"):
		return thousand
	default:
		return decimal.NewFromInt(1)
	}
}
