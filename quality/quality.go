// Package quality implements quality (q-value) weighting of negotiable header values
// and a list that keeps values ordered by descending quality.
package quality

import (
	"cmp"
	"strconv"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Default is the quality of a value without the "q" parameter.
const Default = 1.0

// Weight is the ordering key of a value: quality first, then tie-break rank.
type Weight struct {
	// Q is the negotiation quality in the range [0, 1].
	Q float64
	// Tie is an auxiliary rank consulted between equal qualities; lower ranks go first.
	// Values with equal Q and Tie keep their insertion order.
	Tie int
}

// DefaultWeight is the weight of a value without the "q" parameter.
var DefaultWeight = Weight{Q: Default}

// IsDefault reports whether w equals [DefaultWeight].
func (w Weight) IsDefault() bool { return w == DefaultWeight }

// Compare returns a negative number when w ranks before o,
// a positive number when w ranks after o and zero when they are equal.
func (w Weight) Compare(o Weight) int {
	if c := cmp.Compare(o.Q, w.Q); c != 0 {
		return c
	}
	return cmp.Compare(w.Tie, o.Tie)
}

// Extractor computes the weight of a value.
type Extractor[T any] interface {
	Weigh(v T) Weight
}

// ExtractorFunc is a function adapter for [Extractor].
type ExtractorFunc[T any] func(v T) Weight

func (fn ExtractorFunc[T]) Weigh(v T) Weight { return fn(v) }

// None returns an extractor that weighs every value with [DefaultWeight].
// A list with such extractor always stays on the unsorted fast path.
func None[T any]() Extractor[T] {
	return ExtractorFunc[T](func(T) Weight { return DefaultWeight })
}

// Qualifier is implemented by typed values that carry a quality.
type Qualifier interface {
	Quality() float64
}

// Of returns an extractor that weighs values implementing [Qualifier]
// and gives [DefaultWeight] to all others.
func Of[T any]() Extractor[T] {
	return ExtractorFunc[T](func(v T) Weight {
		if q, ok := any(v).(Qualifier); ok {
			return Weight{Q: q.Quality()}
		}
		return DefaultWeight
	})
}

// Param returns an extractor that reads the "q" parameter of a raw header value
// like "text/html;level=1;q=0.7".
func Param() Extractor[string] {
	return ExtractorFunc[string](func(s string) Weight { return Weight{Q: FromParams(s)} })
}

// ParseQ parses a qvalue. It accepts numbers in the range [0, 1] only.
func ParseQ(s string) (float64, bool) {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || !(q >= 0 && q <= 1) {
		return 0, false
	}
	return q, true
}

// FormatQ renders a qvalue in its shortest form.
func FormatQ(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) }

// FromParams returns the "q" parameter of a raw header value or [Default]
// when it is missing or can not be parsed.
func FromParams(s string) float64 {
	parts := grammar.SplitList(s, ';')
	if len(parts) < 2 {
		return Default
	}
	for _, p := range parts[1:] {
		name, val, ok := cutParam(p)
		if !ok || !util.EqFold(name, "q") {
			continue
		}
		if q, ok := ParseQ(grammar.Unquote(val)); ok {
			return q
		}
		return Default
	}
	return Default
}

func cutParam(p string) (string, string, bool) {
	for i := 0; i < len(p); i++ {
		if p[i] == '=' {
			return util.TrimOWS(p[:i]), util.TrimOWS(p[i+1:]), true
		}
	}
	return "", "", false
}
