package header

import (
	"strings"

	"github.com/ghettovoice/httphdr/internal/util"
)

// IsCompatible reports whether mt and other can describe the same representation.
//
// Types are compatible when either is "*" or they are equal. Subtypes are compared
// with the structured syntax suffix rule, so "*+json" is compatible with "ld+json".
// Parameters present on both sides must have equal values. The quality is ignored.
func (mt *MediaType) IsCompatible(other *MediaType) bool {
	if mt == nil || other == nil {
		return false
	}
	if mt.Type != Wildcard && other.Type != Wildcard && !util.EqFold(mt.Type, other.Type) {
		return false
	}
	if !subtypesMatch(mt.Subtype, other.Subtype) {
		return false
	}
	for _, p := range mt.Params {
		if v, ok := other.Params.Get(p.Name); ok && !paramValueEqual(p.Name, p.Value, v) {
			return false
		}
	}
	return true
}

// subtypesMatch strips one "+" segment from each side that has one until
// the subtypes are equal, one of them is "*" or neither has a "+" left.
func subtypesMatch(a, b string) bool {
	for {
		if a == Wildcard || b == Wildcard || util.EqFold(a, b) {
			return true
		}
		ia, ib := strings.IndexByte(a, '+'), strings.IndexByte(b, '+')
		switch {
		case ia >= 0 && ib >= 0:
			a, b = a[ia+1:], b[ib+1:]
		case ia >= 0:
			a = a[ia+1:]
		case ib >= 0:
			b = b[ib+1:]
		default:
			return false
		}
	}
}

func subtypeRank(s string) int {
	switch {
	case s == Wildcard:
		return 0
	case strings.HasPrefix(s, "*+"):
		return 1
	default:
		return 2
	}
}

// specificity orders media ranges from "*/*" up to a concrete type and subtype.
func specificity(mt *MediaType) int {
	n := subtypeRank(mt.Subtype)
	if mt.Type != Wildcard {
		n += 3
	}
	return n
}

// Merge returns the most specific media type satisfying both mt and other.
// Concrete type and subtype win over wildcards, on a tie mt wins.
// Parameters of the more specific side go first followed by the rest of the other side.
// The result never carries a quality. The second result is false if the types are incompatible.
func (mt *MediaType) Merge(other *MediaType) (*MediaType, bool) {
	if !mt.IsCompatible(other) {
		return nil, false
	}

	first, second := mt, other
	if subtypeRank(other.Subtype) > subtypeRank(mt.Subtype) ||
		mt.Type == Wildcard && other.Type != Wildcard && subtypeRank(other.Subtype) == subtypeRank(mt.Subtype) {
		first, second = other, mt
	}

	res := &MediaType{Type: first.Type, Subtype: first.Subtype}
	if res.Type == Wildcard {
		res.Type = second.Type
	}
	res.Params = first.Params.Clone()
	for _, p := range second.Params {
		if !res.Params.Has(p.Name) {
			res.Params = append(res.Params, p)
		}
	}
	return res, true
}
