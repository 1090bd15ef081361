package header

import (
	"slices"

	"github.com/samber/lo"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/internal/util"
)

// Match is the result of a negotiation.
type Match[T any] struct {
	// Requested is the requested value that matched.
	Requested T
	// Offered is the offered value that matched.
	Offered T
	// Result is the merged value.
	Result T
}

// Negotiate walks requested values in order and tests each against every offered value
// in the offered order. The first pair accepted by merge wins.
func Negotiate[T any](requested, offered []T, merge func(req, off T) (T, bool)) (Match[T], bool) {
	for _, req := range requested {
		for _, off := range offered {
			if res, ok := merge(req, off); ok {
				return Match[T]{Requested: req, Offered: off, Result: res}, true
			}
		}
	}
	return Match[T]{}, false
}

// BestMatch selects the offered media type preferred by the requested list.
//
// Requested media types are ranked by descending quality keeping their relative order,
// media types with zero quality are not acceptable. A zero quality range also refuses
// offered types it covers when it is more specific than the matching range,
// so "text/html;q=0, */*" never yields "text/html". Among equally ranked requested types
// the offered order decides. The result is the merge of the matched pair.
func BestMatch(requested, offered []*MediaType) (Match[*MediaType], bool) {
	refused := lo.Filter(requested, func(mt *MediaType, _ int) bool { return mt != nil && mt.Quality() == 0 })
	reqs := lo.Filter(requested, func(mt *MediaType, _ int) bool { return mt != nil && mt.Quality() > 0 })
	slices.SortStableFunc(reqs, CompareQuality)
	return Negotiate(reqs, offered, func(req, off *MediaType) (*MediaType, bool) {
		for _, r := range refused {
			if specificity(r) > specificity(req) && r.IsCompatible(off) {
				return nil, false
			}
		}
		return off.Merge(req)
	})
}

// BestToken selects the offered token preferred by the requested list,
// e.g. for Accept-Charset or Accept-Encoding.
// The "*" token matches any offered token that is not explicitly refused with zero quality.
func BestToken(requested []*Token, offered []string) (string, bool) {
	refused := lo.FilterMap(requested, func(t *Token, _ int) (string, bool) {
		if t == nil || t.Quality() > 0 {
			return "", false
		}
		return Key(t.Value), true
	})
	reqs := lo.Filter(requested, func(t *Token, _ int) bool { return t != nil && t.Quality() > 0 })
	slices.SortStableFunc(reqs, compareTokens)

	m, ok := Negotiate(lo.Map(reqs, func(t *Token, _ int) string { return t.Value }), offered,
		func(req, off string) (string, bool) {
			if req == Wildcard {
				return off, !slices.Contains(refused, Key(off))
			}
			return off, util.EqFold(req, off)
		},
	)
	return m.Result, ok
}

// BestLanguage selects the offered language preferred by the requested list.
//
// Language ranges are matched with RFC 4647 basic filtering first: a range matches a tag
// equal to it or starting with it followed by "-". When nothing matches this way
// the x/text language matcher picks the closest offered tag.
func BestLanguage(requested []*Language, offered []language.Tag) (language.Tag, bool) {
	reqs := lo.Filter(requested, func(l *Language, _ int) bool { return l != nil && l.Quality() > 0 })
	slices.SortStableFunc(reqs, compareLanguages)

	offs := lo.Map(offered, func(t language.Tag, _ int) string { return t.String() })
	m, ok := Negotiate(lo.Map(reqs, func(l *Language, _ int) string { return l.Range }), offs,
		func(req, off string) (string, bool) {
			if req == Wildcard || util.EqFold(req, off) {
				return off, true
			}
			return off, len(off) > len(req) && off[len(req)] == '-' && util.EqFold(off[:len(req)], req)
		},
	)
	if ok {
		return offered[slices.Index(offs, m.Offered)], true
	}

	tags := lo.FilterMap(reqs, func(l *Language, _ int) (language.Tag, bool) {
		return l.Tag, l.Range != Wildcard
	})
	if len(tags) == 0 || len(offered) == 0 {
		return language.Und, false
	}
	_, idx, conf := language.NewMatcher(offered).Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return offered[idx], true
}
