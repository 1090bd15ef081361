package header

import (
	"log/slog"
	"net/url"

	"github.com/ghettovoice/httphdr/internal/util"
)

func parseOpaque(s string) (string, error) { return s, nil }

func formatOpaque(s string) (string, error) { return s, nil }

// OpaqueDelegate keeps header values as plain strings.
var OpaqueDelegate = NewDelegate(KindOpaque, parseOpaque, formatOpaque)

// guess is one attempt of the unknown header value battery.
type guess struct {
	kind  Kind
	parse func(string) (any, bool)
}

// guesses are tried in order for headers without a registered delegate.
// Every attempt is stricter than the corresponding delegate to avoid false positives.
var guesses = []guess{
	{KindDate, func(s string) (any, bool) {
		t, err := ParseDate(s)
		return t, err == nil
	}},
	{KindMediaType, func(s string) (any, bool) {
		mt, err := ParseMediaType(s)
		return mt, err == nil && mt != nil && mt.Subtype != ""
	}},
	{KindCacheControl, func(s string) (any, bool) {
		cc, err := ParseCacheControl(s)
		if err != nil {
			return nil, false
		}
		for _, d := range cc.Directives() {
			if IsKnownDirective(d.Name) {
				return cc, true
			}
		}
		return nil, false
	}},
	{KindLocale, func(s string) (any, bool) {
		if !looksLikeLanguage(s) {
			return nil, false
		}
		l, err := ParseLanguage(s)
		return l, err == nil
	}},
	{KindURI, func(s string) (any, bool) {
		u, err := url.Parse(s)
		return u, err == nil && u.IsAbs() && u.Host != ""
	}},
}

// looksLikeLanguage checks that the primary subtag is two or three letters.
func looksLikeLanguage(s string) bool {
	n := 0
	for n < len(s) && ('a' <= s[n]|0x20 && s[n]|0x20 <= 'z') {
		n++
	}
	return (n == 2 || n == 3) && (n == len(s) || s[n] == '-' || s[n] == ';')
}

// guessValue converts a value of a header without a registered delegate.
// It falls back to the value itself when no attempt succeeds.
func guessValue(s string, log *slog.Logger) any {
	s = util.TrimOWS(s)
	for _, g := range guesses {
		if v, ok := g.parse(s); ok {
			return v
		}
	}
	log.Debug("keep unknown header value as opaque string", "value", util.Ellipsis(s, 64))
	return s
}
