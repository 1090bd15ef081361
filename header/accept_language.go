package header

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/quality"
)

// Language is an element of Accept-Language or Content-Language headers.
type Language struct {
	// Range is the language range as it appeared in the header, "*" included.
	Range string
	// Tag is the parsed language tag. It is [language.Und] for the "*" range.
	Tag  language.Tag
	Q    float64
	HasQ bool
}

// NewLanguage creates a language element from the tag.
func NewLanguage(tag language.Tag) *Language {
	return &Language{Range: tag.String(), Tag: tag}
}

// ParseLanguage parses a single language range optionally followed by the "q" parameter.
func ParseLanguage(s string) (*Language, error) {
	s = util.TrimOWS(s)
	node, err := grammar.ParseLanguageRange(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	rng := grammar.MustGetNode(node, grammar.KeyLangRange).String()
	l := &Language{Range: rng, Tag: language.Und}
	if rng != Wildcard {
		tag, err := language.Parse(rng)
		if err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput,
				"language %q: %v", rng, err))
		}
		l.Tag = tag
	}

	ps, q, hasQ := buildParams(node)
	if len(ps) > 0 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput,
			"language %q: unexpected parameter %q", rng, ps[0].Name))
	}
	l.Q, l.HasQ = q, hasQ
	return l, nil
}

// ParseLanguages parses comma-separated language lists from one or more header values.
// The result is stably sorted by descending quality.
func ParseLanguages(vals ...string) ([]*Language, error) {
	var ls []*Language
	for _, v := range vals {
		for _, part := range grammar.SplitList(v, ',') {
			l, err := ParseLanguage(part)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			ls = append(ls, l)
		}
	}
	slices.SortStableFunc(ls, compareLanguages)
	return ls, nil
}

func compareLanguages(a, b *Language) int { return cmp.Compare(b.Quality(), a.Quality()) }

// Quality returns the "q" parameter value or [quality.Default].
func (l *Language) Quality() float64 {
	if l == nil || !l.HasQ {
		return quality.Default
	}
	return l.Q
}

func (l *Language) RenderTo(w io.Writer) (num int, err error) {
	if l == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(l.Range)
	if l.HasQ {
		cw.Fprint(";q=", quality.FormatQ(l.Q))
	}
	return errtrace.Wrap2(cw.Result())
}

func (l *Language) String() string {
	if l == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	l.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func (l *Language) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, l.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(l.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, l.String())
			return
		}

		type hideMethods Language
		type Language hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Language)(l))
		return
	}
}

// Equal compares language ranges case-insensitively together with the quality.
func (l *Language) Equal(val any) bool {
	var other *Language
	switch v := val.(type) {
	case Language:
		other = &v
	case *Language:
		other = v
	default:
		return false
	}

	if l == other {
		return true
	} else if l == nil || other == nil {
		return false
	}

	return util.EqFold(l.Range, other.Range) && l.Quality() == other.Quality()
}

func (l *Language) IsValid() bool {
	return l != nil && l.Range != "" && (l.Range == Wildcard || l.Tag != language.Und || util.EqFold(l.Range, "und"))
}

func (l *Language) Clone() *Language {
	if l == nil {
		return nil
	}
	l2 := *l
	return &l2
}

func formatLanguage(l *Language) (string, error) {
	if !l.IsValid() {
		return "", errtrace.Wrap(NewInvalidValueError("invalid language %q", l.String()))
	}
	return l.String(), nil
}

// LanguageDelegate converts values of Accept-Language and Content-Language headers.
var LanguageDelegate = NewDelegate(KindLocale, ParseLanguage, formatLanguage)
