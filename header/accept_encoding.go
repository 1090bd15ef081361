package header

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/quality"
)

// Token is a single element of a token list header like Accept-Encoding, Accept-Charset
// or Vary, e.g. "gzip;q=0.8".
type Token struct {
	Value  string
	Params Params
	Q      float64
	HasQ   bool
}

// ParseToken parses a single token list element.
func ParseToken(s string) (*Token, error) {
	s = util.TrimOWS(s)
	node, err := grammar.ParseElement(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	t := &Token{Value: grammar.MustGetNode(node, grammar.KeyElement).String()}
	t.Params, t.Q, t.HasQ = buildParams(node)
	return t, nil
}

// ParseTokens parses comma-separated token lists from one or more header values.
// The result is stably sorted by descending quality.
func ParseTokens(vals ...string) ([]*Token, error) {
	var ts []*Token
	for _, v := range vals {
		for _, part := range grammar.SplitList(v, ',') {
			t, err := ParseToken(part)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			ts = append(ts, t)
		}
	}
	slices.SortStableFunc(ts, compareTokens)
	return ts, nil
}

func compareTokens(a, b *Token) int { return cmp.Compare(b.Quality(), a.Quality()) }

// Quality returns the "q" parameter value or [quality.Default].
func (t *Token) Quality() float64 {
	if t == nil || !t.HasQ {
		return quality.Default
	}
	return t.Q
}

func (t *Token) RenderTo(w io.Writer) (num int, err error) {
	if t == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(t.Value)
	cw.Call(t.Params.RenderTo)
	if t.HasQ {
		cw.Fprint(";q=", quality.FormatQ(t.Q))
	}
	return errtrace.Wrap2(cw.Result())
}

func (t *Token) String() string {
	if t == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	t.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func (t *Token) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, t.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(t.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, t.String())
			return
		}

		type hideMethods Token
		type Token hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Token)(t))
		return
	}
}

// Equal compares tokens case-insensitively together with their parameters and quality.
func (t *Token) Equal(val any) bool {
	var other *Token
	switch v := val.(type) {
	case Token:
		other = &v
	case *Token:
		other = v
	default:
		return false
	}

	if t == other {
		return true
	} else if t == nil || other == nil {
		return false
	}

	return util.EqFold(t.Value, other.Value) &&
		t.Params.Equal(other.Params) &&
		t.Quality() == other.Quality()
}

func (t *Token) IsValid() bool {
	return t != nil && grammar.IsToken(t.Value) && t.Params.IsValid()
}

func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	t2 := *t
	t2.Params = t.Params.Clone()
	return &t2
}

func formatToken(t *Token) (string, error) {
	if !t.IsValid() {
		return "", errtrace.Wrap(NewInvalidValueError("invalid token %q", t.String()))
	}
	return t.String(), nil
}

// TokenDelegate converts values of token list headers.
var TokenDelegate = NewDelegate(KindToken, ParseToken, formatToken)
