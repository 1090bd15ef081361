package header

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/quality"
)

// Wildcard matches any type or subtype.
const Wildcard = "*"

// MediaType holds a structured media type like "application/json;charset=utf-8".
//
// Type, Subtype and parameter names are lowercased on parse.
// The "q" parameter is kept apart from Params, it is the negotiation metadata
// of a header occurrence, not a part of the type identity.
type MediaType struct {
	Type    string
	Subtype string
	Params  Params
	// Q is the quality. It is meaningful only when HasQ is set.
	Q    float64
	HasQ bool
}

// NewMediaType creates a media type from type, subtype and "name", "value" pairs of parameters.
func NewMediaType(typ, subtype string, params ...string) *MediaType {
	mt := &MediaType{Type: util.LCase(typ), Subtype: util.LCase(subtype)}
	for i := 0; i+1 < len(params); i += 2 {
		mt.Params = mt.Params.Set(params[i], params[i+1])
	}
	return mt
}

// ParseMediaType parses a single media type.
// Empty input yields nil without an error. A bare token without "/" is parsed as a type
// with an empty subtype.
func ParseMediaType(s string) (*MediaType, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return nil, nil
	}

	node, err := grammar.ParseMediaRange(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return buildFromMediaRangeNode(node), nil
}

func buildFromMediaRangeNode(node *abnf.Node) *MediaType {
	mt := &MediaType{Type: util.LCase(grammar.MustGetNode(node, grammar.KeyType).String())}
	if n, ok := node.GetNode(grammar.KeySubtype); ok {
		mt.Subtype = util.LCase(n.String())
	}
	mt.Params, mt.Q, mt.HasQ = buildParams(node)
	return mt
}

// ParseMediaTypes parses media types from one or more header values.
// Each value may hold several comma-separated media types, empty elements are skipped.
// The result is stably sorted by descending quality.
func ParseMediaTypes(vals ...string) ([]*MediaType, error) {
	var mts []*MediaType
	for _, v := range vals {
		for _, part := range grammar.SplitList(v, ',') {
			mt, err := ParseMediaType(part)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			if mt != nil {
				mts = append(mts, mt)
			}
		}
	}
	slices.SortStableFunc(mts, CompareQuality)
	return mts, nil
}

// CompareQuality orders media types by descending quality.
func CompareQuality(a, b *MediaType) int { return cmp.Compare(b.Quality(), a.Quality()) }

// Quality returns the "q" parameter value or [quality.Default].
func (mt *MediaType) Quality() float64 {
	if mt == nil || !mt.HasQ {
		return quality.Default
	}
	return mt.Q
}

// WithQuality returns a copy of mt with the quality set to q.
func (mt *MediaType) WithQuality(q float64) *MediaType {
	mt2 := mt.Clone()
	mt2.Q, mt2.HasQ = q, true
	return mt2
}

// IsWildcardType reports whether the type is "*".
func (mt *MediaType) IsWildcardType() bool { return mt.Type == Wildcard }

// IsWildcardSubtype reports whether the subtype is "*" or a suffix wildcard like "*+json".
func (mt *MediaType) IsWildcardSubtype() bool {
	return mt.Subtype == Wildcard || len(mt.Subtype) > 1 && mt.Subtype[0] == '*' && mt.Subtype[1] == '+'
}

// Suffix returns the structured syntax suffix of the subtype, e.g. "json" for "vnd.api+json".
func (mt *MediaType) Suffix() string {
	for i := len(mt.Subtype) - 1; i >= 0; i-- {
		if mt.Subtype[i] == '+' {
			return mt.Subtype[i+1:]
		}
	}
	return ""
}

func (mt *MediaType) renderTo(w io.Writer, withQ bool) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	cw.Fprint(mt.Type)
	if mt.Subtype != "" {
		cw.Fprint("/", mt.Subtype)
	}
	cw.Call(mt.Params.RenderTo)
	if withQ && mt.HasQ {
		cw.Fprint(";q=", quality.FormatQ(mt.Q))
	}
	return errtrace.Wrap2(cw.Result())
}

// RenderTo writes the header form of the media type including the quality.
func (mt *MediaType) RenderTo(w io.Writer) (num int, err error) {
	if mt == nil {
		return 0, nil
	}
	return errtrace.Wrap2(mt.renderTo(w, true))
}

// String returns the media type without the quality.
func (mt *MediaType) String() string {
	if mt == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	mt.renderTo(sb, false) //nolint:errcheck
	return sb.String()
}

// HeaderString returns the media type in the header form, with the quality if it was set.
func (mt *MediaType) HeaderString() string {
	if mt == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	mt.renderTo(sb, true) //nolint:errcheck
	return sb.String()
}

func (mt *MediaType) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			fmt.Fprint(f, mt.HeaderString())
			return
		}
		fmt.Fprint(f, mt.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(mt.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, mt.String())
			return
		}

		type hideMethods MediaType
		type MediaType hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*MediaType)(mt))
		return
	}
}

// Equal compares media types by type, subtype and parameter set. The quality is ignored.
func (mt *MediaType) Equal(val any) bool {
	var other *MediaType
	switch v := val.(type) {
	case MediaType:
		other = &v
	case *MediaType:
		other = v
	default:
		return false
	}

	if mt == other {
		return true
	} else if mt == nil || other == nil {
		return false
	}

	return util.EqFold(mt.Type, other.Type) &&
		util.EqFold(mt.Subtype, other.Subtype) &&
		mt.Params.Equal(other.Params)
}

func (mt *MediaType) IsValid() bool {
	return mt != nil &&
		grammar.IsToken(mt.Type) &&
		(mt.Subtype == "" || grammar.IsToken(mt.Subtype)) &&
		mt.Params.IsValid() &&
		(!mt.HasQ || mt.Q >= 0 && mt.Q <= 1)
}

func (mt *MediaType) Clone() *MediaType {
	if mt == nil {
		return nil
	}
	mt2 := *mt
	mt2.Params = mt.Params.Clone()
	return &mt2
}

func (mt *MediaType) MarshalText() ([]byte, error) {
	return []byte(mt.HeaderString()), nil
}

func (mt *MediaType) UnmarshalText(data []byte) error {
	v, err := ParseMediaType(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	if v == nil {
		*mt = MediaType{}
		return nil
	}
	*mt = *v
	return nil
}

func formatMediaType(mt *MediaType) (string, error) {
	if mt == nil || mt.Type == "" {
		return "", errtrace.Wrap(NewInvalidValueError("empty media type"))
	}
	return mt.HeaderString(), nil
}

// MediaTypeDelegate converts values of media type headers.
var MediaTypeDelegate = NewDelegate(KindMediaType, parseMediaTypeValue, formatMediaType)

func parseMediaTypeValue(s string) (*MediaType, error) {
	mt, err := ParseMediaType(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if mt == nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrEmptyInput, "media type"))
	}
	return mt, nil
}
