package header

import (
	"io"

	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/quality"
)

// Param is a single "name=value" parameter of a header value.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered set of header value parameters.
// Names are case-insensitive and stored lowercased, values are stored unquoted.
type Params []Param

func (ps Params) index(name string) int {
	for i := range ps {
		if util.EqFold(ps[i].Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the value of the parameter with the given name.
func (ps Params) Get(name string) (string, bool) {
	if i := ps.index(name); i >= 0 {
		return ps[i].Value, true
	}
	return "", false
}

// Has checks whether the parameter with the given name is present.
func (ps Params) Has(name string) bool { return ps.index(name) >= 0 }

// Set sets the parameter value keeping its position if it already exists.
func (ps Params) Set(name, value string) Params {
	if i := ps.index(name); i >= 0 {
		ps[i].Value = value
		return ps
	}
	return append(ps, Param{util.LCase(name), value})
}

// Del removes the parameter with the given name.
func (ps Params) Del(name string) Params {
	if i := ps.index(name); i >= 0 {
		return append(ps[:i:i], ps[i+1:]...)
	}
	return ps
}

// Len returns the number of parameters.
func (ps Params) Len() int { return len(ps) }

func (ps Params) Clone() Params {
	if ps == nil {
		return nil
	}
	return append(make(Params, 0, len(ps)), ps...)
}

// Equal compares parameter sets ignoring order.
// Only the "charset" value is compared case-insensitively, RFC 9110 Section 8.3.2.
func (ps Params) Equal(other Params) bool {
	if len(ps) != len(other) {
		return false
	}
	for _, p := range ps {
		v, ok := other.Get(p.Name)
		if !ok || !paramValueEqual(p.Name, p.Value, v) {
			return false
		}
	}
	return true
}

func paramValueEqual(name, a, b string) bool {
	if util.EqFold(name, "charset") {
		return util.EqFold(a, b)
	}
	return a == b
}

// IsValid checks that all parameter names are tokens and
// values needing quotes form a valid quoted-string.
func (ps Params) IsValid() bool {
	for _, p := range ps {
		if !grammar.IsToken(p.Name) || !isValidParamValue(p.Value) {
			return false
		}
	}
	return true
}

func isValidParamValue(v string) bool {
	return grammar.IsToken(v) || grammar.IsQuoted(grammar.Quote(v))
}

// RenderTo writes parameters as ";name=value" pairs quoting values when needed.
func (ps Params) RenderTo(w io.Writer) (num int, err error) {
	if len(ps) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, p := range ps {
		cw.Fprint(";", p.Name, "=", grammar.QuoteIfNeeded(p.Value))
	}
	return errtrace.Wrap2(cw.Result())
}

func (ps Params) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	ps.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// buildParams collects parameter nodes of a parsed value.
// The first numeric "q" parameter is returned separately and not stored in the set.
func buildParams(node *abnf.Node) (ps Params, q float64, hasQ bool) {
	for _, n := range node.GetNodes(grammar.KeyParam) {
		name, val := grammar.Param(n)
		name = util.LCase(name)
		if name == "q" && !hasQ {
			if v, ok := quality.ParseQ(val); ok {
				q, hasQ = v, true
				continue
			}
		}
		ps = ps.Set(name, val)
	}
	return ps, q, hasQ
}
