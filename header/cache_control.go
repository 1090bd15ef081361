package header

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Cache-Control directives defined by RFC 9111, RFC 5861 and RFC 8246.
const (
	NoCache              = "no-cache"
	NoStore              = "no-store"
	NoTransform          = "no-transform"
	OnlyIfCached         = "only-if-cached"
	MustRevalidate       = "must-revalidate"
	ProxyRevalidate      = "proxy-revalidate"
	MustUnderstand       = "must-understand"
	Public               = "public"
	Private              = "private"
	Immutable            = "immutable"
	MaxAge               = "max-age"
	SMaxAge              = "s-maxage"
	MaxStale             = "max-stale"
	MinFresh             = "min-fresh"
	StaleWhileRevalidate = "stale-while-revalidate"
	StaleIfError         = "stale-if-error"
)

var knownDirectives = map[string]bool{
	NoCache: true, NoStore: true, NoTransform: true, OnlyIfCached: true,
	MustRevalidate: true, ProxyRevalidate: true, MustUnderstand: true,
	Public: true, Private: true, Immutable: true,
	MaxAge: true, SMaxAge: true, MaxStale: true, MinFresh: true,
	StaleWhileRevalidate: true, StaleIfError: true,
}

// IsKnownDirective reports whether name is a standard Cache-Control directive.
func IsKnownDirective(name string) bool { return knownDirectives[Key(name)] }

// Flag is a tri-state value of a boolean directive.
type Flag int8

const (
	// FlagUnset means the directive was never set.
	FlagUnset Flag = iota
	// FlagTrue means the directive is present.
	FlagTrue
	// FlagFalse means the directive was explicitly switched off. It is not rendered.
	FlagFalse
)

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unset"
	}
}

// Directive is a single Cache-Control directive.
type Directive struct {
	Name     string
	Value    string
	HasValue bool
}

func (d Directive) String() string {
	if !d.HasValue {
		return d.Name
	}
	return d.Name + "=" + grammar.QuoteIfNeeded(d.Value)
}

type directive struct {
	Directive
	off bool
}

// CacheControl is a Cache-Control header value.
// Directives keep the order they were parsed or set in and are rendered in that order.
type CacheControl struct {
	dirs []directive
}

// ParseCacheControl parses a Cache-Control header value.
// Repeated directives keep the position of the first occurrence and the value of the last one.
// Parsing never yields [FlagFalse].
func ParseCacheControl(s string) (*CacheControl, error) {
	cc := &CacheControl{}
	if util.TrimOWS(s) == "" {
		return cc, nil
	}

	node, err := grammar.ParseCacheControl(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	for _, n := range node.GetNodes(grammar.KeyDirective) {
		d := Directive{Name: util.LCase(grammar.MustGetNode(n, grammar.KeyDirName).String())}
		if v, ok := n.GetNode(grammar.KeyParamValue); ok {
			d.Value, d.HasValue = grammar.Value(v), true
		}
		cc.put(d)
	}
	return cc, nil
}

func (cc *CacheControl) index(name string) int {
	for i := range cc.dirs {
		if util.EqFold(cc.dirs[i].Name, name) {
			return i
		}
	}
	return -1
}

func (cc *CacheControl) put(d Directive) {
	if i := cc.index(d.Name); i >= 0 {
		cc.dirs[i] = directive{Directive: d}
		return
	}
	cc.dirs = append(cc.dirs, directive{Directive: d})
}

// Directives returns rendered directives in order.
func (cc *CacheControl) Directives() []Directive {
	if cc == nil {
		return nil
	}
	ds := make([]Directive, 0, len(cc.dirs))
	for _, d := range cc.dirs {
		if !d.off {
			ds = append(ds, d.Directive)
		}
	}
	return ds
}

// Len returns the number of rendered directives.
func (cc *CacheControl) Len() int { return len(cc.Directives()) }

// Has reports whether the directive is present and not switched off.
func (cc *CacheControl) Has(name string) bool { return cc.Flag(name) == FlagTrue }

// Flag returns the tri-state of the directive.
func (cc *CacheControl) Flag(name string) Flag {
	if cc == nil {
		return FlagUnset
	}
	i := cc.index(name)
	switch {
	case i < 0:
		return FlagUnset
	case cc.dirs[i].off:
		return FlagFalse
	default:
		return FlagTrue
	}
}

// SetFlag sets the tri-state of the directive.
// [FlagTrue] keeps the position and the value of a known directive, [FlagFalse] hides it
// from the output, [FlagUnset] forgets it.
func (cc *CacheControl) SetFlag(name string, f Flag) *CacheControl {
	i := cc.index(name)
	switch f {
	case FlagUnset:
		if i >= 0 {
			cc.dirs = append(cc.dirs[:i:i], cc.dirs[i+1:]...)
		}
	default:
		if i < 0 {
			cc.dirs = append(cc.dirs, directive{Directive: Directive{Name: Key(name)}})
			i = len(cc.dirs) - 1
		}
		cc.dirs[i].off = f == FlagFalse
	}
	return cc
}

// Value returns the argument of the directive.
func (cc *CacheControl) Value(name string) (string, bool) {
	if cc == nil {
		return "", false
	}
	if i := cc.index(name); i >= 0 && !cc.dirs[i].off && cc.dirs[i].HasValue {
		return cc.dirs[i].Value, true
	}
	return "", false
}

// Set sets the directive with an argument.
func (cc *CacheControl) Set(name, value string) *CacheControl {
	cc.put(Directive{Name: Key(name), Value: value, HasValue: true})
	return cc
}

// Del forgets the directive.
func (cc *CacheControl) Del(name string) *CacheControl { return cc.SetFlag(name, FlagUnset) }

// Duration returns the delta-seconds argument of the directive like "max-age".
func (cc *CacheControl) Duration(name string) (time.Duration, bool) {
	v, ok := cc.Value(name)
	if !ok {
		return 0, false
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil || sec < 0 {
		return 0, false
	}
	return time.Duration(sec) * time.Second, true
}

// SetDuration sets the delta-seconds argument of the directive.
func (cc *CacheControl) SetDuration(name string, d time.Duration) *CacheControl {
	return cc.Set(name, strconv.FormatInt(int64(d/time.Second), 10))
}

// MaxAge returns the "max-age" directive.
func (cc *CacheControl) MaxAge() (time.Duration, bool) { return cc.Duration(MaxAge) }

// Merge appends directives of other. Directives present in both take the value of other.
func (cc *CacheControl) Merge(other *CacheControl) *CacheControl {
	if other == nil {
		return cc
	}
	for _, d := range other.dirs {
		i := cc.index(d.Name)
		if i < 0 {
			cc.dirs = append(cc.dirs, d)
			continue
		}
		cc.dirs[i] = d
	}
	return cc
}

func (cc *CacheControl) RenderTo(w io.Writer) (num int, err error) {
	if cc == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i, d := range cc.Directives() {
		if i > 0 {
			cw.Fprint(", ")
		}
		cw.Fprint(d.String())
	}
	return errtrace.Wrap2(cw.Result())
}

func (cc *CacheControl) String() string {
	if cc == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	cc.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func (cc *CacheControl) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, cc.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(cc.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, cc.String())
			return
		}

		type hideMethods CacheControl
		type CacheControl hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*CacheControl)(cc))
		return
	}
}

// Equal compares rendered directive sets ignoring their order.
func (cc *CacheControl) Equal(val any) bool {
	var other *CacheControl
	switch v := val.(type) {
	case CacheControl:
		other = &v
	case *CacheControl:
		other = v
	default:
		return false
	}

	if cc == other {
		return true
	}

	ds1, ds2 := cc.Directives(), other.Directives()
	if len(ds1) != len(ds2) {
		return false
	}
	for _, d := range ds1 {
		i := other.index(d.Name)
		if i < 0 || other.dirs[i].off || other.dirs[i].Directive != d {
			return false
		}
	}
	return true
}

func (cc *CacheControl) IsValid() bool {
	if cc == nil {
		return false
	}
	for _, d := range cc.dirs {
		if !grammar.IsToken(d.Name) || d.HasValue && !isValidParamValue(d.Value) {
			return false
		}
	}
	return true
}

func (cc *CacheControl) Clone() *CacheControl {
	if cc == nil {
		return nil
	}
	return &CacheControl{dirs: append([]directive(nil), cc.dirs...)}
}

func formatCacheControl(cc *CacheControl) (string, error) {
	if !cc.IsValid() {
		return "", errtrace.Wrap(NewInvalidValueError("invalid cache-control %q", cc.String()))
	}
	return cc.String(), nil
}

// CacheControlDelegate converts Cache-Control header values.
var CacheControlDelegate = NewDelegate(KindCacheControl, ParseCacheControl, formatCacheControl)
