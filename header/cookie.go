package header

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ParseCookie parses a single "name=value" pair of the Cookie header.
func ParseCookie(s string) (*http.Cookie, error) {
	cs, err := http.ParseCookie(util.TrimOWS(s))
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "cookie %q: %v", s, err))
	}
	if len(cs) != 1 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput,
			"cookie %q: got %d pairs, want 1", s, len(cs)))
	}
	return cs[0], nil
}

func formatCookie(c *http.Cookie) (string, error) {
	if c == nil {
		return "", errtrace.Wrap(NewInvalidValueError("nil cookie"))
	}
	s := (&http.Cookie{Name: c.Name, Value: c.Value, Quoted: c.Quoted}).String()
	if s == "" {
		return "", errtrace.Wrap(NewInvalidValueError("invalid cookie name %q", c.Name))
	}
	return s, nil
}

// CookieDelegate converts pairs of the Cookie header.
var CookieDelegate = NewDelegate(KindCookie, ParseCookie, formatCookie)

// CookieAttr is an attribute of the Set-Cookie header like "Path=/" or "HttpOnly".
type CookieAttr struct {
	Name     string
	Value    string
	HasValue bool
}

func (a CookieAttr) String() string {
	if !a.HasValue {
		return a.Name
	}
	return a.Name + "=" + a.Value
}

// SetCookie is a Set-Cookie header value. Attributes keep the order they were parsed or set in.
type SetCookie struct {
	Name   string
	Value  string
	Quoted bool
	Attrs  []CookieAttr
}

// NewSetCookie creates a Set-Cookie value from the standard library cookie.
func NewSetCookie(c *http.Cookie) (*SetCookie, error) {
	if c == nil {
		return nil, errtrace.Wrap(NewInvalidValueError("nil cookie"))
	}
	s := c.String()
	if s == "" {
		return nil, errtrace.Wrap(NewInvalidValueError("invalid cookie name %q", c.Name))
	}
	return errtrace.Wrap2(ParseSetCookie(s))
}

// ParseSetCookie parses a Set-Cookie header value.
func ParseSetCookie(s string) (*SetCookie, error) {
	parts := strings.Split(util.TrimOWS(s), ";")

	name, val, ok := strings.Cut(parts[0], "=")
	name = util.TrimOWS(name)
	if !ok || !grammar.IsToken(name) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "set-cookie %q: invalid name-value pair", s))
	}
	sc := &SetCookie{Name: name, Value: util.TrimOWS(val)}
	if len(sc.Value) > 1 && sc.Value[0] == '"' && sc.Value[len(sc.Value)-1] == '"' {
		sc.Value, sc.Quoted = sc.Value[1:len(sc.Value)-1], true
	}

	for _, p := range parts[1:] {
		p = util.TrimOWS(p)
		if p == "" {
			continue
		}
		n, v, ok := strings.Cut(p, "=")
		n = util.TrimOWS(n)
		if !grammar.IsToken(n) {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "set-cookie %q: invalid attribute %q", s, p))
		}
		sc.Attrs = append(sc.Attrs, CookieAttr{Name: n, Value: util.TrimOWS(v), HasValue: ok})
	}
	return sc, nil
}

func (c *SetCookie) attrIndex(name string) int {
	for i := range c.Attrs {
		if util.EqFold(c.Attrs[i].Name, name) {
			return i
		}
	}
	return -1
}

// Attr returns the value of the attribute. Attribute names are case-insensitive.
func (c *SetCookie) Attr(name string) (string, bool) {
	if i := c.attrIndex(name); i >= 0 {
		return c.Attrs[i].Value, true
	}
	return "", false
}

// SetAttr sets the attribute keeping its position if it already exists.
func (c *SetCookie) SetAttr(name, value string) *SetCookie {
	a := CookieAttr{Name: name, Value: value, HasValue: value != ""}
	if i := c.attrIndex(name); i >= 0 {
		c.Attrs[i] = a
		return c
	}
	c.Attrs = append(c.Attrs, a)
	return c
}

// DelAttr removes the attribute.
func (c *SetCookie) DelAttr(name string) *SetCookie {
	if i := c.attrIndex(name); i >= 0 {
		c.Attrs = append(c.Attrs[:i:i], c.Attrs[i+1:]...)
	}
	return c
}

// HTTPCookie converts the value to the standard library cookie.
func (c *SetCookie) HTTPCookie() (*http.Cookie, error) {
	hc, err := http.ParseSetCookie(c.String())
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "set-cookie %q: %v", c.String(), err))
	}
	return hc, nil
}

func (c *SetCookie) RenderTo(w io.Writer) (num int, err error) {
	if c == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(c.Name, "=")
	if c.Quoted {
		cw.Fprint(`"`, c.Value, `"`)
	} else {
		cw.Fprint(c.Value)
	}
	for _, a := range c.Attrs {
		cw.Fprint("; ", a.String())
	}
	return errtrace.Wrap2(cw.Result())
}

func (c *SetCookie) String() string {
	if c == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	c.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func (c *SetCookie) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, c.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(c.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, c.String())
			return
		}

		type hideMethods SetCookie
		type SetCookie hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*SetCookie)(c))
		return
	}
}

// Equal compares cookies by name, value and attribute set ignoring attribute order.
func (c *SetCookie) Equal(val any) bool {
	var other *SetCookie
	switch v := val.(type) {
	case SetCookie:
		other = &v
	case *SetCookie:
		other = v
	default:
		return false
	}

	if c == other {
		return true
	} else if c == nil || other == nil {
		return false
	}

	if c.Name != other.Name || c.Value != other.Value || len(c.Attrs) != len(other.Attrs) {
		return false
	}
	for _, a := range c.Attrs {
		i := other.attrIndex(a.Name)
		if i < 0 || other.Attrs[i].Value != a.Value || other.Attrs[i].HasValue != a.HasValue {
			return false
		}
	}
	return true
}

func (c *SetCookie) IsValid() bool {
	if c == nil || !grammar.IsToken(c.Name) {
		return false
	}
	for _, a := range c.Attrs {
		if !grammar.IsToken(a.Name) || strings.ContainsRune(a.Value, ';') {
			return false
		}
	}
	return !strings.ContainsAny(c.Value, `;"`)
}

func (c *SetCookie) Clone() *SetCookie {
	if c == nil {
		return nil
	}
	c2 := *c
	c2.Attrs = append([]CookieAttr(nil), c.Attrs...)
	return &c2
}

func formatSetCookie(c *SetCookie) (string, error) {
	if !c.IsValid() {
		return "", errtrace.Wrap(NewInvalidValueError("invalid set-cookie %q", c.String()))
	}
	return c.String(), nil
}

// SetCookieDelegate converts Set-Cookie header values.
var SetCookieDelegate = NewDelegate(KindSetCookie, ParseSetCookie, formatSetCookie)
