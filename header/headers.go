package header

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"braces.dev/errtrace"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/mirror"
	"github.com/ghettovoice/httphdr/quality"
)

// Options are options of [Headers].
type Options struct {
	// Registry converts header values. If nil, the [DefaultRegistry] is used.
	Registry *Registry
	// Strict makes string mutations parse values eagerly and reject unparsable ones.
	// By default values are parsed on the first typed access.
	Strict bool
	// Log is used to log failed conversions.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *Options) registry() *Registry {
	if o == nil || o.Registry == nil {
		return DefaultRegistry()
	}
	return o.Registry
}

func (o *Options) strict() bool { return o != nil && o.Strict }

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

type values = mirror.List[string, any]

type entry struct {
	// name keeps the casing of the first writer.
	name string
	info FieldInfo
	vals *values
}

// Headers is a case-insensitive multi-valued header map.
//
// Every header keeps one ordered list of values exposed through two faces:
// the wire strings served by Headers itself and the typed values served by [Mirror].
// Both faces always describe the same values. Values of weighted headers like Accept
// are kept ordered by descending quality.
//
// The zero value is ready to use with default options.
type Headers struct {
	opts    Options
	mu      sync.RWMutex
	entries map[string]*entry
	keys    []string
}

// New creates an empty header map.
func New(opts *Options) *Headers {
	h := &Headers{}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *Headers) reg() *Registry { return h.opts.registry() }

func (h *Headers) log() *slog.Logger { return h.opts.log() }

func (h *Headers) newValues(info FieldInfo) *values {
	reg, logger := h.reg(), h.log()
	conv := mirror.Converter[string, any]{
		ToR: func(s string) (any, error) {
			v, err := reg.Parse(info.Name, s)
			if err != nil {
				lvl := slog.LevelWarn
				if errorutil.IsGrammarErr(err) {
					lvl = slog.LevelDebug
				}
				logger.Log(context.Background(), lvl, "failed to parse header value",
					"header", info.Name, "value", util.Ellipsis(s, 64), "error", err)
				return nil, errtrace.Wrap(err)
			}
			return v, nil
		},
		ToV: func(v any) (string, error) {
			return errtrace.Wrap2(reg.Format(info.Name, v))
		},
		CloneR: CloneValue,
	}
	if info.Weighted {
		return mirror.New(conv, quality.Param(), quality.Of[any]())
	}
	return mirror.New(conv, nil, nil)
}

func (h *Headers) split(info FieldInfo, value string) []string {
	if info.List {
		return grammar.SplitList(value, info.Delim)
	}
	return []string{util.TrimOWS(value)}
}

// load inserts v at position i. Strings are split into list elements and,
// unless the map is strict, left unparsed.
func (h *Headers) load(vals *values, info FieldInfo, i int, v any) error {
	s, ok := v.(string)
	if !ok {
		return errtrace.Wrap(vals.Mirrored().InsertAll(i, v))
	}
	if !httpguts.ValidHeaderFieldValue(s) {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid value %q of header %q", s, info.Name))
	}
	parts := h.split(info, s)
	if h.opts.strict() {
		return errtrace.Wrap(vals.Primary().InsertAll(i, parts...))
	}
	return errtrace.Wrap(vals.Primary().LoadAt(i, parts...))
}

// update runs fn over the values of the header. With replace set, fn gets a new empty
// list which replaces the current one only if fn succeeds.
func (h *Headers) update(name string, replace bool, fn func(vals *values, info FieldInfo) error) error {
	name = util.TrimOWS(name)
	if !ValidName(name) {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid header name %q", name))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	info, _ := h.reg().Lookup(name)
	e := h.entries[info.Name]
	var vals *values
	if e == nil || replace {
		vals = h.newValues(info)
	} else {
		vals = e.vals
	}
	if err := fn(vals, info); err != nil {
		return errtrace.Wrap(err)
	}

	switch {
	case vals.Len() == 0:
		h.del(info.Name)
	case e == nil:
		if h.entries == nil {
			h.entries = make(map[string]*entry)
		}
		h.entries[info.Name] = &entry{name: name, info: info, vals: vals}
		h.keys = append(h.keys, info.Name)
	case replace:
		// entries are read without h.mu, never mutate them in place
		h.entries[info.Name] = &entry{name: e.name, info: info, vals: vals}
	}
	return nil
}

func (h *Headers) del(key string) {
	if _, ok := h.entries[key]; !ok {
		return
	}
	delete(h.entries, key)
	h.keys = slices.DeleteFunc(h.keys, func(k string) bool { return k == key })
}

func (h *Headers) get(name string) *entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[Key(name)]
}

// Add appends the value to the header. List headers are split on their delimiter,
// so "Accept: a, b" and two "Accept" lines give the same values.
func (h *Headers) Add(name, value string) error {
	return errtrace.Wrap(h.update(name, false, func(vals *values, info FieldInfo) error {
		return errtrace.Wrap(h.load(vals, info, vals.Len(), value))
	}))
}

// AddFirst inserts the value before the existing values of the header.
// Values of weighted headers still keep the quality order.
func (h *Headers) AddFirst(name, value string) error {
	return errtrace.Wrap(h.update(name, false, func(vals *values, info FieldInfo) error {
		return errtrace.Wrap(h.load(vals, info, 0, value))
	}))
}

// Set replaces all values of the header with the value.
func (h *Headers) Set(name, value string) error {
	return errtrace.Wrap(h.update(name, true, func(vals *values, info FieldInfo) error {
		return errtrace.Wrap(h.load(vals, info, 0, value))
	}))
}

// Get returns the first value of the header or an empty string.
func (h *Headers) Get(name string) string {
	e := h.get(name)
	if e == nil {
		return ""
	}
	v, _ := e.vals.Primary().Get(0)
	return v
}

// Values returns all values of the header in order.
func (h *Headers) Values(name string) []string {
	e := h.get(name)
	if e == nil {
		return nil
	}
	// strings are always present, typed values are formatted when added
	vs, _ := e.vals.Primary().Values()
	return vs
}

// Has checks whether the header is present.
func (h *Headers) Has(name string) bool { return h.get(name) != nil }

// Del removes the header.
func (h *Headers) Del(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.del(Key(name))
}

// Clear removes all headers.
func (h *Headers) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.entries)
	h.keys = nil
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.keys)
}

// Names returns header names in order of appearance with the casing of their first writer.
func (h *Headers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, len(h.keys))
	for i, k := range h.keys {
		names[i] = h.entries[k].name
	}
	return names
}

func (h *Headers) snapshot() []*entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	es := make([]*entry, len(h.keys))
	for i, k := range h.keys {
		es[i] = h.entries[k]
	}
	return es
}

// All iterates over headers and their values in order of appearance.
func (h *Headers) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, e := range h.snapshot() {
			vs, _ := e.vals.Primary().Values()
			if !yield(e.name, vs) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the map. Values lists are copied, not shared.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h2 := &Headers{opts: h.opts, keys: slices.Clone(h.keys)}
	if h.entries != nil {
		h2.entries = make(map[string]*entry, len(h.entries))
		for k, e := range h.entries {
			h2.entries[k] = &entry{name: e.name, info: e.info, vals: e.vals.Clone()}
		}
	}
	return h2
}

// Delimiter returns the delimiter used to fold values of the header into one line.
// Zero means the values are emitted as separate lines.
func (h *Headers) Delimiter(name string) byte { return h.reg().Delimiter(name) }

func joinLines(vs []string, delim byte) []string {
	if delim == 0 || len(vs) < 2 {
		return vs
	}
	return []string{strings.Join(vs, string(delim)+" ")}
}

// Lines returns the field lines of the header as they are emitted on the wire.
func (h *Headers) Lines(name string) []string {
	e := h.get(name)
	if e == nil {
		return nil
	}
	vs, _ := e.vals.Primary().Values()
	return joinLines(vs, e.info.Delim)
}

// RenderTo writes headers as "Name: value" lines terminated with CRLF.
func (h *Headers) RenderTo(w io.Writer) (num int, err error) {
	if h == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, e := range h.snapshot() {
		vs, _ := e.vals.Primary().Values()
		for _, l := range joinLines(vs, e.info.Delim) {
			cw.Fprint(e.name, ": ", l, "\r\n")
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns headers as "Name: value" lines terminated with CRLF.
func (h *Headers) Render() string {
	if h == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	h.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func (h *Headers) String() string { return h.Render() }

func (h *Headers) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		fmt.Fprint(f, h.Render())
	case 'q':
		fmt.Fprintf(f, "%q", h.Render())
	default:
		fmt.Fprintf(f, "%%!%c(*header.Headers)", verb)
	}
}

// LogValue implements [slog.LogValuer].
func (h *Headers) LogValue() slog.Value {
	if h == nil {
		return slog.Value{}
	}

	es := h.snapshot()
	attrs := make([]slog.Attr, 0, len(es))
	for _, e := range es {
		vs, _ := e.vals.Primary().Values()
		attrs = append(attrs, slog.String(e.name, strings.Join(joinLines(vs, e.info.Delim), "\n")))
	}
	return slog.GroupValue(attrs...)
}

// Mirror returns the typed face of the map.
func (h *Headers) Mirror() *Mirror { return &Mirror{h: h} }

func typedValues[T any](h *Headers, name string) ([]T, error) {
	vs, err := h.Mirror().Values(name)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	ts := make([]T, 0, len(vs))
	for _, v := range vs {
		t, ok := v.(T)
		if !ok {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnsupportedValue,
				"header %q: got %T, want %T", name, v, *new(T)))
		}
		ts = append(ts, t)
	}
	return ts, nil
}

func firstTyped[T any](h *Headers, name string) (T, bool, error) {
	var zero T
	if !h.Has(name) {
		return zero, false, nil
	}
	v, err := h.Mirror().Get(name)
	if err != nil {
		return zero, false, errtrace.Wrap(err)
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, errtrace.Wrap(errorutil.NewWrapperError(ErrUnsupportedValue,
			"header %q: got %T, want %T", name, v, zero))
	}
	return t, true, nil
}

// Accept returns media types of the Accept header ordered by descending quality.
func (h *Headers) Accept() ([]*MediaType, error) {
	return errtrace.Wrap2(typedValues[*MediaType](h, "Accept"))
}

// ContentType returns the Content-Type header or nil.
func (h *Headers) ContentType() (*MediaType, error) {
	mt, _, err := firstTyped[*MediaType](h, "Content-Type")
	return mt, errtrace.Wrap(err)
}

// AcceptLanguage returns languages of the Accept-Language header ordered by descending quality.
func (h *Headers) AcceptLanguage() ([]*Language, error) {
	return errtrace.Wrap2(typedValues[*Language](h, "Accept-Language"))
}

// AcceptCharset returns charsets of the Accept-Charset header ordered by descending quality.
func (h *Headers) AcceptCharset() ([]*Token, error) {
	return errtrace.Wrap2(typedValues[*Token](h, "Accept-Charset"))
}

// AcceptEncoding returns codings of the Accept-Encoding header ordered by descending quality.
func (h *Headers) AcceptEncoding() ([]*Token, error) {
	return errtrace.Wrap2(typedValues[*Token](h, "Accept-Encoding"))
}

// CacheControl returns directives of all Cache-Control lines merged in order or nil.
func (h *Headers) CacheControl() (*CacheControl, error) {
	ccs, err := typedValues[*CacheControl](h, "Cache-Control")
	if err != nil || len(ccs) == 0 {
		return nil, errtrace.Wrap(err)
	}
	cc := ccs[0].Clone()
	for _, c := range ccs[1:] {
		cc.Merge(c)
	}
	return cc, nil
}

// Date returns the Date header or the zero time.
func (h *Headers) Date() (time.Time, error) {
	t, _, err := firstTyped[time.Time](h, "Date")
	return t, errtrace.Wrap(err)
}

// RetryAfter returns the Retry-After header or nil.
func (h *Headers) RetryAfter() (*RetryAfter, error) {
	ra, _, err := firstTyped[*RetryAfter](h, "Retry-After")
	return ra, errtrace.Wrap(err)
}

// ContentLength returns the Content-Length header or -1 if it is absent.
func (h *Headers) ContentLength() (int64, error) {
	n, ok, err := firstTyped[int64](h, "Content-Length")
	if err != nil {
		return -1, errtrace.Wrap(err)
	}
	if !ok {
		return -1, nil
	}
	return n, nil
}

// Cookies returns pairs of all Cookie headers.
func (h *Headers) Cookies() ([]*http.Cookie, error) {
	return errtrace.Wrap2(typedValues[*http.Cookie](h, "Cookie"))
}

// SetCookies returns values of all Set-Cookie headers.
func (h *Headers) SetCookies() ([]*SetCookie, error) {
	return errtrace.Wrap2(typedValues[*SetCookie](h, "Set-Cookie"))
}

// NegotiateMediaType selects the offered media type preferred by the Accept header.
// Without the Accept header the first offered type is selected.
// The result is nil if nothing offered is acceptable.
func (h *Headers) NegotiateMediaType(offered ...*MediaType) (*MediaType, error) {
	if !h.Has("Accept") {
		if len(offered) == 0 {
			return nil, nil
		}
		return offered[0], nil
	}

	accept, err := h.Accept()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	m, ok := BestMatch(accept, offered)
	if !ok {
		h.log().Debug("no acceptable media type", "accept", accept, "offered", offered)
		return nil, nil
	}
	return m.Result, nil
}
