package header

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Spec describes how a group of headers is converted and folded.
type Spec struct {
	// Names lists header names sharing the delegate.
	Names []string
	// Delegate converts values of the headers.
	Delegate Delegate
	// List tells that a header line holds a list of values separated by Delim.
	List bool
	// Delim is the list delimiter, ',' if zero.
	Delim byte
	// Weighted tells that list values carry the "q" parameter and are kept ordered by it.
	Weighted bool
}

// FieldInfo is the registry entry of a header name.
type FieldInfo struct {
	// Name is the lookup key of the header.
	Name string
	// Delegate is nil for headers without a registered delegate.
	Delegate Delegate
	List     bool
	// Delim is the delimiter used to fold several values into one line.
	// Zero means values must be emitted as separate lines.
	Delim    byte
	Weighted bool
}

// RegistryOptions are options of [NewRegistry].
type RegistryOptions struct {
	// Log is used to log lookups of unknown headers.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *RegistryOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// Registry maps header names and typed value types to delegates.
// It is immutable once built and safe for concurrent use.
type Registry struct {
	opts  RegistryOptions
	specs []Spec
	names map[string]FieldInfo
	types map[reflect.Type]Delegate
}

// NewRegistry builds a registry from specs.
// Conflicts are reported eagerly: a header name claimed by two specs,
// a value type produced by two different delegates or a spec without a delegate.
func NewRegistry(opts *RegistryOptions, specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs: slices.Clone(specs),
		names: make(map[string]FieldInfo),
		types: make(map[reflect.Type]Delegate),
	}
	if opts != nil {
		r.opts = *opts
	}

	var errs []error
	for i, s := range specs {
		if s.Delegate == nil {
			errs = append(errs, fmt.Errorf("spec #%d %v: missing delegate", i, s.Names))
			continue
		}

		delim := s.Delim
		if delim == 0 && s.List {
			delim = ','
		}
		for _, n := range s.Names {
			k := Key(n)
			if !ValidName(k) {
				errs = append(errs, errorutil.NewInvalidArgumentError("spec #%d: invalid header name %q", i, n))
				continue
			}
			if _, ok := r.names[k]; ok {
				errs = append(errs, fmt.Errorf("spec #%d: header %q is already registered", i, n))
				continue
			}
			r.names[k] = FieldInfo{
				Name:     k,
				Delegate: s.Delegate,
				List:     s.List,
				Delim:    delim,
				Weighted: s.Weighted,
			}
		}

		t := s.Delegate.Type()
		if d, ok := r.types[t]; ok && d != s.Delegate {
			errs = append(errs, fmt.Errorf("spec #%d: type %s is already served by another %s delegate", i, t, d.Kind()))
			continue
		}
		r.types[t] = s.Delegate
	}
	if err := errorutil.JoinPrefix("build header registry:", errs...); err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrRegistryConflict, err))
	}

	r.log().Debug("header registry built", "headers", len(r.names), "types", len(r.types))
	return r, nil
}

func (r *Registry) log() *slog.Logger {
	if r == nil {
		return log.Default()
	}
	return r.opts.log()
}

// Extend returns a new registry with specs added. The receiver is not modified.
func (r *Registry) Extend(specs ...Spec) (*Registry, error) {
	return errtrace.Wrap2(NewRegistry(&r.opts, append(slices.Clone(r.specs), specs...)...))
}

// Specs returns specs the registry was built from.
func (r *Registry) Specs() []Spec { return slices.Clone(r.specs) }

// Lookup returns the entry of the header name.
// For unknown headers it returns an entry without a delegate folded with ',' and false.
func (r *Registry) Lookup(name string) (FieldInfo, bool) {
	k := Key(name)
	if r != nil {
		if fi, ok := r.names[k]; ok {
			return fi, true
		}
	}
	return FieldInfo{Name: k, Delim: ','}, false
}

// LookupType returns the delegate producing values of the dynamic type of v.
func (r *Registry) LookupType(v any) (Delegate, bool) {
	if r == nil || v == nil {
		return nil, false
	}
	d, ok := r.types[reflect.TypeOf(v)]
	return d, ok
}

// Delimiter returns the delimiter used to fold values of the header into one line.
// Zero means the values are emitted as separate lines.
func (r *Registry) Delimiter(name string) byte {
	fi, _ := r.Lookup(name)
	return fi.Delim
}

// Parse converts a single header value to the typed form.
// Headers without a registered delegate try the date, media type, cache-control,
// language and absolute URI formats in order and fall back to the value itself.
func (r *Registry) Parse(name, value string) (any, error) {
	fi, ok := r.Lookup(name)
	if !ok {
		return guessValue(value, r.log().With("header", fi.Name)), nil
	}
	return errtrace.Wrap2(fi.Delegate.Parse(value))
}

// Format converts a typed value to the header value.
// Strings are returned as is. Registered headers accept only values of their delegate,
// other headers are formatted by the delegate found for the value type.
func (r *Registry) Format(name string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	if fi, ok := r.Lookup(name); ok {
		return errtrace.Wrap2(fi.Delegate.Format(v))
	}
	d, ok := r.LookupType(v)
	if !ok {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrUnsupportedValue,
			"no delegate for %T of header %q", v, name))
	}
	return errtrace.Wrap2(d.Format(v))
}

// DefaultSpecs returns the table of headers with dedicated delegates.
func DefaultSpecs() []Spec {
	return []Spec{
		{Names: []string{"Accept"}, Delegate: MediaTypeDelegate, List: true, Weighted: true},
		{Names: []string{"Content-Type"}, Delegate: MediaTypeDelegate},
		{
			Names:    []string{"Accept-Charset", "Accept-Encoding", "TE"},
			Delegate: TokenDelegate,
			List:     true,
			Weighted: true,
		},
		{
			Names:    []string{"Content-Encoding", "Transfer-Encoding", "Vary", "Allow", "Connection"},
			Delegate: TokenDelegate,
			List:     true,
		},
		{Names: []string{"Accept-Language"}, Delegate: LanguageDelegate, List: true, Weighted: true},
		{Names: []string{"Content-Language"}, Delegate: LanguageDelegate, List: true},
		{
			Names:    []string{"Date", "Expires", "Last-Modified", "If-Modified-Since", "If-Unmodified-Since"},
			Delegate: DateDelegate,
		},
		{Names: []string{"Retry-After"}, Delegate: RetryAfterDelegate},
		{Names: []string{"Cache-Control"}, Delegate: CacheControlDelegate},
		{Names: []string{"Cookie"}, Delegate: CookieDelegate, List: true, Delim: ';'},
		{Names: []string{"Set-Cookie"}, Delegate: SetCookieDelegate},
		{Names: []string{"Location", "Content-Location", "Referer"}, Delegate: URIDelegate},
		{Names: []string{"Content-Length", "Age", "Max-Forwards"}, Delegate: IntegerDelegate},
		{Names: []string{"Priority"}, Delegate: PriorityDelegate},
		{Names: []string{"ETag", "Server", "User-Agent", "Host"}, Delegate: OpaqueDelegate},
	}
}

var defRegistry atomic.Pointer[Registry]

// DefaultRegistry returns the process-wide registry built from [DefaultSpecs]
// and any specs added with [Register].
func DefaultRegistry() *Registry {
	if r := defRegistry.Load(); r != nil {
		return r
	}
	defRegistry.CompareAndSwap(nil, util.Must2(NewRegistry(nil, DefaultSpecs()...)))
	return defRegistry.Load()
}

// Register adds specs to the process-wide registry.
// Readers holding the previous registry are not affected.
func Register(specs ...Spec) error {
	for {
		old := DefaultRegistry()
		r, err := old.Extend(specs...)
		if err != nil {
			return errtrace.Wrap(err)
		}
		if defRegistry.CompareAndSwap(old, r) {
			return nil
		}
	}
}

// String lists registered header names.
func (r *Registry) String() string {
	names := make([]string, 0, len(r.names))
	for k := range r.names {
		names = append(names, k)
	}
	slices.Sort(names)
	return "header.Registry[" + strings.Join(names, " ") + "]"
}
