package header

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -destination=../internal/testutil/delegatemock/delegate.go -package=delegatemock . Delegate

import (
	"net/http"
	"net/url"
	"reflect"
	"slices"

	"braces.dev/errtrace"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

const (
	// ErrMalformedInput is wrapped by all parse errors.
	ErrMalformedInput = grammar.ErrMalformedInput
	// ErrEmptyInput is returned when a value is required but the input is blank.
	ErrEmptyInput = grammar.ErrEmptyInput
	// ErrInvalidValue is returned when a value is semantically invalid for a header.
	ErrInvalidValue errorutil.Error = "invalid header value"
	// ErrUnsupportedValue is returned when a typed value can not be formatted for a header.
	ErrUnsupportedValue errorutil.Error = "unsupported header value"
	// ErrRegistryConflict is returned when registry specs claim the same header name or value type.
	ErrRegistryConflict errorutil.Error = "header registry conflict"
)

// ParseError describes a malformed header value. It carries the offending offset.
type ParseError = grammar.ParseError

// NewInvalidValueError creates a new error with [ErrInvalidValue] or wraps provided error with it.
func NewInvalidValueError(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidValue, args...) //errtrace:skip
}

// Key returns the lookup key of a header name.
func Key[T ~string](name T) string { return util.LCase(util.TrimOWS(string(name))) }

// ValidName checks whether name is a valid header field name.
func ValidName(name string) bool { return httpguts.ValidHeaderFieldName(name) }

// Kind classifies typed representations of header values.
type Kind uint8

const (
	KindOpaque Kind = iota
	KindMediaType
	KindToken
	KindLocale
	KindDate
	KindRetryAfter
	KindCacheControl
	KindCookie
	KindSetCookie
	KindURI
	KindInteger
	KindPriority
)

var kindNames = [...]string{
	KindOpaque:       "opaque-string",
	KindMediaType:    "media-type",
	KindToken:        "token",
	KindLocale:       "locale",
	KindDate:         "date",
	KindRetryAfter:   "retry-after",
	KindCacheControl: "cache-control",
	KindCookie:       "cookie",
	KindSetCookie:    "set-cookie",
	KindURI:          "uri",
	KindInteger:      "integer",
	KindPriority:     "priority",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Delegate converts header values between the wire text and a typed representation.
// Delegates are compared by identity, so implementations must be comparable.
type Delegate interface {
	// Kind returns the kind of produced values.
	Kind() Kind
	// Type returns the dynamic type of produced values.
	Type() reflect.Type
	// Parse converts a single header value to the typed form.
	Parse(s string) (any, error)
	// Format converts a typed value back to the header value.
	Format(v any) (string, error)
}

// NewDelegate creates a [Delegate] producing values of type T.
func NewDelegate[T any](kind Kind, parse func(string) (T, error), format func(T) (string, error)) Delegate {
	return &delegate[T]{kind: kind, parse: parse, format: format}
}

type delegate[T any] struct {
	kind   Kind
	parse  func(string) (T, error)
	format func(T) (string, error)
}

func (d *delegate[T]) Kind() Kind { return d.kind }

func (*delegate[T]) Type() reflect.Type { return reflect.TypeFor[T]() }

func (d *delegate[T]) Parse(s string) (any, error) {
	v, err := d.parse(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return v, nil
}

func (d *delegate[T]) Format(v any) (string, error) {
	t, ok := v.(T)
	if !ok {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrUnsupportedValue,
			"got %T, want %s", v, reflect.TypeFor[T]()))
	}
	return errtrace.Wrap2(d.format(t))
}

// CloneValue returns a deep copy of a typed header value.
func CloneValue(v any) any {
	switch v := v.(type) {
	case *MediaType:
		return v.Clone()
	case *Token:
		return v.Clone()
	case *Language:
		return v.Clone()
	case *CacheControl:
		return v.Clone()
	case *SetCookie:
		return v.Clone()
	case *RetryAfter:
		return v.Clone()
	case *Priority:
		return v.Clone()
	case *http.Cookie:
		if v == nil {
			return v
		}
		c := *v
		c.Unparsed = slices.Clone(v.Unparsed)
		return &c
	case *url.URL:
		if v == nil {
			return v
		}
		u := *v
		if v.User != nil {
			ui := *v.User
			u.User = &ui
		}
		return &u
	default:
		return v
	}
}
