package header

import (
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ParseInteger parses a non-negative decimal header value like Content-Length or Age.
func ParseInteger(s string) (int64, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrEmptyInput, "integer"))
	}
	if s[0] == '+' {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "integer %q", s))
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "integer %q", s))
	}
	return n, nil
}

// FormatInteger renders a non-negative header integer.
func FormatInteger(n int64) (string, error) {
	if n < 0 {
		return "", errtrace.Wrap(NewInvalidValueError("negative integer %d", n))
	}
	return strconv.FormatInt(n, 10), nil
}

// IntegerDelegate converts values of integer headers like Content-Length, Age or Max-Forwards.
var IntegerDelegate = NewDelegate(KindInteger, ParseInteger, FormatInteger)
