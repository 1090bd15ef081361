package header

import (
	"net/http"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ParseDate parses an HTTP-date in any of the formats allowed by RFC 9110 Section 5.6.7.
func ParseDate(s string) (time.Time, error) {
	t, err := http.ParseTime(util.TrimOWS(s))
	if err != nil {
		return time.Time{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "date %q", s))
	}
	return t, nil
}

// FormatDate renders t in the IMF-fixdate format.
func FormatDate(t time.Time) (string, error) {
	if t.IsZero() {
		return "", errtrace.Wrap(NewInvalidValueError("zero date"))
	}
	return t.UTC().Format(http.TimeFormat), nil
}

// DateDelegate converts values of date headers like Date, Expires or Last-Modified.
var DateDelegate = NewDelegate(KindDate, ParseDate, FormatDate)
