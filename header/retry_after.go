package header

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// RetryAfter is a Retry-After header value: either a delay or an HTTP-date.
type RetryAfter struct {
	Delay time.Duration
	Date  time.Time
}

// maxDelaySeconds is the longest delay representable as [time.Duration].
const maxDelaySeconds = math.MaxInt64 / int64(time.Second)

// ParseRetryAfter parses a Retry-After value. Delta-seconds are tried first, then an HTTP-date.
// Delays longer than [time.Duration] can hold are rejected.
func ParseRetryAfter(s string) (*RetryAfter, error) {
	s = util.TrimOWS(s)
	if s != "" && strings.Trim(s, "0123456789") == "" {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil || sec > maxDelaySeconds {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput,
				"retry-after %q: delay out of range", s))
		}
		return &RetryAfter{Delay: time.Duration(sec) * time.Second}, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &RetryAfter{Date: t}, nil
}

// IsDate reports whether the value holds an HTTP-date.
func (ra *RetryAfter) IsDate() bool { return ra != nil && !ra.Date.IsZero() }

// Until returns the time left to wait counting from now.
func (ra *RetryAfter) Until(now time.Time) time.Duration {
	if ra == nil {
		return 0
	}
	if ra.IsDate() {
		return max(ra.Date.Sub(now), 0)
	}
	return ra.Delay
}

func (ra *RetryAfter) String() string {
	if ra == nil {
		return ""
	}
	if ra.IsDate() {
		s, _ := FormatDate(ra.Date)
		return s
	}
	return strconv.FormatInt(int64(ra.Delay/time.Second), 10)
}

func (ra *RetryAfter) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, ra.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(ra.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, ra.String())
			return
		}

		type hideMethods RetryAfter
		type RetryAfter hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*RetryAfter)(ra))
		return
	}
}

func (ra *RetryAfter) Equal(val any) bool {
	var other *RetryAfter
	switch v := val.(type) {
	case RetryAfter:
		other = &v
	case *RetryAfter:
		other = v
	default:
		return false
	}

	if ra == other {
		return true
	} else if ra == nil || other == nil {
		return false
	}

	return ra.Delay == other.Delay && ra.Date.Equal(other.Date)
}

func (ra *RetryAfter) IsValid() bool { return ra != nil && ra.Delay >= 0 }

func (ra *RetryAfter) Clone() *RetryAfter {
	if ra == nil {
		return nil
	}
	ra2 := *ra
	return &ra2
}

func formatRetryAfter(ra *RetryAfter) (string, error) {
	if !ra.IsValid() {
		return "", errtrace.Wrap(NewInvalidValueError("invalid retry-after %+v", ra))
	}
	return ra.String(), nil
}

// RetryAfterDelegate converts Retry-After header values.
var RetryAfterDelegate = NewDelegate(KindRetryAfter, ParseRetryAfter, formatRetryAfter)
