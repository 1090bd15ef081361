package header

import (
	"net/url"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ParseURI parses an absolute or relative URI reference of headers like Location or Referer.
func ParseURI(s string) (*url.URL, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrEmptyInput, "uri"))
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, err))
	}
	return u, nil
}

func formatURI(u *url.URL) (string, error) {
	if u == nil {
		return "", errtrace.Wrap(NewInvalidValueError("nil uri"))
	}
	return u.String(), nil
}

// URIDelegate converts values of URI headers like Location, Content-Location or Referer.
var URIDelegate = NewDelegate(KindURI, ParseURI, formatURI)
