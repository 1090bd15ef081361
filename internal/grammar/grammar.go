// Package grammar implements the lexical rules of HTTP field values (RFC 9110 Section 5.6)
// shared by the header parsers.
package grammar

//go:generate go tool errtrace -w .

import "strings"

// Input is a field value or its part, as received or as stored.
type Input interface {
	~string | ~[]byte
}

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
	ErrNodeNotFound   Error = "node not found"
)

// IsToken reports whether s is a non-empty RFC 9110 token.
func IsToken[T Input](s T) bool { return matchAll(token, []byte(s)) }

// IsQuoted reports whether s is a complete RFC 9110 quoted-string.
func IsQuoted[T Input](s T) bool { return matchAll(quotedString, []byte(s)) }

var quoteRpl = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote wraps s into a quoted-string escaping backslashes and double quotes.
func Quote(s string) string { return `"` + quoteRpl.Replace(s) + `"` }

// Unquote removes a single layer of surrounding double quotes and
// unescapes quoted-pairs. Unquoted input is returned as is.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// NeedsQuote reports whether a parameter value must be quoted when rendered.
func NeedsQuote(s string) bool { return !IsToken(s) }

// QuoteIfNeeded quotes s only when it is not a token.
func QuoteIfNeeded(s string) string {
	if NeedsQuote(s) {
		return Quote(s)
	}
	return s
}

// SplitList splits a folded field value on sep occurring outside of quoted strings.
// Elements are trimmed of optional whitespace and empty elements are skipped.
func SplitList(s string, sep byte) []string {
	var (
		out    []string
		start  int
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case !quoted && c == sep:
			if v := strings.Trim(s[start:i], " \t"); v != "" {
				out = append(out, v)
			}
			start = i + 1
		}
	}
	if v := strings.Trim(s[start:], " \t"); v != "" {
		out = append(out, v)
	}
	return out
}
