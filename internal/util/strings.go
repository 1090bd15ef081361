package util

import (
	"strings"
	"sync"
	"unicode/utf8"
)

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// LCase lowercases ASCII letters of s. Other bytes are kept as is.
// The input is returned without allocation when it has no upper case letters.
func LCase[T ~string](s T) T {
	i := 0
	for i < len(s) && lower(s[i]) == s[i] {
		i++
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		b[i] = lower(b[i])
	}
	return T(b)
}

// EqFold compares s1 and s2 ignoring the case of ASCII letters.
// Unlike [strings.EqualFold] it never folds non-ASCII runes, as HTTP tokens are ASCII.
func EqFold[T1, T2 ~string](s1 T1, s2 T2) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := 0; i < len(s1); i++ {
		if lower(s1[i]) != lower(s2[i]) {
			return false
		}
	}
	return true
}

// TrimOWS trims optional whitespace (SP / HTAB) from both ends of s.
func TrimOWS[T ~string](s T) T { return T(strings.Trim(string(s), " \t")) }

// Ellipsis cuts s to at most n bytes on a rune boundary and marks the cut with "...".
func Ellipsis(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

const maxPooledBuilder = 4 << 10

var builders = sync.Pool{
	New: func() any {
		sb := new(strings.Builder)
		sb.Grow(128)
		return sb
	},
}

// GetStringBuilder returns an empty builder from the pool.
func GetStringBuilder() *strings.Builder {
	return builders.Get().(*strings.Builder) //nolint:forcetypeassert
}

// FreeStringBuilder returns sb to the pool. Builders grown over 4 KiB are dropped.
func FreeStringBuilder(sb *strings.Builder) {
	if sb.Cap() > maxPooledBuilder {
		return
	}
	sb.Reset()
	builders.Put(sb)
}
