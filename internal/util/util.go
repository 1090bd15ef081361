// Package util holds ASCII string helpers of header names and values.
package util

// Must2 returns v or panics with e. It is used for values built from static tables.
func Must2[T any](v T, e error) T {
	if e != nil {
		panic(e)
	}
	return v
}
