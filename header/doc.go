// Package header provides an HTTP header map with two coupled faces, typed header values
// and content negotiation.
//
// # Overview
//
// [Headers] is a case-insensitive multi-valued map. Every header keeps one ordered list
// of values exposed through the string face ([Headers]) and the typed face ([Mirror]).
// Both faces always describe the same values:
//
//	h := header.New(nil)
//	h.Add("Accept", "text/html;q=0.8, application/json;q=0.9")
//	mts, err := h.Accept() // [application/json;q=0.9 text/html;q=0.8]
//
// Values of weighted headers (Accept, Accept-Charset, Accept-Encoding, Accept-Language, TE)
// are kept ordered by descending quality, equal qualities keep their insertion order.
//
// # Header names
//
// Header names are compared case-insensitively, [Key] returns the lookup key of a name.
// [Headers.Names] returns names with the casing of their first writer.
//
// # Conversion
//
// String values are parsed on the first typed access unless [Options.Strict] is set.
// Typed values are formatted when added, a value that can not be formatted is rejected
// and the map stays untouched.
//
// The [Registry] maps header names to delegates converting values. The table of headers
// with dedicated delegates is returned by [DefaultSpecs]:
//
//	media type      Accept, Content-Type
//	token           Accept-Charset, Accept-Encoding, TE, Content-Encoding, Transfer-Encoding,
//	                Vary, Allow, Connection
//	locale          Accept-Language, Content-Language
//	date            Date, Expires, Last-Modified, If-Modified-Since, If-Unmodified-Since
//	retry-after     Retry-After (delta-seconds first, then HTTP-date)
//	cache-control   Cache-Control
//	cookie          Cookie (";" delimited)
//	set-cookie      Set-Cookie (never folded)
//	uri             Location, Content-Location, Referer
//	integer         Content-Length, Age, Max-Forwards
//	priority        Priority (RFC 9218 structured field)
//
// Values of other headers try the date, media type, cache-control, language and
// absolute URI formats in order and fall back to the string itself.
//
// Additional delegates are registered with [Register] or passed through a separate
// registry built with [NewRegistry]. Conflicting registrations are reported immediately.
//
// # Negotiation
//
// [MediaType.IsCompatible] and [MediaType.Merge] implement the media type compatibility rules
// including wildcards and structured syntax suffixes: "application/*+xml" is compatible with
// "application/atom+xml". [BestMatch] selects the offered media type preferred by the
// requested list, [BestToken] and [BestLanguage] do the same for charsets, codings and languages.
//
// # References
//
//   - RFC 9110 - HTTP Semantics
//   - RFC 9111 - HTTP Caching
//   - RFC 6265 - HTTP State Management Mechanism
//   - RFC 6838 Section 4.2.8 - Structured Syntax Name Suffixes
//   - RFC 9218 - Extensible Prioritization Scheme for HTTP
package header
