package header_test

import (
	"testing"

	"github.com/ghettovoice/httphdr/header"
)

func TestMediaType_IsCompatible(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{"application/*", "application/json", true},
		{"text/*", "application/json", false},
		{"*/*", "image/png", true},
		{"*/json", "application/json", true},
		{"application/json", "application/xml", false},
		{"application/*+xml", "application/atom+xml", true},
		{"application/*+xml", "application/json", false},
		{"application/*+json", "application/vnd.api+json", true},
		{"*/*+json", "application/ld+json", true},
		{"application/vnd.api+json", "application/json", true},
		{"application/vnd.a+json", "application/vnd.b+json", true},
		{"application/vnd.a+json", "application/vnd.a+xml", false},
		{"application/json;charset=utf-8", "application/json;charset=UTF-8", true},
		{"application/json;charset=utf-8", "application/json;charset=latin1", false},
		{"application/json;charset=utf-8", "application/json;version=2", true},
		{"application/json;q=0.1", "application/json", true},
		{"multipart/mixed;boundary=abc", "multipart/mixed;boundary=abc", true},
		{"multipart/mixed;boundary=abc", "multipart/mixed;boundary=ABC", false},
		{"text/plain;Charset=UTF-8", "text/plain;charset=utf-8", true},
	}

	for _, c := range cases {
		t.Run(c.a+" ~ "+c.b, func(t *testing.T) {
			t.Parallel()

			a, b := mustMediaType(t, c.a), mustMediaType(t, c.b)
			if got := a.IsCompatible(b); got != c.want {
				t.Errorf("a.IsCompatible(b) = %v, want %v", got, c.want)
			}
			if got := b.IsCompatible(a); got != c.want {
				t.Errorf("b.IsCompatible(a) = %v, want %v", got, c.want)
			}
		})
	}

	var nilMT *header.MediaType
	if nilMT.IsCompatible(header.NewMediaType("*", "*")) {
		t.Errorf("nil.IsCompatible() = true, want false")
	}
}

func TestMediaType_Merge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want string
	}{
		{"application/*", "application/json", "application/json"},
		{"application/json", "application/*", "application/json"},
		{"*/*", "text/html;level=1", "text/html;level=1"},
		{"*/*;q=0.3", "text/html;q=0.5", "text/html"},
		{"application/*+xml", "application/atom+xml", "application/atom+xml"},
		{"*/*+json", "application/*", "application/*+json"},
		{"text/*;b=2", "text/html;a=1", "text/html;a=1;b=2"},
		{"text/html;a=1", "text/html;b=2", "text/html;a=1;b=2"},
		{"application/vnd.a+json", "application/json", "application/vnd.a+json"},
	}

	for _, c := range cases {
		t.Run(c.a+" & "+c.b, func(t *testing.T) {
			t.Parallel()

			got, ok := mustMediaType(t, c.a).Merge(mustMediaType(t, c.b))
			if !ok {
				t.Fatalf("a.Merge(b) = _, false, want _, true")
			}
			if got.HeaderString() != c.want {
				t.Errorf("a.Merge(b) = %q, want %q", got.HeaderString(), c.want)
			}
			if got.HasQ {
				t.Errorf("a.Merge(b).HasQ = true, want false")
			}
		})
	}

	if got, ok := mustMediaType(t, "text/*").Merge(mustMediaType(t, "application/json")); ok {
		t.Errorf("text/*.Merge(application/json) = %q, true, want nil, false", got)
	}
}
