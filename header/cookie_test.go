package header_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httphdr/header"
)

func TestParseCookie(t *testing.T) {
	t.Parallel()

	c, err := header.ParseCookie(" sid=abc ")
	if err != nil {
		t.Fatalf("header.ParseCookie() error = %v, want nil", err)
	}
	if c.Name != "sid" || c.Value != "abc" {
		t.Errorf("header.ParseCookie() = %s=%s, want sid=abc", c.Name, c.Value)
	}

	for _, in := range []string{"", "a=1; b=2", "bad name=1"} {
		if _, err := header.ParseCookie(in); !errors.Is(err, header.ErrMalformedInput) {
			t.Errorf("header.ParseCookie(%q) error = %v, want %v", in, err, header.ErrMalformedInput)
		}
	}
}

func TestCookieDelegate(t *testing.T) {
	t.Parallel()

	s, err := header.CookieDelegate.Format(&http.Cookie{Name: "a", Value: "b", Path: "/ignored"})
	if err != nil {
		t.Fatalf("header.CookieDelegate.Format() error = %v, want nil", err)
	}
	if s != "a=b" {
		t.Errorf("header.CookieDelegate.Format() = %q, want %q", s, "a=b")
	}

	if _, err := header.CookieDelegate.Format(&http.Cookie{Name: "a b"}); !errors.Is(err, header.ErrInvalidValue) {
		t.Errorf("header.CookieDelegate.Format(invalid) error = %v, want %v", err, header.ErrInvalidValue)
	}
	if _, err := header.CookieDelegate.Format("a=b"); !errors.Is(err, header.ErrUnsupportedValue) {
		t.Errorf("header.CookieDelegate.Format(string) error = %v, want %v", err, header.ErrUnsupportedValue)
	}
}

func TestParseSetCookie(t *testing.T) {
	t.Parallel()

	in := "id=a3fWa; Expires=Wed, 21 Oct 2015 07:28:00 GMT; Secure; HttpOnly; Path=/"
	sc, err := header.ParseSetCookie(in)
	if err != nil {
		t.Fatalf("header.ParseSetCookie() error = %v, want nil", err)
	}

	want := &header.SetCookie{
		Name:  "id",
		Value: "a3fWa",
		Attrs: []header.CookieAttr{
			{Name: "Expires", Value: "Wed, 21 Oct 2015 07:28:00 GMT", HasValue: true},
			{Name: "Secure"},
			{Name: "HttpOnly"},
			{Name: "Path", Value: "/", HasValue: true},
		},
	}
	if diff := cmp.Diff(sc, want); diff != "" {
		t.Errorf("header.ParseSetCookie() mismatch (-got +want):\n%s", diff)
	}
	if got := sc.String(); got != in {
		t.Errorf("sc.String() = %q, want %q", got, in)
	}
	if v, ok := sc.Attr("path"); !ok || v != "/" {
		t.Errorf("sc.Attr(path) = %q, %v, want %q, true", v, ok, "/")
	}

	hc, err := sc.HTTPCookie()
	if err != nil {
		t.Fatalf("sc.HTTPCookie() error = %v, want nil", err)
	}
	if hc.Name != "id" || hc.Value != "a3fWa" || hc.Path != "/" || !hc.Secure || !hc.HttpOnly {
		t.Errorf("sc.HTTPCookie() = %+v, want id=a3fWa with Path, Secure and HttpOnly", hc)
	}
	if want := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC); !hc.Expires.Equal(want) {
		t.Errorf("sc.HTTPCookie().Expires = %v, want %v", hc.Expires, want)
	}

	sc.SetAttr("PATH", "/api").DelAttr("expires").SetAttr("SameSite", "Lax")
	if got, want := sc.String(), "id=a3fWa; Secure; HttpOnly; PATH=/api; SameSite=Lax"; got != want {
		t.Errorf("sc.String() = %q, want %q", got, want)
	}
}

func TestParseSetCookie_Quoted(t *testing.T) {
	t.Parallel()

	sc, err := header.ParseSetCookie(`q="x y"; Max-Age=0`)
	if err != nil {
		t.Fatalf("header.ParseSetCookie() error = %v, want nil", err)
	}
	if sc.Value != "x y" || !sc.Quoted {
		t.Errorf("sc.Value, sc.Quoted = %q, %v, want %q, true", sc.Value, sc.Quoted, "x y")
	}
	if got, want := sc.String(), `q="x y"; Max-Age=0`; got != want {
		t.Errorf("sc.String() = %q, want %q", got, want)
	}
}

func TestParseSetCookie_Error(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "=x", "novalue", "a=1; b c=2"} {
		if _, err := header.ParseSetCookie(in); !errors.Is(err, header.ErrMalformedInput) {
			t.Errorf("header.ParseSetCookie(%q) error = %v, want %v", in, err, header.ErrMalformedInput)
		}
	}
}

func TestNewSetCookie(t *testing.T) {
	t.Parallel()

	sc, err := header.NewSetCookie(&http.Cookie{Name: "s", Value: "v", Path: "/", MaxAge: 60, HttpOnly: true})
	if err != nil {
		t.Fatalf("header.NewSetCookie() error = %v, want nil", err)
	}
	if got, want := sc.String(), "s=v; Path=/; Max-Age=60; HttpOnly"; got != want {
		t.Errorf("sc.String() = %q, want %q", got, want)
	}
	if !sc.Equal(sc.Clone()) {
		t.Errorf("sc.Equal(sc.Clone()) = false, want true")
	}

	if _, err := header.NewSetCookie(nil); !errors.Is(err, header.ErrInvalidValue) {
		t.Errorf("header.NewSetCookie(nil) error = %v, want %v", err, header.ErrInvalidValue)
	}
}
