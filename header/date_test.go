package header_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ghettovoice/httphdr/header"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)
	for _, in := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sunday, 06-Nov-94 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
	} {
		got, err := header.ParseDate(in)
		if err != nil {
			t.Errorf("header.ParseDate(%q) error = %v, want nil", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("header.ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := header.ParseDate("yesterday"); !errors.Is(err, header.ErrMalformedInput) {
		t.Errorf("header.ParseDate(invalid) error = %v, want %v", err, header.ErrMalformedInput)
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	got, err := header.FormatDate(time.Date(1994, 11, 6, 11, 49, 37, 0, loc))
	if err != nil {
		t.Fatalf("header.FormatDate() error = %v, want nil", err)
	}
	if want := "Sun, 06 Nov 1994 08:49:37 GMT"; got != want {
		t.Errorf("header.FormatDate() = %q, want %q", got, want)
	}

	if _, err := header.FormatDate(time.Time{}); !errors.Is(err, header.ErrInvalidValue) {
		t.Errorf("header.FormatDate(zero) error = %v, want %v", err, header.ErrInvalidValue)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	ra, err := header.ParseRetryAfter("120")
	if err != nil {
		t.Fatalf("header.ParseRetryAfter() error = %v, want nil", err)
	}
	if ra.IsDate() || ra.Delay != 2*time.Minute {
		t.Errorf("header.ParseRetryAfter(120) = %+v, want delay %v", ra, 2*time.Minute)
	}
	if got := ra.String(); got != "120" {
		t.Errorf("ra.String() = %q, want %q", got, "120")
	}

	ra, err = header.ParseRetryAfter("Fri, 31 Dec 1999 23:59:59 GMT")
	if err != nil {
		t.Fatalf("header.ParseRetryAfter() error = %v, want nil", err)
	}
	if !ra.IsDate() {
		t.Errorf("ra.IsDate() = false, want true")
	}
	if got, want := ra.String(), "Fri, 31 Dec 1999 23:59:59 GMT"; got != want {
		t.Errorf("ra.String() = %q, want %q", got, want)
	}

	now := time.Date(1999, 12, 31, 23, 59, 29, 0, time.UTC)
	if got, want := ra.Until(now), 30*time.Second; got != want {
		t.Errorf("ra.Until() = %v, want %v", got, want)
	}
	if got := ra.Until(now.Add(time.Hour)); got != 0 {
		t.Errorf("ra.Until(later) = %v, want 0", got)
	}

	for _, in := range []string{"-5", "1.5", "soon", "", "9223372037", "99999999999", "99999999999999999999"} {
		if _, err := header.ParseRetryAfter(in); !errors.Is(err, header.ErrMalformedInput) {
			t.Errorf("header.ParseRetryAfter(%q) error = %v, want %v", in, err, header.ErrMalformedInput)
		}
	}

	ra, err = header.ParseRetryAfter("9223372036")
	if err != nil {
		t.Fatalf("header.ParseRetryAfter(max) error = %v, want nil", err)
	}
	if got := ra.String(); got != "9223372036" {
		t.Errorf("ra.String() = %q, want %q", got, "9223372036")
	}
}
