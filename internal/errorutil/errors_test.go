package errorutil_test

import (
	"errors"
	"io"
	"testing"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	const sentinel errorutil.Error = "sentinel"

	cases := []struct {
		name    string
		args    []any
		wantMsg string
	}{
		{"no args", nil, "sentinel"},
		{"error", []any{io.EOF}, "sentinel: EOF"},
		{"already wrapped", []any{errorutil.NewWrapperError(sentinel, "x")}, "sentinel: x"},
		{"message", []any{"bad value"}, "sentinel: bad value"},
		{"format", []any{"bad value %q", "v"}, `sentinel: bad value "v"`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			err := errorutil.NewWrapperError(sentinel, c.args...)
			if !errors.Is(err, sentinel) {
				t.Errorf("errors.Is(err, sentinel) = false, want true")
			}
			if got := err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
		})
	}
}

func TestJoinPrefix(t *testing.T) {
	t.Parallel()

	if err := errorutil.JoinPrefix("prefix", nil, nil); err != nil {
		t.Errorf("errorutil.JoinPrefix(nil, nil) = %v, want nil", err)
	}

	err := errorutil.JoinPrefix("prefix:", io.EOF)
	if got, want := err.Error(), "prefix: EOF"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}

	err = errorutil.JoinPrefix("conflicts", io.EOF, nil, io.ErrUnexpectedEOF)
	if !errors.Is(err, io.EOF) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("errors.Is() = false, want true for both joined errors")
	}
	if got, want := err.Error(), "conflicts:\n  - EOF\n  - unexpected EOF"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}
}
