package quality_test

import (
	"testing"

	"github.com/ghettovoice/httphdr/quality"
)

func TestFromParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"", 1},
		{"text/html", 1},
		{"text/html;q=0.7", 0.7},
		{"text/html ; level=1 ; Q=0.25", 0.25},
		{`text/plain;x="a;q=0.1";q=0.5`, 0.5},
		{"gzip;q=1.5", 1},
		{"gzip;q=abc", 1},
		{"gzip;q=0", 0},
		{`gzip;q="0.3"`, 0.3},
	}

	for _, c := range cases {
		if got := quality.FromParams(c.in); got != c.want {
			t.Errorf("quality.FromParams(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWeight_Compare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b quality.Weight
		want int
	}{
		{quality.Weight{Q: 1}, quality.Weight{Q: 0.5}, -1},
		{quality.Weight{Q: 0.5}, quality.Weight{Q: 1}, 1},
		{quality.Weight{Q: 0.5, Tie: 1}, quality.Weight{Q: 0.5, Tie: 2}, -1},
		{quality.Weight{Q: 0.5}, quality.Weight{Q: 0.5}, 0},
	}

	for _, c := range cases {
		if got := c.a.Compare(c.b); got != c.want {
			t.Errorf("%+v.Compare(%+v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestParamExtractor(t *testing.T) {
	t.Parallel()

	if got := quality.Param().Weigh("en;q=0.4"); got.Q != 0.4 || got.Tie != 0 {
		t.Errorf("quality.Param().Weigh() = %+v, want {Q: 0.4}", got)
	}
	if got := quality.None[string]().Weigh("en;q=0.4"); !got.IsDefault() {
		t.Errorf("quality.None().Weigh() = %+v, want default", got)
	}
}
