package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/header"
)

func mustMediaTypes(t *testing.T, vals ...string) []*header.MediaType {
	t.Helper()
	mts, err := header.ParseMediaTypes(vals...)
	if err != nil {
		t.Fatalf("header.ParseMediaTypes(%q) error = %v, want nil", vals, err)
	}
	return mts
}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	m, ok := header.Negotiate([]int{3, 2, 1}, []int{4, 2, 3}, func(req, off int) (int, bool) {
		return req * 10, req == off
	})
	if !ok {
		t.Fatal("header.Negotiate() = _, false, want _, true")
	}
	if diff := cmp.Diff(m, header.Match[int]{Requested: 3, Offered: 3, Result: 30}); diff != "" {
		t.Errorf("header.Negotiate() mismatch (-got +want):\n%s", diff)
	}

	if _, ok := header.Negotiate(nil, []int{1}, func(req, off int) (int, bool) { return 0, true }); ok {
		t.Error("header.Negotiate(nil, ...) = _, true, want _, false")
	}
}

func TestBestMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		requested string
		offered   []string
		want      string
		wantReq   string
	}{
		{
			name:      "highest quality wins",
			requested: "text/html;q=0.8, application/json;q=0.9, */*;q=0.1",
			offered:   []string{"application/json", "text/html"},
			want:      "application/json",
			wantReq:   "application/json;q=0.9",
		},
		{
			name:      "requested order among equal qualities",
			requested: "text/*, application/json",
			offered:   []string{"application/json", "text/plain"},
			want:      "text/plain",
			wantReq:   "text/*",
		},
		{
			name:      "wildcard falls back to first offered",
			requested: "image/webp, */*;q=0.1",
			offered:   []string{"text/csv", "application/json"},
			want:      "text/csv",
			wantReq:   "*/*;q=0.1",
		},
		{
			name:      "suffix match",
			requested: "application/*+json",
			offered:   []string{"application/xml", "application/problem+json"},
			want:      "application/problem+json",
			wantReq:   "application/*+json",
		},
		{
			name:      "parameters merged",
			requested: "text/plain;format=flowed",
			offered:   []string{"text/plain;charset=utf-8"},
			want:      "text/plain;charset=utf-8;format=flowed",
			wantReq:   "text/plain;format=flowed",
		},
		{
			name:      "zero quality refuses specific type",
			requested: "application/json;q=0, */*",
			offered:   []string{"application/json", "text/html"},
			want:      "text/html",
			wantReq:   "*/*",
		},
		{
			name:      "zero quality refuses type range",
			requested: "text/*;q=0, */*;q=0.5",
			offered:   []string{"text/html", "image/png"},
			want:      "image/png",
			wantReq:   "*/*;q=0.5",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			m, ok := header.BestMatch(mustMediaTypes(t, c.requested), mustMediaTypes(t, c.offered...))
			if !ok {
				t.Fatalf("header.BestMatch() = _, false, want %q, true", c.want)
			}
			if got := m.Result.HeaderString(); got != c.want {
				t.Errorf("header.BestMatch().Result = %q, want %q", got, c.want)
			}
			if got := m.Requested.HeaderString(); got != c.wantReq {
				t.Errorf("header.BestMatch().Requested = %q, want %q", got, c.wantReq)
			}
		})
	}
}

func TestBestMatch_NoMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		requested string
		offered   []string
	}{
		{"image/*", []string{"text/html", "application/json"}},
		{"application/json;q=0", []string{"application/json"}},
		{"", []string{"application/json"}},
		{"*/*", nil},
	}

	for _, c := range cases {
		if m, ok := header.BestMatch(mustMediaTypes(t, c.requested), mustMediaTypes(t, c.offered...)); ok {
			t.Errorf("header.BestMatch(%q, %q) = %q, true, want none", c.requested, c.offered, m.Result)
		}
	}
}

func TestBestToken(t *testing.T) {
	t.Parallel()

	requested, err := header.ParseTokens("gzip;q=0.5, br", "*;q=0.1, identity;q=0")
	if err != nil {
		t.Fatalf("header.ParseTokens() error = %v, want nil", err)
	}

	cases := []struct {
		offered []string
		want    string
		wantOK  bool
	}{
		{[]string{"gzip", "br"}, "br", true},
		{[]string{"identity", "GZIP"}, "GZIP", true},
		{[]string{"identity", "deflate"}, "deflate", true},
		{[]string{"identity"}, "", false},
		{nil, "", false},
	}

	for _, c := range cases {
		got, ok := header.BestToken(requested, c.offered)
		if got != c.want || ok != c.wantOK {
			t.Errorf("header.BestToken(%q) = %q, %v, want %q, %v", c.offered, got, ok, c.want, c.wantOK)
		}
	}
}

func TestBestLanguage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		requested string
		offered   []language.Tag
		want      language.Tag
		wantOK    bool
	}{
		{
			"fr-CH, fr;q=0.9, en;q=0.8, *;q=0.5",
			[]language.Tag{language.AmericanEnglish, language.French},
			language.French,
			true,
		},
		{
			"en;q=0.8, de",
			[]language.Tag{language.AmericanEnglish, language.German},
			language.German,
			true,
		},
		{
			"en",
			[]language.Tag{language.German, language.AmericanEnglish},
			language.AmericanEnglish,
			true,
		},
		{
			"ja, *;q=0.1",
			[]language.Tag{language.German, language.French},
			language.German,
			true,
		},
		{
			"en-GB",
			[]language.Tag{language.English, language.German},
			language.English,
			true,
		},
		{
			"ja",
			[]language.Tag{language.English, language.German},
			language.Und,
			false,
		},
		{
			"en;q=0",
			[]language.Tag{language.English},
			language.Und,
			false,
		},
	}

	for _, c := range cases {
		t.Run(c.requested, func(t *testing.T) {
			t.Parallel()

			requested, err := header.ParseLanguages(c.requested)
			if err != nil {
				t.Fatalf("header.ParseLanguages(%q) error = %v, want nil", c.requested, err)
			}
			got, ok := header.BestLanguage(requested, c.offered)
			if got != c.want || ok != c.wantOK {
				t.Errorf("header.BestLanguage() = %v, %v, want %v, %v", got, ok, c.want, c.wantOK)
			}
		})
	}
}
