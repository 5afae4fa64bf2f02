package text_test

import (
	"strings"
	"testing"

	"github.com/fetchguard/cors/internal/text"
	"pgregory.net/rapid"
)

func TestLower(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "abc", want: "abc"},
		{in: "ABC", want: "abc"},
		{in: "x-test", want: "x-test"},
		{in: "X-Test", want: "x-test"},
		{in: "OPTIONS", want: "options"},
		{in: "mIxEd-42!", want: "mixed-42!"},
		{in: "ÄÖÜ", want: "äöü"},
		{in: "aÉb", want: "aéb"},
		{in: "ABCé", want: "abcé"}, // non-ASCII byte after uppercase ASCII
		{in: "ЖУРНАЛ", want: "журнал"},
	}
	for _, tc := range cases {
		got := text.Lower(tc.in)
		if got != tc.want {
			const tmpl = "text.Lower(%q): got %q; want %q"
			t.Errorf(tmpl, tc.in, got, tc.want)
		}
	}
}

func TestEqualFold(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{a: "", b: "", want: true},
		{a: "x-test", b: "x-test", want: true},
		{a: "x-test", b: "X-TEST", want: true},
		{a: "Origin", b: "ORIGIN", want: true},
		{a: "x-test", b: "x-test2", want: false},
		{a: "x-test", b: "x-tesu", want: false},
		{a: "", b: "x", want: false},
		// full case folding handles length-changing folds
		{a: "straße", b: "STRASSE", want: true},
		{a: "straße", b: "STRASSF", want: false},
		{a: "σ", b: "Σ", want: true},
		{a: "é", b: "É", want: true},
		{a: "é", b: "e", want: false},
	}
	for _, tc := range cases {
		got := text.EqualFold(tc.a, tc.b)
		if got != tc.want {
			const tmpl = "text.EqualFold(%q, %q): got %t; want %t"
			t.Errorf(tmpl, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestIsASCII(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: "", want: true},
		{in: "x-test", want: true},
		{in: "\x00\x7f", want: true},
		{in: "é", want: false},
	}
	for _, tc := range cases {
		if got := text.IsASCII(tc.in); got != tc.want {
			const tmpl = "text.IsASCII(%q): got %t; want %t"
			t.Errorf(tmpl, tc.in, got, tc.want)
		}
	}
}

// For all ASCII s, s compares equal (under folding) to its uppercased
// form, and lowering is idempotent.
func TestPropertyASCIICaseInsensitivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[ -~]{0,64}`).Draw(t, "s")
		upper := strings.ToUpper(s)
		if !text.EqualFold(s, upper) {
			t.Fatalf("EqualFold(%q, %q) = false; want true", s, upper)
		}
		once := text.Lower(s)
		if twice := text.Lower(once); twice != once {
			t.Fatalf("Lower not idempotent on %q: %q != %q", s, twice, once)
		}
	})
}
