package cors_test

import (
	"maps"
	"net/http"
	"testing"

	cors "github.com/fetchguard/cors"
)

func collect(h *cors.Headers) map[string]string {
	return maps.Collect(h.All())
}

func TestHeadersSet(t *testing.T) {
	var h cors.Headers
	h.Set("Access-Control-Allow-Origin", "https://a.test")
	h.Set("access-control-allow-origin", "https://b.test") // case-insensitive overwrite
	h.Set("Access-Control-Allow-Credentials", "true")
	want := map[string]string{
		"Access-Control-Allow-Origin":      "https://b.test",
		"Access-Control-Allow-Credentials": "true",
	}
	if got := collect(&h); !maps.Equal(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
	if h.Len() != 2 {
		t.Errorf("Len(): got %d; want 2", h.Len())
	}
}

func TestHeadersVaryDedup(t *testing.T) {
	var h cors.Headers
	h.AddVary("Origin")
	h.AddVary("origin")
	h.AddVary("Access-Control-Request-Headers")
	got, found := h.Get("Vary")
	const want = "Origin, Access-Control-Request-Headers"
	if !found || got != want {
		t.Errorf("Vary: got %q, %t; want %q, true", got, found, want)
	}
}

func TestHeadersVaryViaSet(t *testing.T) {
	var h cors.Headers
	h.Set("Vary", "Origin")
	h.Set("vary", "Access-Control-Request-Headers") // routes to AddVary, no clobbering
	got, _ := h.Get("Vary")
	const want = "Origin, Access-Control-Request-Headers"
	if got != want {
		t.Errorf("Vary: got %q; want %q", got, want)
	}
}

func TestHeadersBlankVary(t *testing.T) {
	var h cors.Headers
	h.AddVary("")
	h.AddVary("  ")
	if _, found := h.Get("Vary"); found {
		t.Error("blank contributions must not produce a Vary header")
	}
	if h.Len() != 0 {
		t.Errorf("Len(): got %d; want 0", h.Len())
	}
}

func TestHeadersVaryListValue(t *testing.T) {
	var h cors.Headers
	h.AddVary("Origin, Access-Control-Request-Headers")
	h.AddVary("ORIGIN")
	got, _ := h.Get("Vary")
	const want = "Origin, Access-Control-Request-Headers"
	if got != want {
		t.Errorf("Vary: got %q; want %q", got, want)
	}
}

func TestHeadersExtend(t *testing.T) {
	var base cors.Headers
	base.Set("Access-Control-Allow-Origin", "https://a.test")
	base.AddVary("Origin")

	var frag cors.Headers
	frag.Set("Access-Control-Expose-Headers", "X-Response-Time")
	frag.AddVary("origin")
	frag.AddVary("Access-Control-Request-Headers")

	base.Extend(&frag)
	want := map[string]string{
		"Access-Control-Allow-Origin":   "https://a.test",
		"Vary":                          "Origin, Access-Control-Request-Headers",
		"Access-Control-Expose-Headers": "X-Response-Time",
	}
	if got := collect(&base); !maps.Equal(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}

	base.Extend(nil) // must be a no-op
	if got := collect(&base); !maps.Equal(got, want) {
		t.Errorf("after Extend(nil): got %v; want %v", got, want)
	}
}

func TestHeadersApply(t *testing.T) {
	var h cors.Headers
	h.Set("Access-Control-Allow-Origin", "https://a.test")
	h.AddVary("Origin")

	dst := http.Header{}
	dst.Set("Vary", "Accept-Encoding") // set by some outer middleware
	dst.Set("Access-Control-Allow-Origin", "stale")
	h.Apply(dst)

	if got := dst.Get("Access-Control-Allow-Origin"); got != "https://a.test" {
		t.Errorf("Access-Control-Allow-Origin: got %q; want %q", got, "https://a.test")
	}
	wantVary := []string{"Accept-Encoding", "Origin"}
	if got := dst.Values("Vary"); len(got) != 2 || got[0] != wantVary[0] || got[1] != wantVary[1] {
		t.Errorf("Vary: got %v; want %v", got, wantVary)
	}
}
