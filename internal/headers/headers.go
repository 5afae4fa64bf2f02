// Package headers provides header-name constants and low-level helpers for
// processing CORS request and response headers.
package headers

import (
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// header names in canonical format
const (
	// common request headers
	Origin = "Origin"

	// preflight-only request headers
	ACRPN = "Access-Control-Request-Private-Network"
	ACRM  = "Access-Control-Request-Method"
	ACRH  = "Access-Control-Request-Headers"

	// common response headers
	ACAO = "Access-Control-Allow-Origin"
	ACAC = "Access-Control-Allow-Credentials"

	// preflight-only response headers
	ACAPN = "Access-Control-Allow-Private-Network"
	ACAM  = "Access-Control-Allow-Methods"
	ACAH  = "Access-Control-Allow-Headers"
	ACMA  = "Access-Control-Max-Age"

	// actual-only response headers
	ACEH = "Access-Control-Expose-Headers"
	TAO  = "Timing-Allow-Origin"

	Vary = "Vary"
)

const (
	ValueTrue     = "true"
	ValueWildcard = "*"
	ValueNull     = "null"
)

const (
	// ValueSep separates the elements of a list-based field value.
	// The elements of a header-field value may be separated simply by commas;
	// since whitespace is optional, let's not use any.
	// See https://httpwg.org/http-core/draft-ietf-httpbis-semantics-latest.html#abnf.extension.recipient
	ValueSep = ","
	// VarySep separates the elements of a Vary field value.
	VarySep = ", "
)

// IsValid reports whether name is a valid header name,
// [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#header-name
func IsValid(name string) bool {
	return httpguts.ValidHeaderFieldName(name)
}

// First, if k is present in hdrs, returns the first value associated to k
// in hdrs and true; otherwise, it returns "" and false.
// Precondition: k is in canonical format (see [http.CanonicalHeaderKey]).
//
// First is useful because, contrary to [http.Header.Get], its results allow
// callers to distinguish an absent field from a present-but-empty one.
func First(hdrs http.Header, k string) (string, bool) {
	v, found := hdrs[k]
	if !found || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

const (
	// MaxOWSBytes is the number of leading/trailing OWS bytes tolerated
	// around each element of a list-based field value.
	// RFC 9110 (section 5.6.1.2) requires recipients to tolerate arbitrarily
	// long OWS, but adherence to that requirement leads to non-negligible
	// performance degradation in the face of adversarial (spoofed) requests.
	MaxOWSBytes = 1
	// MaxEmptyElements is the number of empty list elements tolerated,
	// in accordance with RFC 9110's recommendation (section 5.6.1.2).
	MaxEmptyElements = 16
)

// TrimOWS trims up to n bytes of [optional whitespace (OWS)]
// from the start of and/or the end of s.
// If no more than n bytes of OWS are found at the start of s
// and no more than n bytes of OWS are found at the end of s,
// it returns the trimmed result and true.
// Otherwise, it returns the original string and false.
//
// [optional whitespace (OWS)]: https://httpwg.org/specs/rfc9110.html#whitespace
func TrimOWS(s string, n int) (trimmed string, ok bool) {
	if s == "" {
		return s, true
	}
	start := 0
	for start < len(s) && isOWS(s[start]) {
		start++
		if start > n {
			return s, false
		}
	}
	end := len(s)
	for end > start && isOWS(s[end-1]) {
		end--
		if len(s)-end > n {
			return s, false
		}
	}
	return s[start:end], true
}

func isOWS(b byte) bool {
	return b == ' ' || b == '\t'
}

// CutAtComma slices s around the first comma that appears among (up to) the
// first n bytes of s, returning the parts of s before and after the comma.
// The found result reports whether a comma appears in that portion of s.
// If no comma appears in that portion of s, CutAtComma returns s, "", false.
func CutAtComma(s string, n int) (before, after string, found bool) {
	// Note: this implementation draws inspiration from strings.Cut's.
	end := min(len(s), n)
	if i := strings.IndexByte(s[:end], ','); i >= 0 {
		after = s[i+1:] // deal with this first to save one bounds check
		return s[:i], after, true
	}
	return s, "", false
}
