// Package methods provides method-related predicates.
package methods

import (
	"golang.org/x/net/http/httpguts"
)

// IsValid reports whether name is a valid method, [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#concept-method
func IsValid(name string) bool {
	// Note: the production is identical to that of header names.
	return httpguts.ValidHeaderFieldName(name)
}

// IsSafelisted reports whether name is a safelisted method,
// [per the Fetch standard].
//
// Precondition: name is [byte-lowercase].
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#cors-safelisted-method
func IsSafelisted(name string) bool {
	switch name {
	case "get", "head", "post":
		return true
	default:
		return false
	}
}
