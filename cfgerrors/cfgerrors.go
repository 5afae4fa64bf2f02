/*
Package cfgerrors provides functionalities for programmatically handling
configuration errors produced by package [github.com/fetchguard/cors].

Most users of package [github.com/fetchguard/cors] have no use for this
package. However, multi-tenant systems that let their tenants configure CORS
(e.g. via some Web portal or some command-line interface) may find it useful:
it allows such systems to surface CORS-configuration mistakes via custom,
human-friendly error messages, perhaps even ones written in a natural
language other than English and/or generated on the client side.
*/
package cfgerrors

import (
	"fmt"
	"iter"
)

// A CredentialsRequireSpecificOriginError indicates an attempt to both
// allow all origins and enable credentialed access: the origin policy
// would then statically yield the wildcard, which the CORS protocol
// forbids in credentialed responses.
//
// For more details, see [github.com/fetchguard/cors.Options].
type CredentialsRequireSpecificOriginError struct{}

func (*CredentialsRequireSpecificOriginError) Error() string {
	return "cors: for security reasons, you cannot both allow all origins and enable credentialed access"
}

// An UnacceptableOriginPatternError indicates an unacceptable origin
// pattern. The Reason field may take one of three values:
//   - "invalid": the pattern failed to compile;
//   - "length": the pattern's source exceeds the maximum tolerated length;
//   - "budget": the pattern's compilation exceeded its wall-clock budget.
type UnacceptableOriginPatternError struct {
	Value  string // the unacceptable value that was specified (possibly elided)
	Reason string // invalid | length | budget
}

func (err *UnacceptableOriginPatternError) Error() string {
	switch err.Reason {
	case "length":
		const tmpl = "cors: origin pattern %q exceeds the maximum tolerated length"
		return fmt.Sprintf(tmpl, err.Value)
	case "budget":
		const tmpl = "cors: origin pattern %q took too long to compile"
		return fmt.Sprintf(tmpl, err.Value)
	default:
		const tmpl = "cors: invalid origin pattern %q"
		return fmt.Sprintf(tmpl, err.Value)
	}
}

// An UnacceptableMethodError indicates an unacceptable method name.
type UnacceptableMethodError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid
}

func (err *UnacceptableMethodError) Error() string {
	const tmpl = "cors: %s method %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An UnacceptableHeaderNameError indicates an unacceptable header name.
// The Type field may take one of two values:
//   - "request": an allowed request-header name;
//   - "response": an exposed response-header name.
//
// The Reason field may take one of two values:
//   - "invalid": the header name is invalid;
//   - "wildcard": the list literally contains "*", which is prohibited;
//     use the dedicated wildcard variant instead.
type UnacceptableHeaderNameError struct {
	Value  string // the unacceptable value that was specified
	Type   string // request | response
	Reason string // invalid | wildcard
}

func (err *UnacceptableHeaderNameError) Error() string {
	if err.Reason == "wildcard" {
		const tmpl = "cors: %s-header list must not contain %q"
		return fmt.Sprintf(tmpl, err.Type, err.Value)
	}
	const tmpl = "cors: %s %s-header name %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Type, err.Value)
}

// An InvalidSuccessStatusError indicates a preflight success status that
// lies outside the range of valid HTTP status codes.
type InvalidSuccessStatusError struct {
	Value int // the unacceptable value that was specified
}

func (err *InvalidSuccessStatusError) Error() string {
	const tmpl = "cors: invalid preflight success status %d (must lie between 200 and 599)"
	return fmt.Sprintf(tmpl, err.Value)
}

// A MaxAgeOutOfBoundsError indicates a max-age value that's either too low
// or too high.
//
// For more details, see [github.com/fetchguard/cors.Options].
type MaxAgeOutOfBoundsError struct {
	Value   int // the unacceptable value that was specified
	Max     int // maximum max-age value permitted by this library
	Disable int // sentinel value for disabling preflight caching
}

func (err *MaxAgeOutOfBoundsError) Error() string {
	const tmpl = "cors: out-of-bounds max-age value %d (max: %d; disable caching: %d)"
	return fmt.Sprintf(tmpl, err.Value, err.Max, err.Disable)
}

// All returns an iterator over the CORS-configuration errors contained in
// err's error tree. The order is unspecified and may change from one
// release to the next. All only supports error values returned by
// [github.com/fetchguard/cors.NewPolicy] and
// [github.com/fetchguard/cors.NewMiddleware]; it should not be called on
// any other error value.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		every(err, yield)
	}
}

func every(err error, f func(error) bool) bool {
	switch err := err.(type) {
	// Note that there's no need for any "interface { Unwrap() error }" case
	// because nowhere do we "wrap" errors; we only ever "join" them.
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !every(err, f) {
				return false
			}
		}
		return true
	default:
		return f(err)
	}
}
