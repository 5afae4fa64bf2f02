package cors

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fetchguard/cors/cfgerrors"
	"github.com/fetchguard/cors/internal/headers"
	"github.com/fetchguard/cors/internal/lists"
	"github.com/fetchguard/cors/internal/methods"
)

// Options configures a [Policy]. The zero value allows no cross-origin
// access at all. Attempts to use settings described as "prohibited"
// result in a failure to build the desired policy.
//
// # Origin
//
// Origin selects the origin policy; see [AnyOrigin], [ExactOrigin],
// [OriginList], [OriginPredicate], and [CustomOrigin].
// For security reasons, a policy that statically yields the wildcard
// ([AnyOrigin], or [ExactOrigin] of "*") is prohibited when Credentialed
// is set: the CORS protocol forbids the wildcard in credentialed
// responses.
//
// # Methods
//
// Methods configures the methods that preflight requests may announce
// and that non-preflight requests may use. Matching is case-insensitive;
// the list is deduplicated, first occurrence's casing and position
// winning. The three [CORS-safelisted methods] (GET, HEAD, and POST) are
// always allowed by the CORS protocol and need not be specified.
// Invalid method names are prohibited.
//
// # AllowedHeaders
//
// AllowedHeaders configures the request-header names that preflight
// requests may announce; see [AllowHeaders], [AllowAnyHeaders], and
// [MirrorRequestHeaders]. An explicit list must not literally contain
// "*"; use [AllowAnyHeaders] instead.
//
// # ExposedHeaders
//
// ExposedHeaders configures the response-header names exposed to clients
// on non-preflight responses. The list must not literally contain "*".
//
// # MaxAgeInSeconds
//
// MaxAgeInSeconds instructs browsers to cache preflight responses for a
// duration no longer than the specified number of seconds.
// The zero value omits the Access-Control-Max-Age header altogether.
// To instruct browsers to eschew caching of preflight responses,
// specify a value of -1; no other negative value is permitted.
// Because modern browsers [cap the max-age value], specifying a value
// larger than 86400 is prohibited.
//
// # AllowNullOrigin
//
// AllowNullOrigin additionally allows the [null origin], which sandboxed
// documents and some redirects produce, regardless of the configured
// origin policy. Because the null origin is [fundamentally unsafe],
// leave this unset unless you know exactly what you're doing.
//
// # AllowPrivateNetwork
//
// AllowPrivateNetwork configures the policy to grant
// [private-network access] to preflight requests that ask for it.
// Private-network negotiation is preflight-only: the corresponding
// response header is never emitted on non-preflight responses.
//
// # TimingAllowOrigin
//
// TimingAllowOrigin configures the origins allowed to read detailed
// [Resource Timing] data; see [TimingOrigins] and [AnyTimingOrigin].
//
// # SuccessStatus
//
// SuccessStatus is the status of successful preflight responses.
// The zero value selects 204 (No Content); other values must lie in the
// 200-599 range. Some rare non-compliant user agents fail preflight when
// the response status is other than 200. Oh well.
//
// [CORS-safelisted methods]: https://fetch.spec.whatwg.org/#cors-safelisted-method
// [Resource Timing]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Timing-Allow-Origin
// [cap the max-age value]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds
// [fundamentally unsafe]: https://portswigger.net/research/exploiting-cors-misconfigurations-for-bitcoins-and-bounties
// [null origin]: https://fetch.spec.whatwg.org/#append-a-request-origin-header
// [private-network access]: https://wicg.github.io/private-network-access/
type Options struct {
	// Precludes comparability, unkeyed struct literals, and conversion to
	// and from third-party types.
	_ [0]func()

	Origin              Origin
	Methods             []string
	AllowedHeaders      AllowedHeaders
	ExposedHeaders      []string
	Credentialed        bool
	MaxAgeInSeconds     int
	AllowNullOrigin     bool
	AllowPrivateNetwork bool
	TimingAllowOrigin   TimingAllowOrigin
	SuccessStatus       int
}

type allowedHeadersKind uint8

const (
	allowHeadersList allowedHeadersKind = iota
	allowHeadersAny
	allowHeadersMirror
)

// AllowedHeaders configures the request-header names a [Policy] allows.
// The zero value allows only [CORS-safelisted request headers]; use
// [AllowHeaders], [AllowAnyHeaders], or [MirrorRequestHeaders] to allow
// more.
//
// [CORS-safelisted request headers]: https://fetch.spec.whatwg.org/#cors-safelisted-request-header
type AllowedHeaders struct {
	kind  allowedHeadersKind
	names []string
}

// AllowHeaders allows the specified request-header names.
// Header names are case-insensitive; the list is deduplicated, first
// occurrence's casing and position winning.
func AllowHeaders(names ...string) AllowedHeaders {
	ns := make([]string, len(names))
	copy(ns, names)
	return AllowedHeaders{kind: allowHeadersList, names: ns}
}

// AllowAnyHeaders allows all request-header names,
// serialized as the wildcard ("*").
func AllowAnyHeaders() AllowedHeaders {
	return AllowedHeaders{kind: allowHeadersAny}
}

// MirrorRequestHeaders allows whatever request-header names the client
// announces, echoing the announced list verbatim rather than a
// server-declared list. Responses shaped this way vary by the
// Access-Control-Request-Headers header, and a Vary token is emitted
// accordingly.
func MirrorRequestHeaders() AllowedHeaders {
	return AllowedHeaders{kind: allowHeadersMirror}
}

// TimingAllowOrigin configures the origins a [Policy] grants access to
// detailed Resource Timing data. The zero value grants none; use
// [TimingOrigins] or [AnyTimingOrigin] to grant some.
type TimingAllowOrigin struct {
	any     bool
	origins []string
}

// TimingOrigins grants Resource Timing access to the specified
// (serialized) origins. The list is deduplicated case-insensitively,
// first occurrence's casing and position winning.
func TimingOrigins(origins ...string) TimingAllowOrigin {
	os := make([]string, len(origins))
	copy(os, origins)
	return TimingAllowOrigin{origins: os}
}

// AnyTimingOrigin grants Resource Timing access to all origins,
// serialized as the wildcard ("*").
func AnyTimingOrigin() TimingAllowOrigin {
	return TimingAllowOrigin{any: true}
}

// A Policy is a compiled CORS configuration together with its decision
// engine; see [Policy.Evaluate].
//
// A Policy is immutable after construction and safe for concurrent use
// by multiple goroutines: evaluations are synchronous, non-blocking,
// pure computations that share no per-call state.
type Policy struct {
	origin         Origin
	allowedMethods lists.Tokens
	acam           string // precomputed Access-Control-Allow-Methods value

	allowedHeaders allowedHeadersKind
	reqHdrs        lists.Tokens
	acah           string // precomputed Access-Control-Allow-Headers value

	aceh string // precomputed Access-Control-Expose-Headers value
	tao  string // precomputed Timing-Allow-Origin value
	acma string // precomputed Access-Control-Max-Age value

	credentialed        bool
	allowNullOrigin     bool
	allowPrivateNetwork bool
	successStatus       int
}

// NewPolicy compiles opts into a [Policy].
// If opts is invalid, it returns a nil [*Policy] and some non-nil error;
// all configuration mistakes are then reported at once, combined with
// [errors.Join]. If you need to handle the constitutive errors
// programmatically, rely on package
// [github.com/fetchguard/cors/cfgerrors].
//
// Mutating opts after NewPolicy has returned does not alter the
// resulting policy's behavior.
func NewPolicy(opts Options) (*Policy, error) {
	p := Policy{
		origin:              opts.Origin,
		credentialed:        opts.Credentialed,
		allowNullOrigin:     opts.AllowNullOrigin,
		allowPrivateNetwork: opts.AllowPrivateNetwork,
	}

	// Accumulate errors in a slice so as to call errors.Join at most once.
	var errs []error
	errs = p.validateOrigin(errs, opts.Origin)
	errs = p.validateMethods(errs, opts.Methods)
	errs = p.validateAllowedHeaders(errs, opts.AllowedHeaders)
	errs = p.validateExposedHeaders(errs, opts.ExposedHeaders)
	errs = p.validateMaxAge(errs, opts.MaxAgeInSeconds)
	errs = p.validateSuccessStatus(errs, opts.SuccessStatus)
	p.compileTimingAllowOrigin(opts.TimingAllowOrigin)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &p, nil
}

func (p *Policy) validateOrigin(errs []error, origin Origin) []error {
	if !p.credentialed {
		return errs
	}
	// The dynamic counterpart of this check lives in the decision engine:
	// a predicate or custom policy that reports the wildcard at evaluation
	// time trips ErrAnyOriginWithCredentials instead.
	staticWildcard := origin.kind == originAny ||
		origin.kind == originExact && origin.exact == headers.ValueWildcard
	if staticWildcard {
		errs = append(errs, new(cfgerrors.CredentialsRequireSpecificOriginError))
	}
	return errs
}

func (p *Policy) validateMethods(errs []error, names []string) []error {
	valid := names[:0:0]
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !methods.IsValid(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		valid = append(valid, name)
	}
	p.allowedMethods = lists.New(valid...)
	p.acam, _ = p.allowedMethods.HeaderValue()
	return errs
}

func (p *Policy) validateAllowedHeaders(errs []error, ah AllowedHeaders) []error {
	p.allowedHeaders = ah.kind
	switch ah.kind {
	case allowHeadersAny:
		p.acah = headers.ValueWildcard
	case allowHeadersList:
		valid := ah.names[:0:0]
		for _, name := range ah.names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if name == headers.ValueWildcard {
				err := &cfgerrors.UnacceptableHeaderNameError{
					Value:  name,
					Type:   "request",
					Reason: "wildcard",
				}
				errs = append(errs, err)
				continue
			}
			if !headers.IsValid(name) {
				err := &cfgerrors.UnacceptableHeaderNameError{
					Value:  name,
					Type:   "request",
					Reason: "invalid",
				}
				errs = append(errs, err)
				continue
			}
			valid = append(valid, name)
		}
		p.reqHdrs = lists.New(valid...)
		p.acah, _ = p.reqHdrs.HeaderValue()
	}
	return errs
}

func (p *Policy) validateExposedHeaders(errs []error, names []string) []error {
	valid := names[:0:0]
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == headers.ValueWildcard {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "response",
				Reason: "wildcard",
			}
			errs = append(errs, err)
			continue
		}
		if !headers.IsValid(name) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "response",
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		valid = append(valid, name)
	}
	p.aceh, _ = lists.New(valid...).HeaderValue()
	return errs
}

func (p *Policy) validateMaxAge(errs []error, delta int) []error {
	const (
		// Current upper bounds:
		//  - Firefox: 86400 (24h)
		//  - Chromium: 7200 (2h)
		//  - WebKit/Safari: 600 (10m)
		//
		// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds.
		upperBound = 86400
		// sentinel value for disabling preflight caching
		disableCaching = -1
	)
	switch {
	case delta < disableCaching || upperBound < delta:
		err := &cfgerrors.MaxAgeOutOfBoundsError{
			Value:   delta,
			Max:     upperBound,
			Disable: disableCaching,
		}
		return append(errs, err)
	case delta == disableCaching:
		p.acma = "0"
	case delta == 0:
		// no header
	default:
		p.acma = strconv.Itoa(delta)
	}
	return errs
}

func (p *Policy) validateSuccessStatus(errs []error, status int) []error {
	switch {
	case status == 0:
		// According to the Fetch standard, any 2xx status marks a preflight
		// response as successful; 204 (No Content) is arguably the most
		// appropriate one.
		p.successStatus = http.StatusNoContent
	case status < 200 || status > 599:
		errs = append(errs, &cfgerrors.InvalidSuccessStatusError{Value: status})
	default:
		p.successStatus = status
	}
	return errs
}

func (p *Policy) compileTimingAllowOrigin(tao TimingAllowOrigin) {
	if tao.any {
		p.tao = headers.ValueWildcard
		return
	}
	p.tao, _ = lists.New(tao.origins...).HeaderValue()
}
