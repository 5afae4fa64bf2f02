package cors

import "errors"

// A DecisionKind discriminates the possible outcomes of an evaluation.
type DecisionKind uint8

const (
	// NotApplicable marks a request that is not a CORS concern for this
	// policy: it carries no (allowed-to-be-considered) Origin header, or it
	// is an OPTIONS request that doesn't qualify as a preflight request, or
	// its enforcement is left to the downstream handler.
	NotApplicable DecisionKind = iota
	// PreflightAccepted marks a successful CORS-preflight check.
	// The caller should terminate the response with [Decision.Status]
	// and [Decision.Headers], and not invoke any downstream handler.
	PreflightAccepted
	// PreflightRejected marks a failed CORS-preflight check;
	// see [Decision.Rejection] for the cause.
	PreflightRejected
	// SimpleAccepted marks an allowed non-preflight CORS request.
	SimpleAccepted
	// SimpleRejected marks a disallowed non-preflight CORS request;
	// see [Decision.Rejection] for the cause.
	SimpleRejected
)

func (k DecisionKind) String() string {
	switch k {
	case PreflightAccepted:
		return "preflight accepted"
	case PreflightRejected:
		return "preflight rejected"
	case SimpleAccepted:
		return "simple accepted"
	case SimpleRejected:
		return "simple rejected"
	default:
		return "not applicable"
	}
}

// A RejectionKind discriminates the possible causes of a rejection.
// Rejections are not errors: they are first-class decision outcomes,
// meant to be rendered by the caller (typically as a 403-style response
// accompanied by [Decision.Headers]).
type RejectionKind uint8

const (
	// OriginNotAllowed indicates that the request's origin did not satisfy
	// the configured origin policy.
	OriginNotAllowed RejectionKind = iota + 1
	// MethodNotAllowed indicates that the method announced by a preflight
	// request is not allowed.
	MethodNotAllowed
	// HeadersNotAllowed indicates that one or more of the header names
	// announced by a preflight request are not allowed.
	HeadersNotAllowed
	// MissingAccessControlRequestMethod indicates an OPTIONS request that
	// carries no Access-Control-Request-Method header. [Policy.Evaluate]
	// classifies such requests as [NotApplicable] rather than rejecting
	// them; the constant exists for adapters that prefer to diagnose them.
	MissingAccessControlRequestMethod
)

func (k RejectionKind) String() string {
	switch k {
	case OriginNotAllowed:
		return "origin not allowed"
	case MethodNotAllowed:
		return "method not allowed"
	case HeadersNotAllowed:
		return "headers not allowed"
	case MissingAccessControlRequestMethod:
		return "missing Access-Control-Request-Method"
	default:
		return "unknown"
	}
}

// A Rejection explains why a CORS check failed.
// The zero value marks the absence of a rejection.
type Rejection struct {
	// Kind is the cause of the rejection.
	Kind RejectionKind
	// RequestedMethod is the method announced by the preflight request,
	// verbatim; set only when Kind is [MethodNotAllowed].
	RequestedMethod string
	// RequestedHeaders is the header-name list announced by the preflight
	// request, verbatim; set only when Kind is [HeadersNotAllowed].
	RequestedHeaders string
}

// A Decision is the outcome of evaluating one request against a [Policy].
type Decision struct {
	// Kind discriminates the outcome.
	Kind DecisionKind
	// Headers holds the response headers the caller must splice into its
	// response pipeline. Empty for [NotApplicable] outcomes.
	Headers Headers
	// Status is the status the caller should respond with;
	// set only when Kind is [PreflightAccepted].
	Status int
	// Rejection is the cause of the failure;
	// zero unless Kind is [PreflightRejected] or [SimpleRejected].
	Rejection Rejection
}

// ErrAnyOriginWithCredentials is the error produced when a dynamic origin
// policy (a predicate or custom policy) reports the wildcard origin while
// credentialed access is enabled. The CORS protocol forbids that
// combination; callers must surface it as a failure response, never treat
// it as "assume allowed". (Static policies exhibiting the same
// contradiction are caught at construction time; see
// [github.com/fetchguard/cors/cfgerrors.CredentialsRequireSpecificOriginError].)
var ErrAnyOriginWithCredentials = errors.New("cors: origin policy yielded the wildcard origin while credentialed access is enabled")
