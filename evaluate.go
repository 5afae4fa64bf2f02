package cors

import (
	"github.com/fetchguard/cors/internal/headers"
	"github.com/fetchguard/cors/internal/methods"
)

// Evaluate decides whether the request described by ctx is a CORS
// preflight, a CORS "simple" (i.e. non-preflight) request, or not a CORS
// concern at all, and computes the exact response headers required.
//
// Evaluation is a pure function of (p, ctx): identical inputs always
// yield identical decisions. The only fallible step is the detection of a
// dynamic origin policy reporting the wildcard while credentialed access
// is enabled, in which case Evaluate returns [ErrAnyOriginWithCredentials]
// and the caller must fail the response; such a contradiction must never
// reach the wire.
//
// Preflight violations (origin, method, headers) produce explicit,
// diagnosable rejections. Simple-request method mismatches, in contrast,
// deliberately fall through as [NotApplicable], leaving enforcement to
// the downstream handler.
func (p *Policy) Evaluate(ctx *RequestContext) (Decision, error) {
	norm := normalizeRequest(ctx)
	if norm.method == "options" {
		return p.evaluatePreflight(ctx, &norm)
	}
	return p.evaluateSimple(ctx, &norm)
}

func (p *Policy) evaluatePreflight(ctx *RequestContext, norm *normalizedRequest) (Decision, error) {
	if norm.acrm == "" {
		// An OPTIONS request that announces no method is not a preflight
		// request; see https://fetch.spec.whatwg.org/#cors-preflight-request.
		return Decision{}, nil
	}
	origin := p.resolveOrigin(ctx, norm)
	if origin.Kind == OriginSkip {
		return Decision{}, nil
	}
	if wildcardOrigin(origin) && p.credentialed {
		return Decision{}, ErrAnyOriginWithCredentials
	}

	var hdrs Headers
	if p.varyByOrigin() {
		hdrs.AddVary(headers.Origin)
	}
	if origin.Kind == OriginDisallow {
		rej := Rejection{Kind: OriginNotAllowed}
		return Decision{Kind: PreflightRejected, Headers: hdrs, Rejection: rej}, nil
	}
	if !p.allowsMethod(norm.acrm) {
		rej := Rejection{
			Kind:            MethodNotAllowed,
			RequestedMethod: ctx.AccessControlRequestMethod,
		}
		return Decision{Kind: PreflightRejected, Headers: hdrs, Rejection: rej}, nil
	}
	switch p.allowedHeaders {
	case allowHeadersMirror:
		// Mirroring allows whatever the client announced, but the response
		// then varies by the announced list.
		hdrs.AddVary(headers.ACRH)
	case allowHeadersList:
		if !p.reqHdrs.ContainsAll(norm.acrh) {
			rej := Rejection{
				Kind:             HeadersNotAllowed,
				RequestedHeaders: ctx.AccessControlRequestHeaders,
			}
			return Decision{Kind: PreflightRejected, Headers: hdrs, Rejection: rej}, nil
		}
	}

	p.reflectAllowedOrigin(&hdrs, origin, ctx)
	if p.credentialed {
		hdrs.Set(headers.ACAC, headers.ValueTrue)
	}
	if p.acam != "" {
		hdrs.Set(headers.ACAM, p.acam)
	}
	switch p.allowedHeaders {
	case allowHeadersMirror:
		if ctx.AccessControlRequestHeaders != "" {
			hdrs.Set(headers.ACAH, ctx.AccessControlRequestHeaders)
		}
	default:
		if p.acah != "" {
			hdrs.Set(headers.ACAH, p.acah)
		}
	}
	if p.allowPrivateNetwork && ctx.PrivateNetwork {
		// Private-network negotiation is preflight-only; the method is
		// necessarily OPTIONS on this path.
		hdrs.Set(headers.ACAPN, headers.ValueTrue)
	}
	if p.acma != "" {
		hdrs.Set(headers.ACMA, p.acma)
	}
	if p.tao != "" {
		hdrs.Set(headers.TAO, p.tao)
	}
	// A successful preflight check signals the caller to terminate the
	// response here, with the configured success status.
	return Decision{Kind: PreflightAccepted, Headers: hdrs, Status: p.successStatus}, nil
}

func (p *Policy) evaluateSimple(ctx *RequestContext, norm *normalizedRequest) (Decision, error) {
	origin := p.resolveOrigin(ctx, norm)
	if origin.Kind == OriginSkip {
		return Decision{}, nil
	}
	if wildcardOrigin(origin) && p.credentialed {
		return Decision{}, ErrAnyOriginWithCredentials
	}

	var hdrs Headers
	if p.varyByOrigin() {
		hdrs.AddVary(headers.Origin)
	}
	if origin.Kind == OriginDisallow {
		rej := Rejection{Kind: OriginNotAllowed}
		return Decision{Kind: SimpleRejected, Headers: hdrs, Rejection: rej}, nil
	}
	if !p.allowsMethod(norm.method) {
		// Method enforcement on non-preflight requests is deliberately left
		// to the downstream handler.
		return Decision{}, nil
	}

	p.reflectAllowedOrigin(&hdrs, origin, ctx)
	if p.credentialed {
		hdrs.Set(headers.ACAC, headers.ValueTrue)
	}
	// Note: Access-Control-Allow-Private-Network is never emitted on
	// non-preflight responses.
	if p.aceh != "" {
		hdrs.Set(headers.ACEH, p.aceh)
	}
	if p.tao != "" {
		hdrs.Set(headers.TAO, p.tao)
	}
	return Decision{Kind: SimpleAccepted, Headers: hdrs}, nil
}

// resolveOrigin resolves the request's origin against p's origin policy,
// short-circuiting to a mirror outcome for the null origin when the
// policy tolerates it.
func (p *Policy) resolveOrigin(ctx *RequestContext, norm *normalizedRequest) OriginDecision {
	present := ctx.Origin != ""
	if p.allowNullOrigin && present && norm.origin == headers.ValueNull {
		return OriginDecision{Kind: OriginMirror}
	}
	return p.origin.resolve(ctx.Origin, present, ctx)
}

// varyByOrigin reports whether responses shaped by p depend on the
// request's Origin header, in which case a Vary: Origin header is
// required on every outcome, for cache correctness. Tolerating the null
// origin makes even a wildcard policy origin-dependent: the reflected
// value is then "null" for the null origin and "*" for all others.
func (p *Policy) varyByOrigin() bool {
	return p.allowNullOrigin || p.origin.varyOnDisallow()
}

// wildcardOrigin reports whether d reflects the wildcard origin, whether
// as the dedicated wildcard outcome or as a fixed value of "*".
func wildcardOrigin(d OriginDecision) bool {
	return d.Kind == OriginAny ||
		d.Kind == OriginExact && d.Value == headers.ValueWildcard
}

// allowsMethod reports whether the policy allows the specified
// byte-lowercased method. Safelisted methods get a free pass; see
// https://fetch.spec.whatwg.org/#ref-for-cors-safelisted-method%E2%91%A2.
func (p *Policy) allowsMethod(norm string) bool {
	return methods.IsSafelisted(norm) || p.allowedMethods.Contains(norm)
}

func (p *Policy) reflectAllowedOrigin(hdrs *Headers, origin OriginDecision, ctx *RequestContext) {
	switch origin.Kind {
	case OriginAny:
		hdrs.Set(headers.ACAO, headers.ValueWildcard)
	case OriginExact:
		hdrs.Set(headers.ACAO, origin.Value)
	case OriginMirror:
		// Echo the exact client casing, not the normalized form.
		hdrs.Set(headers.ACAO, ctx.Origin)
	}
}
