package cors

import (
	"github.com/fetchguard/cors/internal/text"
)

// A RequestContext is a normalized description of one incoming HTTP
// request, as relevant to CORS. It is typically produced by a
// request-adapting collaborator (such as [Middleware]) and is only
// borrowed for the duration of one evaluation.
type RequestContext struct {
	// Method is the request's method.
	Method string
	// Origin is the value of the request's Origin header;
	// an empty string marks the absence of that header.
	Origin string
	// AccessControlRequestMethod is the value of the request's
	// Access-Control-Request-Method header (if any).
	AccessControlRequestMethod string
	// AccessControlRequestHeaders is the raw, comma-separated value of the
	// request's Access-Control-Request-Headers header (if any).
	AccessControlRequestHeaders string
	// PrivateNetwork indicates whether the request carries an
	// Access-Control-Request-Private-Network header whose value is
	// (case-insensitively) "true".
	PrivateNetwork bool
}

// A normalizedRequest is a case-folded view of a RequestContext, used
// purely for matching decisions. The original values are retained in the
// RequestContext because mirrored-origin and mirrored-header responses
// must echo exact client casing, not the normalized form.
type normalizedRequest struct {
	method string
	origin string
	acrm   string
	acrh   string
}

func normalizeRequest(ctx *RequestContext) normalizedRequest {
	return normalizedRequest{
		method: text.Lower(ctx.Method),
		origin: text.Lower(ctx.Origin),
		acrm:   text.Lower(ctx.AccessControlRequestMethod),
		acrh:   text.Lower(ctx.AccessControlRequestHeaders),
	}
}
