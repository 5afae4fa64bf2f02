package cors

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/fetchguard/cors/internal/headers"
	"github.com/fetchguard/cors/internal/text"
)

// A Middleware adapts a [Policy] to [net/http].
// Call its [*Middleware.Wrap] method to apply it to a [http.Handler].
//
// The zero value is ready to use but is a mere "passthrough" middleware,
// i.e. a middleware that simply delegates to the handler(s) it wraps.
// To obtain a proper CORS middleware, call [NewMiddleware] with valid
// [Options].
//
// A Middleware must not be copied after first use.
// Middleware are safe for concurrent use by multiple goroutines.
type Middleware struct {
	policy atomic.Pointer[Policy]
}

// NewMiddleware creates a CORS middleware that behaves in accordance with
// opts. If opts is invalid, it returns a nil [*Middleware] and some
// non-nil error; see [NewPolicy].
func NewMiddleware(opts Options) (*Middleware, error) {
	p, err := NewPolicy(opts)
	if err != nil {
		return nil, err
	}
	var m Middleware
	m.policy.Store(p)
	return &m, nil
}

// Reconfigure reconfigures m in accordance with opts.
// If opts is invalid, it leaves m unchanged and returns some non-nil
// error. You can safely reconfigure a middleware even as it's
// concurrently processing requests.
func (m *Middleware) Reconfigure(opts Options) error {
	p, err := NewPolicy(opts)
	if err != nil {
		return err
	}
	m.policy.Store(p)
	return nil
}

// Wrap applies the CORS middleware to the specified handler.
//
// The resulting handler terminates accepted preflight requests with the
// configured success status and rejected ones with 403 (Forbidden).
// Non-preflight requests are always delegated to h, with the computed
// CORS headers (if any) spliced into the response beforehand; for
// disallowed requests those amount to a Vary header at most, and
// enforcement is left to the browser, per the CORS protocol.
func (m *Middleware) Wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := m.policy.Load()
		if p == nil { // passthrough middleware
			h.ServeHTTP(w, r)
			return
		}
		// Fetch-compliant browsers send at most one Origin header;
		// see https://fetch.spec.whatwg.org/#http-network-or-cache-fetch
		// (step 12).
		origin, found := headers.First(r.Header, headers.Origin)
		if !found {
			// r is NOT a CORS request;
			// see https://fetch.spec.whatwg.org/#cors-request.
			p.varyNonCORS(w.Header(), r.Method)
			h.ServeHTTP(w, r)
			return
		}
		// Fetch-compliant browsers send at most one ACRM header;
		// see https://fetch.spec.whatwg.org/#cors-preflight-fetch (step 3).
		acrm, _ := headers.First(r.Header, headers.ACRM)
		ctx := RequestContext{
			Method:                     r.Method,
			Origin:                     origin,
			AccessControlRequestMethod: acrm,
			// Although the Fetch standard requires browsers to include at
			// most one ACRH field line, some intermediaries reportedly split
			// it into several; see https://github.com/rs/cors/issues/184.
			AccessControlRequestHeaders: strings.Join(r.Header[headers.ACRH], headers.ValueSep),
			PrivateNetwork:              privateNetworkRequested(r.Header),
		}
		decision, err := p.Evaluate(&ctx)
		if err != nil {
			// The configured origin policy contradicts itself at evaluation
			// time (wildcard with credentials); failing the response is the
			// only safe rendition.
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		switch decision.Kind {
		case PreflightAccepted:
			decision.Headers.Apply(w.Header())
			w.WriteHeader(decision.Status)
		case PreflightRejected:
			decision.Headers.Apply(w.Header())
			w.WriteHeader(http.StatusForbidden)
		case SimpleAccepted, SimpleRejected:
			decision.Headers.Apply(w.Header())
			h.ServeHTTP(w, r)
		default: // NotApplicable
			p.varyNonCORS(w.Header(), r.Method)
			h.ServeHTTP(w, r)
		}
	})
}

// Policy returns m's current policy;
// if m is a passthrough middleware, it returns nil.
func (m *Middleware) Policy() *Policy {
	return m.policy.Load()
}

// varyNonCORS adds a Vary: Origin header to responses that the decision
// engine takes no part in shaping, whenever the configured origin policy
// makes responses origin-dependent;
// see https://fetch.spec.whatwg.org/#cors-protocol-and-http-caches.
// Responses to OPTIONS requests are exempt, because RFC 9110 forbids
// caching them; see https://httpwg.org/specs/rfc9110.html#rfc.section.9.3.7.
func (p *Policy) varyNonCORS(resHdrs http.Header, method string) {
	if p.varyByOrigin() && method != http.MethodOptions {
		// Note that we must add rather than set a Vary header here, because
		// outer middleware may have already added/set a Vary header, which
		// we wouldn't want to clobber.
		resHdrs.Add(headers.Vary, headers.Origin)
	}
}

func privateNetworkRequested(reqHdrs http.Header) bool {
	value, found := headers.First(reqHdrs, headers.ACRPN)
	return found && text.EqualFold(value, headers.ValueTrue)
}
