/*
Package cors provides a framework-agnostic policy evaluator for
[Cross-Origin Resource Sharing (CORS)], along with [net/http] middleware
built on top of it.

The core of the package is the [Policy] type: given declarative [Options]
(validated once, at construction) and a [RequestContext] describing one
incoming HTTP request, [Policy.Evaluate] decides whether that request is a
[CORS-preflight request], a CORS "simple" request, or not a CORS concern at
all, and computes the exact response headers required, Vary included.
The evaluator performs no I/O and holds no mutable state: a [Policy] may be
shared by arbitrarily many concurrent evaluations without locking.

Callers that serve HTTP through [net/http] can rely on [Middleware]
instead of adapting requests themselves:

	mw, err := cors.NewMiddleware(cors.Options{
		Origin:         cors.OriginList(cors.MatchOrigin("https://example.com")),
		Methods:        []string{"GET", "POST"},
		AllowedHeaders: cors.AllowHeaders("Content-Type"),
	})
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", mw.Wrap(mux))

Other frameworks can build equally thin adapters: populate a
[RequestContext] from the incoming request, call [Policy.Evaluate], and
splice the resulting [Decision] into the response pipeline.

This package performs extensive configuration validation in order to
prevent you from inadvertently creating dysfunctional or insecure CORS
configurations; see [Options] for the specifics and package
[github.com/fetchguard/cors/cfgerrors] for programmatic error handling.

[CORS-preflight request]: https://developer.mozilla.org/en-US/docs/Glossary/Preflight_request
[Cross-Origin Resource Sharing (CORS)]: https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
*/
package cors
