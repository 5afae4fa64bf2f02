package cors

import (
	"github.com/fetchguard/cors/internal/origins"
	"github.com/fetchguard/cors/internal/text"
)

// An OriginDecisionKind discriminates the possible outcomes of resolving
// a request's origin against an origin policy.
type OriginDecisionKind uint8

const (
	// OriginSkip indicates that the policy takes no position on the
	// request, usually because the request carries no Origin header;
	// evaluation then classifies the request as [NotApplicable].
	OriginSkip OriginDecisionKind = iota
	// OriginAny indicates that the wildcard ("*") should be reflected.
	OriginAny
	// OriginExact indicates that a fixed, configured value
	// ([OriginDecision.Value]) should be reflected.
	OriginExact
	// OriginMirror indicates that the request's own Origin value should be
	// reflected, with its exact client casing.
	OriginMirror
	// OriginDisallow indicates that the request's origin is not allowed.
	OriginDisallow
)

// An OriginDecision is the outcome of resolving a request's origin
// against an origin policy. The zero value is the skip outcome.
type OriginDecision struct {
	// Kind discriminates the outcome.
	Kind OriginDecisionKind
	// Value is the origin value to reflect;
	// set only when Kind is [OriginExact].
	Value string
}

type originKind uint8

const (
	originNone originKind = iota // zero value: no origins allowed
	originAny
	originExact
	originList
	originPredicate
	originCustom
)

// An Origin is an origin policy: it determines which origins, if any, a
// [Policy] allows. The zero value allows no origins at all; use one of
// [AnyOrigin], [ExactOrigin], [OriginList], [OriginPredicate], or
// [CustomOrigin] to obtain a useful policy.
type Origin struct {
	kind      originKind
	exact     string
	matchers  []OriginMatcher
	predicate func(origin string, ctx *RequestContext) bool
	custom    func(origin string, present bool, ctx *RequestContext) OriginDecision
}

// AnyOrigin returns the origin policy that allows all origins,
// reflecting the wildcard ("*") rather than the request's origin.
// For security reasons, combining this policy with credentialed access
// is prohibited.
func AnyOrigin() Origin {
	return Origin{kind: originAny}
}

// ExactOrigin returns the origin policy that allows only origins
// case-insensitively equal to origin; the configured value (not the
// request's casing) is then reflected.
func ExactOrigin(origin string) Origin {
	return Origin{kind: originExact, exact: origin}
}

// OriginList returns the origin policy that allows any origin satisfied
// by at least one of matchers; the request's own origin is then mirrored.
func OriginList(matchers ...OriginMatcher) Origin {
	ms := make([]OriginMatcher, len(matchers))
	copy(ms, matchers)
	return Origin{kind: originList, matchers: ms}
}

// OriginPredicate returns the origin policy that allows any origin for
// which pred returns true; the request's own origin is then mirrored.
// A nil pred yields the zero policy, which allows no origins.
func OriginPredicate(pred func(origin string, ctx *RequestContext) bool) Origin {
	if pred == nil {
		return Origin{}
	}
	return Origin{kind: originPredicate, predicate: pred}
}

// CustomOrigin returns the origin policy that defers entirely to fn:
// whatever [OriginDecision] fn returns is passed through verbatim.
// This is a full escape hatch; in particular, fn may suppress credentials
// conditionally by returning the wildcard outcome, at the price of a
// per-request error when credentialed access is enabled.
// When the request carries no Origin header, fn receives "" and false.
// A nil fn yields the zero policy, which allows no origins.
func CustomOrigin(fn func(origin string, present bool, ctx *RequestContext) OriginDecision) Origin {
	if fn == nil {
		return Origin{}
	}
	return Origin{kind: originCustom, custom: fn}
}

// resolve resolves a request's origin against policy o.
// The origin's length is checked before any matcher (and before fn, for
// custom policies) runs.
func (o Origin) resolve(origin string, present bool, ctx *RequestContext) OriginDecision {
	if present && len(origin) > origins.MaxOriginLen {
		return OriginDecision{Kind: OriginDisallow}
	}
	switch o.kind {
	case originAny:
		if !present {
			return OriginDecision{}
		}
		return OriginDecision{Kind: OriginAny}
	case originExact:
		if !present {
			return OriginDecision{}
		}
		if text.EqualFold(o.exact, origin) {
			return OriginDecision{Kind: OriginExact, Value: o.exact}
		}
		return OriginDecision{Kind: OriginDisallow}
	case originPredicate:
		if !present {
			return OriginDecision{}
		}
		if o.predicate(origin, ctx) {
			return OriginDecision{Kind: OriginMirror}
		}
		return OriginDecision{Kind: OriginDisallow}
	case originCustom:
		return o.custom(origin, present, ctx)
	default: // originList, originNone
		if !present {
			return OriginDecision{}
		}
		for _, m := range o.matchers {
			if m.matches(origin) {
				return OriginDecision{Kind: OriginMirror}
			}
		}
		return OriginDecision{Kind: OriginDisallow}
	}
}

// varyOnDisallow reports whether responses shaped by policy o depend on
// the request's Origin header, in which case a Vary: Origin header is
// required even on disallow and skip outcomes, for cache correctness.
func (o Origin) varyOnDisallow() bool {
	return o.kind != originAny
}

type matcherKind uint8

const (
	matchExact matcherKind = iota
	matchPattern
	matchBool
)

// An OriginMatcher matches candidate origins on behalf of an [OriginList]
// policy. The zero value matches only the empty string; use one of
// [MatchOrigin], [MatchOriginPattern], or [MatchAllOrigins] to obtain a
// useful matcher.
type OriginMatcher struct {
	kind     matcherKind
	exact    string
	pattern  origins.Pattern
	constant bool
}

// MatchOrigin returns a matcher satisfied by origins case-insensitively
// equal to origin.
func MatchOrigin(origin string) OriginMatcher {
	return OriginMatcher{kind: matchExact, exact: origin}
}

// MatchOriginPattern compiles expr into a matcher satisfied by origins
// that expr matches in full, case-insensitively.
// Compilation is bounded in source length and wall-clock time;
// exceeding either bound fails compilation, so that a pathological
// pattern cannot stall configuration.
func MatchOriginPattern(expr string) (OriginMatcher, error) {
	p, err := origins.Compile(expr)
	if err != nil {
		return OriginMatcher{}, err
	}
	return OriginMatcher{kind: matchPattern, pattern: p}, nil
}

// MatchAllOrigins returns a constant matcher: it ignores the candidate
// origin altogether and is satisfied if and only if allow is true.
func MatchAllOrigins(allow bool) OriginMatcher {
	return OriginMatcher{kind: matchBool, constant: allow}
}

func (m OriginMatcher) matches(origin string) bool {
	switch m.kind {
	case matchPattern:
		return m.pattern.MatchString(origin)
	case matchBool:
		return m.constant
	default:
		return text.EqualFold(m.exact, origin)
	}
}
