// Package origins provides bounded compilation of case-insensitive origin
// patterns.
package origins

import (
	"regexp"
	"time"

	"github.com/fetchguard/cors/cfgerrors"
)

const (
	// MaxOriginLen is the maximum length tolerated for the value of an
	// Origin header. Longer values are disallowed outright, before any
	// matcher runs, as a guard against oversized-header abuse.
	MaxOriginLen = 4096

	// maxPatternLen is the maximum length tolerated for the source of an
	// origin pattern.
	maxPatternLen = 50_000

	// compileBudget is the wall-clock budget for compiling one origin
	// pattern. Pattern compilation in Go is linear in the size of the
	// source, but the budget bounds pathological configurations all the
	// same: construction fails rather than hangs.
	compileBudget = 100 * time.Millisecond
)

// A Pattern is a compiled, case-insensitive origin pattern.
// A Pattern only ever matches an origin in full.
// The zero value matches no origin.
// Compiled patterns are immutable and safe for concurrent use.
type Pattern struct {
	re *regexp.Regexp
}

// Compile compiles expr into a [Pattern].
// Compilation is case-insensitive and anchored at both ends.
// Compilation is bounded, both in the length of expr and in wall-clock
// time; see [cfgerrors.UnacceptableOriginPatternError] for the possible
// failure modes.
func Compile(expr string) (Pattern, error) {
	if len(expr) > maxPatternLen {
		err := &cfgerrors.UnacceptableOriginPatternError{
			Value:  expr[:64] + "...",
			Reason: "length",
		}
		return Pattern{}, err
	}
	start := time.Now()
	re, err := regexp.Compile(`(?i)\A(?:` + expr + `)\z`)
	if err != nil {
		err := &cfgerrors.UnacceptableOriginPatternError{
			Value:  expr,
			Reason: "invalid",
		}
		return Pattern{}, err
	}
	if time.Since(start) > compileBudget {
		err := &cfgerrors.UnacceptableOriginPatternError{
			Value:  expr,
			Reason: "budget",
		}
		return Pattern{}, err
	}
	return Pattern{re: re}, nil
}

// MatchString reports whether origin matches p in full.
func (p Pattern) MatchString(origin string) bool {
	return p.re != nil && p.re.MatchString(origin)
}
