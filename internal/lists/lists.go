// Package lists provides the order-preserving, case-insensitively
// deduplicating token lists that back allow-list configuration:
// allowed methods, allowed request headers, exposed response headers,
// and Timing-Allow-Origin values.
package lists

import (
	"strings"

	"github.com/fetchguard/cors/internal/headers"
	"github.com/fetchguard/cors/internal/text"
)

// Tokens is an ordered list of unique tokens.
// Construction trims each element, deduplicates case-insensitively
// (the first occurrence's casing wins), and preserves insertion order.
// Membership checks are case-insensitive.
// The zero value is an empty, ready-to-use list.
type Tokens struct {
	elems  []string       // first-seen casing, in insertion order
	index  map[string]int // case-folded element -> position in elems
	maxLen int            // length of the longest element
}

// New returns a Tokens list containing all of elems, but no other elements.
func New(elems ...string) Tokens {
	var t Tokens
	for _, e := range elems {
		t.add(e)
	}
	return t
}

func (t *Tokens) add(e string) {
	e = strings.TrimSpace(e)
	if e == "" {
		return
	}
	key := text.Lower(e)
	if _, dup := t.index[key]; dup {
		return
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[key] = len(t.elems)
	t.elems = append(t.elems, e)
	t.maxLen = max(t.maxLen, len(e))
}

// Size returns the number of elements in t.
func (t Tokens) Size() int {
	return len(t.elems)
}

// IsEmpty reports whether t contains no elements.
func (t Tokens) IsEmpty() bool {
	return len(t.elems) == 0
}

// Contains reports whether token is an element of t,
// compared case-insensitively.
func (t Tokens) Contains(token string) bool {
	if len(t.index) == 0 {
		return false
	}
	_, found := t.index[text.Lower(token)]
	return found
}

// Slice returns a copy of t's elements in insertion order,
// with their first-seen casing.
func (t Tokens) Slice() []string {
	if len(t.elems) == 0 {
		return nil
	}
	res := make([]string, len(t.elems))
	copy(res, t.elems)
	return res
}

// HeaderValue returns t's elements joined into a list-based field value
// and true, or "" and false if t is empty.
func (t Tokens) HeaderValue() (string, bool) {
	if len(t.elems) == 0 {
		return "", false
	}
	return strings.Join(t.elems, headers.ValueSep), true
}

// ContainsAll reports whether every element of list-based field value
// is an element of t. An empty value is always permitted.
//
// Each element may be surrounded by a small number ([headers.MaxOWSBytes])
// of optional-whitespace bytes, and a small number
// ([headers.MaxEmptyElements]) of empty elements is tolerated,
// in accordance with RFC 9110 (section 5.6.1.2); anything beyond those
// bounds fails the check, as a defense against adversarial field values.
func (t Tokens) ContainsAll(value string) bool {
	if value == "" {
		return true
	}
	// effectively constant
	maxLen := headers.MaxOWSBytes + t.maxLen + headers.MaxOWSBytes + 1 // +1 for comma
	var (
		name          string
		commaFound    bool
		emptyElements int
		ok            bool
	)
	for {
		// As a defense against maliciously long names in value, we process
		// only a small number of value's leading bytes per iteration.
		name, value, commaFound = headers.CutAtComma(value, maxLen)
		name, ok = headers.TrimOWS(name, headers.MaxOWSBytes)
		if !ok {
			return false
		}
		if name == "" {
			emptyElements++
			if emptyElements > headers.MaxEmptyElements {
				return false
			}
		} else if !t.Contains(name) {
			return false
		}
		if !commaFound { // We have now exhausted the names in value.
			return true
		}
	}
}
