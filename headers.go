package cors

import (
	"iter"
	"net/http"
	"strings"

	"github.com/fetchguard/cors/internal/headers"
)

// Headers is an accumulator of response-header name-value pairs.
// Names are case-insensitive and stored in canonical format
// (see [http.CanonicalHeaderKey]); insertion order is preserved.
//
// The Vary header gets special treatment: its value is a set of tokens
// rather than a scalar, and contributions to it accumulate instead of
// clobbering one another; see [Headers.AddVary].
//
// The zero value is an empty collection, ready for use.
// A Headers value must not be mutated concurrently.
type Headers struct {
	names  []string          // canonical names, in insertion order
	values map[string]string // canonical name -> value
}

// Set associates value to name in h, overwriting any previous value.
// If name is (case-insensitively) Vary, Set instead routes value
// to [Headers.AddVary].
func (h *Headers) Set(name, value string) {
	name = http.CanonicalHeaderKey(name)
	if name == headers.Vary {
		h.AddVary(value)
		return
	}
	h.set(name, value)
}

// AddVary adds the tokens of value to h's Vary header.
// Tokens are trimmed and case-insensitively deduplicated; the first
// occurrence's casing wins. A blank value contributes nothing, and an
// empty Vary header is never retained.
func (h *Headers) AddVary(value string) {
	current, found := h.values[headers.Vary]
	if !found && !strings.Contains(value, headers.ValueSep) {
		// common case: first contribution, single token
		if token := strings.TrimSpace(value); token != "" {
			h.set(headers.Vary, token)
		}
		return
	}
	var (
		tokens []string
		seen   = make(map[string]struct{}, 2)
	)
	appendTokens := func(csv string) {
		for token := range strings.SplitSeq(csv, headers.ValueSep) {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			key := strings.ToLower(token)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	appendTokens(current)
	appendTokens(value)
	if len(tokens) == 0 {
		h.delete(headers.Vary)
		return
	}
	h.set(headers.Vary, strings.Join(tokens, headers.VarySep))
}

// Extend merges other into h: non-Vary headers of other overwrite those
// of h, whereas other's Vary tokens accumulate into h's, so that header
// fragments built independently compose without clobbering earlier Vary
// contributions.
func (h *Headers) Extend(other *Headers) {
	if other == nil {
		return
	}
	for _, name := range other.names {
		h.Set(name, other.values[name])
	}
}

// Get returns the value associated to name in h
// and reports whether name is present at all.
func (h *Headers) Get(name string) (string, bool) {
	value, found := h.values[http.CanonicalHeaderKey(name)]
	return value, found
}

// Len returns the number of headers in h.
func (h *Headers) Len() int {
	return len(h.names)
}

// All returns an iterator over h's name-value pairs, in insertion order.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range h.names {
			if !yield(name, h.values[name]) {
				return
			}
		}
	}
}

// Apply splices h into dst. The Vary header is added rather than set,
// because outer middleware may have already contributed a Vary header,
// which we wouldn't want to clobber; all other headers are set.
func (h *Headers) Apply(dst http.Header) {
	for _, name := range h.names {
		if name == headers.Vary {
			dst.Add(name, h.values[name])
			continue
		}
		dst.Set(name, h.values[name])
	}
}

func (h *Headers) set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, exists := h.values[name]; !exists {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

func (h *Headers) delete(name string) {
	if _, exists := h.values[name]; !exists {
		return
	}
	delete(h.values, name)
	for i, n := range h.names {
		if n == name {
			h.names = append(h.names[:i], h.names[i+1:]...)
			return
		}
	}
}
