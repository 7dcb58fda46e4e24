// Package numbering assigns human-facing document numbers such as
// "INV-0001": a per-type prefix followed by a sequence zero-padded to at
// least four digits.
//
// Two policies are supported. PolicyCount derives the next sequence from
// how many documents of the type exist, so deleting a document can make a
// later number repeat an earlier one. PolicyMonotonic keeps a persisted
// counter per type that only moves forward, so numbers are never reused.
package numbering

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xraph/folio/document"
)

// Policy selects how the next sequence of a document type is derived.
type Policy string

const (
	// PolicyMonotonic never reissues a sequence, even after deletions.
	PolicyMonotonic Policy = "monotonic"
	// PolicyCount uses count(type)+1 and may reissue numbers.
	PolicyCount Policy = "count"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyMonotonic || p == PolicyCount
}

// ParsePolicy parses a policy name. An empty name selects PolicyMonotonic.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PolicyMonotonic, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("numbering: unknown policy %q", s)
	}
	return p, nil
}

// Format renders prefix followed by seq padded to at least four digits.
func Format(prefix string, seq int64) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// Next returns the number the count policy would assign to a new document
// of type t: the count of existing documents of that type plus one.
// It reads docs only and is idempotent.
func Next(t document.Type, docs []*document.Document, prefix string) string {
	return Format(prefix, int64(CountOf(t, docs))+1)
}

// CountOf returns how many of docs have type t.
func CountOf(t document.Type, docs []*document.Document) int {
	n := 0
	for _, d := range docs {
		if d.Type == t {
			n++
		}
	}
	return n
}

// Sequence extracts the numeric sequence of number issued under prefix.
// It reports false when number does not carry prefix or the remainder is
// not a positive decimal integer.
func Sequence(number, prefix string) (int64, bool) {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seq, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// Highest returns the largest sequence among documents of type t whose
// numbers carry prefix, or zero when there is none.
func Highest(t document.Type, docs []*document.Document, prefix string) int64 {
	var hi int64
	for _, d := range docs {
		if d.Type != t {
			continue
		}
		if seq, ok := Sequence(d.Number, prefix); ok && seq > hi {
			hi = seq
		}
	}
	return hi
}

// Floor is the smallest value a monotonic counter for t must have reached
// given the documents that already exist. Adopting an existing data set
// therefore never issues a number at or below one already present.
func Floor(t document.Type, docs []*document.Document, prefix string) int64 {
	floor := int64(CountOf(t, docs))
	if hi := Highest(t, docs, prefix); hi > floor {
		floor = hi
	}
	return floor
}

// Taken reports whether a document of type t already carries number.
func Taken(t document.Type, number string, docs []*document.Document) bool {
	for _, d := range docs {
		if d.Type == t && d.Number == number {
			return true
		}
	}
	return false
}

// Collision is a document number shared by more than one document of the
// same type.
type Collision struct {
	Type        document.Type `json:"type"`
	Number      string        `json:"number"`
	DocumentIDs []string      `json:"document_ids"`
}

// Duplicates reports every number issued more than once within a type,
// ordered by type then number.
func Duplicates(docs []*document.Document) []Collision {
	type key struct {
		t document.Type
		n string
	}
	seen := make(map[key][]string)
	var order []key
	for _, d := range docs {
		k := key{d.Type, d.Number}
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = append(seen[k], d.ID.String())
	}

	var out []Collision
	for _, k := range order {
		if ids := seen[k]; len(ids) > 1 {
			out = append(out, Collision{Type: k.t, Number: k.n, DocumentIDs: ids})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Number < out[j].Number
	})
	return out
}
