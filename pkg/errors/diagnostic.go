package errors

import (
	"fmt"
	"strings"
)

// Kind classifies why a record was skipped or degraded.
type Kind string

// Diagnostic kinds.
const (
	KindMissingCharacter Kind = "missing_character"
	KindHiddenCharacter  Kind = "hidden_character"
	KindMissingSong      Kind = "missing_song"
	KindMissingEndpoint  Kind = "missing_endpoint"
	KindMissingLine      Kind = "missing_line"
	KindMissingTheme     Kind = "missing_theme"
	KindMalformedKey     Kind = "malformed_key"
	KindMissingAnchor    Kind = "missing_anchor"
	KindDuplicate        Kind = "duplicate"
)

// Diagnostic records one skipped or degraded reference. Stages return
// diagnostics alongside their output instead of silently dropping records.
type Diagnostic struct {
	Stage  string `json:"stage" yaml:"stage"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	ID     string `json:"id" yaml:"id"`   // record that holds the reference
	Ref    string `json:"ref" yaml:"ref"` // id that could not be resolved
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// String formats the diagnostic for logs.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s %s -> %s", d.Stage, d.Kind, d.ID, d.Ref)
	if d.Reason != "" {
		s += " (" + d.Reason + ")"
	}
	return s
}

// Err converts the diagnostic into a MISSING_REFERENCE or INVALID_LINE_KEY error.
func (d Diagnostic) Err() *Error {
	code := ErrCodeMissingReference
	if d.Kind == KindMalformedKey {
		code = ErrCodeInvalidLineKey
	}
	return New(code, "%s", d.String())
}

// Diagnostics is an append-only list of diagnostics for one pipeline run.
type Diagnostics []Diagnostic

// Add appends a diagnostic.
func (ds *Diagnostics) Add(stage string, kind Kind, id, ref, reason string) {
	*ds = append(*ds, Diagnostic{Stage: stage, Kind: kind, ID: id, Ref: ref, Reason: reason})
}

// Merge appends all diagnostics from other.
func (ds *Diagnostics) Merge(other Diagnostics) {
	*ds = append(*ds, other...)
}

// Count returns how many diagnostics have the given kind.
func (ds Diagnostics) Count(kind Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Summary returns counts per kind, formatted as "kind=n" pairs in first-seen order.
func (ds Diagnostics) Summary() string {
	if len(ds) == 0 {
		return ""
	}
	var order []Kind
	counts := make(map[Kind]int)
	for _, d := range ds {
		if _, ok := counts[d.Kind]; !ok {
			order = append(order, d.Kind)
		}
		counts[d.Kind]++
	}
	parts := make([]string, len(order))
	for i, k := range order {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
