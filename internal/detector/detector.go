// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "fmt"

// EntityKind classifies a detected PII span.
type EntityKind int

// Declaration order is the conflict-resolution priority: lower wins.
const (
	Email EntityKind = iota
	Phone
	ZipCode
	Address
	Name
)

var kindLabels = [...]string{
	Email:   "EMAIL",
	Phone:   "PHONE",
	ZipCode: "ZIPCODE",
	Address: "ADDRESS",
	Name:    "NAME",
}

// AllKinds lists every entity kind in priority order.
var AllKinds = []EntityKind{Email, Phone, ZipCode, Address, Name}

// String returns the upper-case label used in tokens and audit lines.
func (k EntityKind) String() string {
	if k < 0 || int(k) >= len(kindLabels) {
		return fmt.Sprintf("KIND(%d)", int(k))
	}
	return kindLabels[k]
}

// MarshalText renders the kind as its label in JSON and YAML output.
func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Priority returns the resolution priority of the kind. Lower numbers win
// when two candidates start at the same offset.
func (k EntityKind) Priority() int {
	return int(k)
}

// Span is a half-open range [Start, End) of character (rune) offsets into the
// text it was found in.
type Span struct {
	Start int
	End   int
	Text  string
	Kind  EntityKind
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two spans share at least one character.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Valid reports whether the span is non-empty and lies within a text of n
// characters.
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= n
}

// Extractor finds candidate spans of a single concern in normalized text.
// Implementations are stateless and safe for concurrent use.
type Extractor interface {
	// Name returns the extractor identifier used in logs.
	Name() string

	// Extract returns candidate spans, tagged with their kind. A non-nil
	// error means part of the text was not scanned.
	Extract(text string) ([]Span, error)
}

// OverlapsAny reports whether candidate overlaps any of the accepted spans.
func OverlapsAny(candidate Span, accepted []Span) bool {
	for _, a := range accepted {
		if candidate.Overlaps(a) {
			return true
		}
	}
	return false
}
