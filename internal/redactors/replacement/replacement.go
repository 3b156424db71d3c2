// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package replacement generates the placeholder tokens substituted for
// redacted spans.
package replacement

import (
	"fmt"

	"docredact/internal/detector"
)

// Format returns the token for the n-th entity of kind, e.g. "[EMAIL_2]".
func Format(kind detector.EntityKind, n int) string {
	return fmt.Sprintf("[%s_%d]", kind, n)
}

// Tokens hands out sequential per-kind tokens starting at 1. A Tokens value
// belongs to a single redaction call and is not safe for concurrent use.
type Tokens struct {
	issued map[detector.EntityKind]int
}

// NewTokens returns a fresh token sequence.
func NewTokens() *Tokens {
	return &Tokens{issued: make(map[detector.EntityKind]int)}
}

// Next returns the next token for kind.
func (t *Tokens) Next(kind detector.EntityKind) string {
	t.issued[kind]++
	return Format(kind, t.issued[kind])
}

// Count returns how many tokens of kind have been issued.
func (t *Tokens) Count(kind detector.EntityKind) int {
	return t.issued[kind]
}
