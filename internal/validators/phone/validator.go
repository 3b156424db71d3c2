// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"strings"

	"docredact/internal/detector"
)

// Alternatives are tried left to right at each offset. Delimiters tolerate
// surrounding spaces because PDF text extraction often inserts them around
// punctuation.
var phonePatterns = []string{
	// Loose international: country code, one delimiter, subscriber digits.
	`\+?\d{1,3}\s*[-.\s]\s*\d{10,14}`,
	// Undelimited international or national.
	`\+?\d{10,15}`,
	// North American: optional +1, optional parenthesized area code.
	`(?:\+?1\s*[-.\s]?\s*)?(?:\(\s*\d{3}\s*\)|\d{3})\s*[-.\s]\s*\d{3}\s*[-.\s]\s*\d{4}`,
}

var phonePattern = detector.MustCompile(`(?:`+strings.Join(phonePatterns, `|`)+`)\b`, false)

// Validator finds phone numbers.
type Validator struct{}

// NewValidator returns a phone extractor.
func NewValidator() *Validator {
	return &Validator{}
}

// Name implements detector.Extractor.
func (v *Validator) Name() string {
	return "phone"
}

// Extract implements detector.Extractor.
func (v *Validator) Extract(text string) ([]detector.Span, error) {
	return phonePattern.FindAll(text, 0, detector.Phone)
}
