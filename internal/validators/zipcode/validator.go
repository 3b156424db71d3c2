// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package zipcode

import "docredact/internal/detector"

// US ZIP or ZIP+4 as a standalone token.
var zipPattern = detector.MustCompile(`\b\d{5}(?:-\d{4})?\b`, false)

// Validator finds ZIP codes.
type Validator struct{}

// NewValidator returns a ZIP code extractor.
func NewValidator() *Validator {
	return &Validator{}
}

// Name implements detector.Extractor.
func (v *Validator) Name() string {
	return "zipcode"
}

// Extract implements detector.Extractor.
func (v *Validator) Extract(text string) ([]detector.Span, error) {
	return zipPattern.FindAll(text, 0, detector.ZipCode)
}
