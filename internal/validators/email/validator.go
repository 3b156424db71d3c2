// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import "docredact/internal/detector"

// emailPattern is deliberately loose: alphanumerics and ._%+- in the local
// part, dotted domain labels, and an alphabetic top-level label.
var emailPattern = detector.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, true)

// Validator finds email addresses.
type Validator struct{}

// NewValidator returns an email extractor.
func NewValidator() *Validator {
	return &Validator{}
}

// Name implements detector.Extractor.
func (v *Validator) Name() string {
	return "email"
}

// Extract implements detector.Extractor.
func (v *Validator) Extract(text string) ([]detector.Span, error) {
	return emailPattern.FindAll(text, 0, detector.Email)
}
