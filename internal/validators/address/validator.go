// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"docredact/internal/detector"
)

const streetSuffixes = `Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Boulevard|Blvd|Drive|Dr|Way|Court|Ct|Circle|Cir|Place|Pl|Parkway|Pkwy`

// stateLookback is the number of characters searched before a state
// abbreviation for an address context.
const stateLookback = 30

var (
	// Street addresses (house number, up to six words, suffix) and floor,
	// tower and building references. Only keywords are case-insensitive.
	// Word runs are bounded so a scan stays linear on long lines.
	streetPattern = detector.MustCompile(
		`\b\d{1,5}(?:[ ]+[A-Za-z0-9.\-]+){1,6}?[ ]+(?i:`+streetSuffixes+`)\b`+
			`|\b\d{1,3}(?i:st|nd|rd|th)[ ]+(?i:Floor)\b`+
			`|\b(?i:Floor)[ ]+\d{1,3}\b`+
			`|\b(?i:Tower)[ ]+[A-Z]\b`+
			`|\b(?i:Building)[ ]+[A-Z0-9]+\b`,
		false)

	// Building components such as "Suite 200" or "Apt 4B".
	buildingPattern = detector.MustCompile(
		`\b(?i:Tower|Building|Suite|Unit|Room|Apt|Apartment)\.?[ ]+#?[A-Z0-9]+\b`,
		false)

	// A city directly after "<number> <words> <suffix>, ". Group 1 is the city.
	addressCityPattern = detector.MustCompile(
		`\b\d{1,5}[ ]+(?:[A-Za-z]+[ ]+){1,6}(?i:`+streetSuffixes+`)\.?,[ ]*([A-Z][a-z]+(?:[ ][A-Z][a-z]+)*)`,
		false)

	// Capitalized words followed by ", 12345", ", XX" or a final period.
	cityPattern = detector.MustCompile(
		`\b[A-Z][a-z]+(?:[ ][A-Z][a-z]+){0,5}(?=[ ]*(?:,[ ]*\d{5}|,[ ]*[A-Z]{2}\b|\.\s*$))`,
		false)

	// Two upper-case letters ending a clause or followed by a ZIP code.
	statePattern = detector.MustCompile(
		`\b[A-Z]{2}\b(?=[ ]*(?:,|\.|$|\n|\d{5}\b))`,
		false)

	cityCommaPattern = detector.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*,\s*`, false)
	locationPattern  = detector.MustCompile(`Location:`, true)
)

// Validator finds street addresses, building references, cities and state
// abbreviations.
type Validator struct{}

// NewValidator returns an address extractor.
func NewValidator() *Validator {
	return &Validator{}
}

// Name implements detector.Extractor.
func (v *Validator) Name() string {
	return "address"
}

// Extract implements detector.Extractor.
//
// Sub-patterns run in a fixed order and a candidate is kept only when it
// does not overlap anything kept by an earlier sub-pattern. A failing
// sub-pattern stops the scan; spans accepted so far are returned with the
// error.
func (v *Validator) Extract(text string) ([]detector.Span, error) {
	var accepted []detector.Span

	passes := []func() ([]detector.Span, error){
		func() ([]detector.Span, error) { return streetPattern.FindAll(text, 0, detector.Address) },
		func() ([]detector.Span, error) { return buildingPattern.FindAll(text, 0, detector.Address) },
		func() ([]detector.Span, error) { return addressCityPattern.FindAll(text, 1, detector.Address) },
		func() ([]detector.Span, error) { return cityPattern.FindAll(text, 0, detector.Address) },
		func() ([]detector.Span, error) { return v.states(text) },
	}

	var err error
	for _, pass := range passes {
		var candidates []detector.Span
		candidates, err = pass()
		for _, c := range candidates {
			if !detector.OverlapsAny(c, accepted) {
				accepted = append(accepted, c)
			}
		}
		if err != nil {
			break
		}
	}

	detector.SortByStart(accepted)
	return accepted, err
}

// states returns state abbreviations that sit in an address context: a
// "City, " or a "Location:" label within the preceding window.
func (v *Validator) states(text string) ([]detector.Span, error) {
	candidates, err := statePattern.FindAll(text, 0, detector.Address)
	if err != nil {
		return nil, err
	}

	ctx := detector.NewContextExtractor(text)
	var states []detector.Span
	for _, s := range candidates {
		before := ctx.Before(s.Start, stateLookback)
		ok, err := cityCommaPattern.MatchString(before)
		if err == nil && !ok {
			ok, err = locationPattern.MatchString(before)
		}
		if err != nil {
			return states, err
		}
		if ok {
			states = append(states, s)
		}
	}
	return states, nil
}
