// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"strings"

	"docredact/internal/detector"
)

// cityZipWindow is how many characters after a candidate are searched for
// a ", 12345" suffix.
const cityZipWindow = 16

const labels = `Name|Manager|Supervisor|Contact|Employee|Customer|Client|Borrower|Author|Reviewer|From`

var (
	// "<Label>: First Last" running to the end of the line. Group 1 is the name.
	labelPattern = detector.MustCompile(
		`\b(?i:`+labels+`)\s*:\s*([A-Z][a-z]+(?:[ ][A-Z][a-z]+)+)(?=\s*\n|$)`,
		false)

	// Two or more consecutive capitalized words.
	capitalizedPattern = detector.MustCompile(`\b[A-Z][a-z]+(?:[ ][A-Z][a-z]+)+\b`, false)

	titlePattern = detector.MustCompile(`\b(?:Dr|Mr|Ms|Mrs|Prof)\b\.?`, true)

	// A comma and ZIP right after the candidate.
	cityZipPattern = detector.MustCompile(`^,\s*\d{5}`, false)

	// "3rd ", "12th " directly before the candidate.
	ordinalPattern = detector.MustCompile(`\d+(?:st|nd|rd|th)\s+$`, false)
)

// fieldLabels are form-field and building words that never form part of a
// person name.
var fieldLabels = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		name email phone address contact emergency customer employee client
		record information details subject floor tower building suite unit
		room apt apartment office level wing library card checkout borrower
		book title author publisher notes date return manager to from cc bcc`) {
		fieldLabels[w] = struct{}{}
	}
}

// isFieldLabel reports whether text is a field label or contains one as a
// whole word, ignoring case and surrounding colons.
func isFieldLabel(text string) bool {
	cleaned := strings.TrimSpace(strings.Trim(strings.ToLower(text), ":"))
	if _, ok := fieldLabels[cleaned]; ok {
		return true
	}
	for _, w := range strings.Fields(cleaned) {
		if _, ok := fieldLabels[w]; ok {
			return true
		}
	}
	return false
}
