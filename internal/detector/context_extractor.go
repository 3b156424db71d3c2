// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "unicode"

// ContextExtractor slices fixed-width character windows around a span.
// Windows are clamped to the text bounds.
type ContextExtractor struct {
	text []rune

	// tail is the offset after the last non-whitespace character.
	tail int
}

// NewContextExtractor creates a context extractor over text.
func NewContextExtractor(text string) *ContextExtractor {
	ce := &ContextExtractor{text: []rune(text)}
	for i := len(ce.text); i > 0; i-- {
		if !unicode.IsSpace(ce.text[i-1]) {
			ce.tail = i
			break
		}
	}
	return ce
}

// Len returns the length of the text in characters.
func (ce *ContextExtractor) Len() int {
	return len(ce.text)
}

// Before returns up to n characters immediately preceding offset.
func (ce *ContextExtractor) Before(offset, n int) string {
	offset = ce.clamp(offset)
	start := max(0, offset-n)
	return string(ce.text[start:offset])
}

// After returns up to n characters starting at offset.
func (ce *ContextExtractor) After(offset, n int) string {
	offset = ce.clamp(offset)
	end := min(len(ce.text), offset+n)
	return string(ce.text[offset:end])
}

// BlankFrom reports whether only whitespace follows offset.
func (ce *ContextExtractor) BlankFrom(offset int) bool {
	return offset >= ce.tail
}

// At returns the character at offset, or 0 when offset is out of range.
func (ce *ContextExtractor) At(offset int) rune {
	if offset < 0 || offset >= len(ce.text) {
		return 0
	}
	return ce.text[offset]
}

func (ce *ContextExtractor) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(ce.text) {
		return len(ce.text)
	}
	return offset
}
