// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package position

// Normalized is whitespace-normalized text together with the offset in the
// source text that produced each of its characters.
type Normalized struct {
	// Text is the normalized text.
	Text string

	// Map holds, for every character index i of Text, the index of the
	// source character that produced it. len(Map) equals the character
	// length of Text and Map is non-decreasing.
	Map []int
}

// Len returns the length of the normalized text in characters.
func (n Normalized) Len() int {
	return len(n.Map)
}

// Normalize collapses runs of spaces and tabs into a single space while
// recording where every output character came from.
//
// Newlines pass through unchanged. A whitespace run is dropped entirely when
// it leads the text, follows a newline, trails the text, or precedes a
// newline, so line boundaries never gain stray spaces. Everything else is
// copied as is.
func Normalize(text string) Normalized {
	src := []rune(text)
	out := make([]rune, 0, len(src))
	pm := make([]int, 0, len(src))

	for i := 0; i < len(src); {
		switch c := src[i]; {
		case c == '\n':
			out = append(out, c)
			pm = append(pm, i)
			i++
		case isHorizontalSpace(c):
			runStart := i
			for i < len(src) && isHorizontalSpace(src[i]) {
				i++
			}
			if len(out) > 0 && out[len(out)-1] != '\n' && i < len(src) && src[i] != '\n' {
				out = append(out, ' ')
				pm = append(pm, runStart)
			}
		default:
			out = append(out, c)
			pm = append(pm, i)
			i++
		}
	}

	return Normalized{Text: string(out), Map: pm}
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
