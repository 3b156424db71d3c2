// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "sort"

// Resolve merges candidates from every extractor into a pairwise
// non-overlapping set. Candidates are ordered by start offset, then kind
// priority, then length (longest first), and accepted greedily.
//
// The returned slice is ordered by start offset. The input is not modified.
func Resolve(candidates []Span) []Span {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Span, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Kind.Priority() != b.Kind.Priority() {
			return a.Kind.Priority() < b.Kind.Priority()
		}
		return a.Len() > b.Len()
	})

	// Every accepted span starts at or before the current candidate, so the
	// candidate overlaps one of them iff it starts before the furthest end.
	result := make([]Span, 0, len(sorted))
	furthest := -1
	for _, c := range sorted {
		if c.Len() <= 0 {
			continue
		}
		if c.Start < furthest {
			continue
		}
		result = append(result, c)
		furthest = c.End
	}

	return result
}

// SortByStart orders spans by start offset, breaking ties by end offset.
func SortByStart(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
}
