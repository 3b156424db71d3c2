// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package position

import "docredact/internal/detector"

// MapBack translates spans found in normalized text into source-text
// coordinates using the normalizer's position map.
//
// A span [start, end) becomes [pm[start], pm[end-1]+1). Spans that are empty
// or reach past the end of the map are dropped. Text and Kind are preserved.
func MapBack(spans []detector.Span, pm []int) []detector.Span {
	mapped := make([]detector.Span, 0, len(spans))
	for _, s := range spans {
		if !s.Valid(len(pm)) {
			continue
		}
		mapped = append(mapped, detector.Span{
			Start: pm[s.Start],
			End:   pm[s.End-1] + 1,
			Text:  s.Text,
			Kind:  s.Kind,
		})
	}
	return mapped
}
