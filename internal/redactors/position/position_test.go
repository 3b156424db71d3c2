// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package position

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/detector"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
		wantMap  []int
	}{
		{"empty", "", "", []int{}},
		{"collapse run", "a  b", "a b", []int{0, 1, 3}},
		{"tab becomes space", "a\tb", "a b", []int{0, 1, 2}},
		{"leading run dropped", "  a", "a", []int{2}},
		{"trailing run dropped", "a \t ", "a", []int{0}},
		{"run before newline dropped", "a  \nb", "a\nb", []int{0, 3, 4}},
		{"run after newline dropped", "a\n  b", "a\nb", []int{0, 1, 4}},
		{"newlines kept", "a\n\nb", "a\n\nb", []int{0, 1, 2, 3}},
		{"multibyte characters", "é  ü", "é ü", []int{0, 1, 3}},
		{"carriage return is ordinary", "a \r\nb", "a \r\nb", []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantMap, got.Map)
			assert.Equal(t, len([]rune(got.Text)), got.Len())
		})
	}
}

func TestNormalize_MapIsMonotonic(t *testing.T) {
	got := Normalize("  Name:\t\tJohn   Smith  \n\n   Phone:  555 123 4567   ")
	for i := 1; i < len(got.Map); i++ {
		assert.LessOrEqual(t, got.Map[i-1], got.Map[i])
	}
}

func TestMapBack(t *testing.T) {
	n := Normalize("Call  John   Smith")
	require.Equal(t, "Call John Smith", n.Text)

	spans := []detector.Span{{Start: 5, End: 15, Text: "John Smith", Kind: detector.Name}}
	got := MapBack(spans, n.Map)

	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].Start)
	assert.Equal(t, 18, got[0].End)
	assert.Equal(t, "John Smith", got[0].Text)
	assert.Equal(t, detector.Name, got[0].Kind)
}

func TestMapBack_DropsOutOfRange(t *testing.T) {
	pm := []int{0, 1, 2}
	spans := []detector.Span{
		{Start: 0, End: 4},
		{Start: 2, End: 2},
		{Start: 1, End: 3},
	}

	got := MapBack(spans, pm)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Start)
	assert.Equal(t, 3, got[0].End)
}

func TestMapBack_RoundTripModuloWhitespace(t *testing.T) {
	original := "Contact:   Jane\t Doe  \n  Email:  jane@x.io  "
	n := Normalize(original)
	src := []rune(original)
	norm := []rune(n.Text)

	for start := 0; start < len(norm); start++ {
		for end := start + 1; end <= len(norm); end++ {
			span := detector.Span{Start: start, End: end}
			mapped := MapBack([]detector.Span{span}, n.Map)
			require.Len(t, mapped, 1)

			want := strings.Fields(string(norm[start:end]))
			got := strings.Fields(string(src[mapped[0].Start:mapped[0].End]))
			assert.Equal(t, want, got, "span [%d,%d)", start, end)
		}
	}
}
