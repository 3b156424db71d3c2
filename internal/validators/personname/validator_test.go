// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/detector"
	"docredact/internal/ner"
)

func names(spans []detector.Span) []string {
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.Text)
	}
	return out
}

func TestExtractor_Regex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"mid-sentence name", "Meeting with John Smith tomorrow", []string{"John Smith"}},
		{"name before email", "Contact: John Smith, john.smith@example.com", []string{"John Smith"}},
		{"document title", "John Smith wrote this", []string{}},
		{"line heading", "Report\nJane Doe approved", []string{}},
		{"line heading with colon", "Report\nJane Doe: approved", []string{"Jane Doe"}},
		{"city before zip", "We flew into Green Bay, 54301 on Monday", []string{}},
		{"city at end of text", "They moved to New York.", []string{}},
		{"after ordinal", "Meet at the 3rd Avenue Deli", []string{}},
		{"field labels", "Send the Customer Details today", []string{}},
		{"label only", "Name:", []string{}},
		{"label with field words", "Name: Customer Service", []string{}},
	}

	e := NewExtractor(nil)
	require.Equal(t, StrategyRegex, e.Strategy())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			for _, s := range got {
				assert.Equal(t, detector.Name, s.Kind)
			}
		})
	}
}

func TestExtractor_LabelPass(t *testing.T) {
	e := NewExtractor(nil)

	got, err := e.Extract("Ticket 42\nAuthor: Ada Lovelace")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, detector.Span{Start: 18, End: 30, Text: "Ada Lovelace", Kind: detector.Name}, got[0])

	got, err = e.Extract("sent from: Jane Roe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Roe"}, names(got))
}

func TestExtractor_ModelStrategy(t *testing.T) {
	text := "Please ask Dr. Smith, then call Jones tomorrow"
	rec := ner.RecognizerFunc(func(s string) ([]ner.Entity, error) {
		require.Equal(t, text, s)
		return []ner.Entity{
			{Start: 0, End: 6, Label: "ORG"},
			{Start: 15, End: 20, Label: ner.LabelPerson},
			{Start: 32, End: 37, Label: ner.LabelPerson},
		}, nil
	})

	e := NewExtractor(rec)
	require.Equal(t, StrategyNER, e.Strategy())

	// "Jones" has no courtesy title in range, "Smith" does.
	got, err := e.Extract(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith"}, names(got))
}

func TestExtractor_ModelStrategyClampsOffsets(t *testing.T) {
	rec := ner.RecognizerFunc(func(string) ([]ner.Entity, error) {
		return []ner.Entity{
			{Start: 13, End: 100, Label: ner.LabelPerson},
			{Start: 40, End: 50, Label: ner.LabelPerson},
		}, nil
	})

	got, err := NewExtractor(rec).Extract("Meeting with John Smith")
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith"}, names(got))
}

func TestExtractor_LabelBeatsModel(t *testing.T) {
	rec := ner.RecognizerFunc(func(string) ([]ner.Entity, error) {
		return []ner.Entity{{Start: 9, End: 14, Label: ner.LabelPerson}}, nil
	})

	got, err := NewExtractor(rec).Extract("Contact: John Smith\n")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Start)
	assert.Equal(t, 19, got[0].End)
}

func TestExtractor_FallsBackWhenModelFails(t *testing.T) {
	rec := ner.RecognizerFunc(func(string) ([]ner.Entity, error) {
		return nil, errors.New("sidecar down")
	})

	var fallbacks int
	e := NewExtractor(rec, WithFallbackHook(func(err error) { fallbacks++ }))

	got, err := e.Extract("Meeting with John Smith tomorrow")
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith"}, names(got))
	assert.Equal(t, 1, fallbacks)
	assert.Equal(t, StrategyNER, e.Strategy(), "fallback is per call")
}

type brokenStrategy struct{}

func (brokenStrategy) Name() string { return StrategyRegex }

func (brokenStrategy) Candidates(string) ([]detector.Span, error) {
	return nil, detector.ErrMatchTimeout
}

func TestExtractor_RegexFailureIsReturned(t *testing.T) {
	var fallbacks int
	e := NewExtractor(nil, WithFallbackHook(func(error) { fallbacks++ }))
	e.general = brokenStrategy{}

	got, err := e.Extract("Contact: John Smith\nMeeting with Jane Roe")
	require.ErrorIs(t, err, detector.ErrMatchTimeout)
	assert.Equal(t, []string{"John Smith"}, names(got), "label matches found before the failure are kept")
	assert.Zero(t, fallbacks)
}

func TestExtractor_CityWindow(t *testing.T) {
	e := NewExtractor(nil)

	got, err := e.Extract("Send it to Jane Roe.  \n\n")
	require.NoError(t, err)
	assert.Empty(t, got, "a period ending the text marks a city")

	got, err = e.Extract("Send it to Jane Roe. Thanks")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Roe"}, names(got))
}

func TestIsFieldLabel(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Name:", true},
		{"Customer Service", true},
		{"TO", true},
		{"John Smith", false},
		{"Toby Ray", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isFieldLabel(tt.text), tt.text)
	}
}
