// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"docredact/internal/detector"
	"docredact/internal/ner"
)

// Strategy names.
const (
	StrategyNER   = "ner"
	StrategyRegex = "regex"
)

// Strategy proposes general-pass name candidates. Candidates are filtered
// by the Extractor before they are accepted.
type Strategy interface {
	Name() string
	Candidates(text string) ([]detector.Span, error)
}

// modelStrategy proposes the PERSON entities found by a recognizer.
type modelStrategy struct {
	recognizer ner.Recognizer
}

func (s modelStrategy) Name() string {
	return StrategyNER
}

func (s modelStrategy) Candidates(text string) ([]detector.Span, error) {
	entities, err := s.recognizer.Annotate(text)
	if err != nil {
		return nil, err
	}

	runes := []rune(text)
	var spans []detector.Span
	for _, e := range entities {
		if e.Label != ner.LabelPerson {
			continue
		}
		start, end := max(e.Start, 0), min(e.End, len(runes))
		if start >= end {
			continue
		}
		spans = append(spans, detector.Span{
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
			Kind:  detector.Name,
		})
	}
	return spans, nil
}

// regexStrategy proposes runs of capitalized words.
type regexStrategy struct{}

func (regexStrategy) Name() string {
	return StrategyRegex
}

func (regexStrategy) Candidates(text string) ([]detector.Span, error) {
	return capitalizedPattern.FindAll(text, 0, detector.Name)
}
