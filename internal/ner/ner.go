// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ner defines the named-entity recognition capability used by the
// name extractor and provides an HTTP client for an NER sidecar.
package ner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LabelPerson is the entity label for person names.
const LabelPerson = "PERSON"

// Entity is a labeled span. Start and End are character (rune) offsets into
// the annotated text.
type Entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
	Text  string `json:"text,omitempty"`
}

// Recognizer annotates text with named entities. Implementations must be
// safe for concurrent use.
type Recognizer interface {
	Annotate(text string) ([]Entity, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(text string) ([]Entity, error)

// Annotate implements Recognizer.
func (f RecognizerFunc) Annotate(text string) ([]Entity, error) {
	return f(text)
}

// Pinger is implemented by recognizers that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Select probes r once and returns it if it is available, or nil so the
// caller falls back to pattern-based name detection. A recognizer that does
// not implement Pinger is assumed available.
func Select(ctx context.Context, r Recognizer, timeout time.Duration, logger zerolog.Logger) Recognizer {
	if r == nil {
		logger.Info().Msg("NER disabled, using regex name detection")
		return nil
	}

	p, ok := r.(Pinger)
	if !ok {
		return r
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("NER sidecar unavailable, using regex name detection")
		return nil
	}
	logger.Info().Msg("NER sidecar available, using model name detection")
	return r
}
