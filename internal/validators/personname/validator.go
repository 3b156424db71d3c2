// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"strings"

	"docredact/internal/detector"
	"docredact/internal/ner"
	"docredact/internal/observability"
)

// Extractor finds person names in two passes. The label-anchored pass looks
// for "Name: First Last" style fields; the general pass asks a Strategy for
// candidates and keeps those that survive contextual filters. Label matches
// take precedence over general matches.
type Extractor struct {
	general    Strategy
	fallback   Strategy
	observer   *observability.StandardObserver
	onFallback func(err error)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithObserver sets the observer used for timing and fallback warnings.
func WithObserver(o *observability.StandardObserver) Option {
	return func(e *Extractor) {
		e.observer = o
	}
}

// WithFallbackHook registers fn to be called whenever the recognizer fails
// and a call falls back to the regex strategy.
func WithFallbackHook(fn func(err error)) Option {
	return func(e *Extractor) {
		e.onFallback = fn
	}
}

// NewExtractor returns a name extractor. A non-nil recognizer selects the
// model strategy; nil selects the regex strategy.
func NewExtractor(recognizer ner.Recognizer, opts ...Option) *Extractor {
	e := &Extractor{
		general:  regexStrategy{},
		fallback: regexStrategy{},
		observer: observability.Nop(),
	}
	if recognizer != nil {
		e.general = modelStrategy{recognizer: recognizer}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements detector.Extractor.
func (e *Extractor) Name() string {
	return "name"
}

// Strategy returns the name of the general-pass strategy.
func (e *Extractor) Strategy() string {
	return e.general.Name()
}

// Extract implements detector.Extractor. A recognizer error falls back to
// the regex strategy for this call only; pattern errors are returned.
func (e *Extractor) Extract(text string) ([]detector.Span, error) {
	finish := e.observer.StartTiming("personname", "extract")

	labeled, err := e.labeled(text)
	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	candidates, err := e.general.Candidates(text)
	fellBack := err != nil && e.general.Name() != e.fallback.Name()
	if fellBack {
		e.observer.Logger().Warn().Err(err).Str("strategy", e.general.Name()).
			Msg("name strategy failed, falling back to regex")
		if e.onFallback != nil {
			e.onFallback(err)
		}
		candidates, err = e.fallback.Candidates(text)
	}
	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return labeled, err
	}

	ctx := detector.NewContextExtractor(text)
	found := labeled
	for _, c := range candidates {
		ok, err := e.keep(c, labeled, ctx)
		if err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			detector.SortByStart(found)
			return found, err
		}
		if ok {
			found = append(found, c)
		}
	}
	detector.SortByStart(found)

	finish(true, map[string]interface{}{
		"labeled":  len(labeled),
		"found":    len(found),
		"fallback": fellBack,
		"strategy": e.general.Name(),
	})
	return found, nil
}

// labeled runs the label-anchored pass.
func (e *Extractor) labeled(text string) ([]detector.Span, error) {
	matches, err := labelPattern.FindAll(text, 1, detector.Name)
	if err != nil {
		return nil, err
	}

	var spans []detector.Span
	for _, m := range matches {
		name := strings.TrimRight(m.Text, ": \t\r\n")
		if name == "" || isFieldLabel(name) {
			continue
		}
		m.End = m.Start + len([]rune(name))
		m.Text = name
		spans = append(spans, m)
	}
	return spans, nil
}

// keep applies the general-pass filters to one candidate.
func (e *Extractor) keep(c detector.Span, labeled []detector.Span, ctx *detector.ContextExtractor) (bool, error) {
	if detector.OverlapsAny(c, labeled) || isFieldLabel(c.Text) {
		return false, nil
	}

	// Likely a document title.
	if c.Start < 5 {
		return false, nil
	}

	// A line-leading candidate is a heading unless it reads like "Name: ...".
	if c.Start == 0 || ctx.At(c.Start-1) == '\n' {
		if !strings.Contains(ctx.After(c.End, 20), ":") {
			return false, nil
		}
	}

	if len(strings.Fields(c.Text)) == 1 {
		titled, err := titlePattern.MatchString(ctx.Before(c.Start, 20))
		if err != nil || !titled {
			return false, err
		}
	}

	// A comma and ZIP, or a period that ends the text: the words were a city.
	if ctx.At(c.End) == '.' && ctx.BlankFrom(c.End+1) {
		return false, nil
	}
	city, err := cityZipPattern.MatchString(ctx.After(c.End, cityZipWindow))
	if err != nil || city {
		return false, err
	}

	ordinal, err := ordinalPattern.MatchString(ctx.Before(c.Start, 20))
	return !ordinal, err
}
