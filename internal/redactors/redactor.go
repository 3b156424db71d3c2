// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redactors replaces detected PII in document text with per-kind
// placeholder tokens and produces an audit log of every substitution.
package redactors

import (
	"strings"

	"docredact/internal/detector"
	"docredact/internal/observability"
	"docredact/internal/redactors/position"
	"docredact/internal/redactors/replacement"
	"docredact/internal/validators/address"
	"docredact/internal/validators/email"
	"docredact/internal/validators/personname"
	"docredact/internal/validators/phone"
	"docredact/internal/validators/zipcode"
)

// LogEntry records one substitution. Start and End are character offsets in
// the original text; RedactedStart is where Token begins in the output.
type LogEntry struct {
	Kind          detector.EntityKind `json:"kind"`
	Original      string              `json:"original"`
	Token         string              `json:"token"`
	Start         int                 `json:"start"`
	End           int                 `json:"end"`
	RedactedStart int                 `json:"redacted_start"`
}

// String renders the entry as `KIND: "original" -> token`.
func (e LogEntry) String() string {
	return e.Kind.String() + `: "` + e.Original + `" -> ` + e.Token
}

// Result is the outcome of a redaction call.
type Result struct {
	Redacted string
	Entries  []LogEntry
	Log      []string
}

// Counts returns the number of substitutions per kind label.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Entries {
		counts[e.Kind.String()]++
	}
	return counts
}

type binding struct {
	setting   string
	extractor detector.Extractor
}

// Engine runs the enabled extractors over normalized text, resolves
// overlaps and splices tokens into the original text. It holds no per-call
// state and is safe for concurrent use when its extractors are.
type Engine struct {
	bindings    []binding
	names       detector.Extractor
	observer    *observability.StandardObserver
	onScanError func(extractor string, err error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithNameExtractor replaces the default regex-only name extractor.
func WithNameExtractor(x detector.Extractor) Option {
	return func(e *Engine) {
		e.names = x
	}
}

// WithObserver sets the observer used for timing.
func WithObserver(o *observability.StandardObserver) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithScanErrorHook registers fn to be called when an extractor fails to
// scan the whole text.
func WithScanErrorHook(fn func(extractor string, err error)) Option {
	return func(e *Engine) {
		e.onScanError = fn
	}
}

// NewEngine returns an engine with the built-in extractors.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		observer: observability.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.names == nil {
		e.names = personname.NewExtractor(nil, personname.WithObserver(e.observer))
	}

	e.bindings = []binding{
		{SettingEmails, email.NewValidator()},
		{SettingPhones, phone.NewValidator()},
		{SettingAddresses, address.NewValidator()},
		{SettingAddresses, zipcode.NewValidator()},
		{SettingNames, e.names},
	}
	return e
}

// Redact replaces every enabled kind of PII in text. Settings keys that are
// absent or false disable the corresponding extractors.
//
// If any extractor fails to scan the whole text no result is returned, so
// PII past the failure point is never handed back unredacted.
func (e *Engine) Redact(text string, settings Settings) (*Result, error) {
	finish := e.observer.StartTiming("engine", "redact")

	norm := position.Normalize(text)

	var candidates []detector.Span
	for _, b := range e.bindings {
		if !settings.Enabled(b.setting) {
			continue
		}
		spans, err := b.extractor.Extract(norm.Text)
		if err != nil {
			name := b.extractor.Name()
			e.observer.Logger().Error().Err(err).Str("extractor", name).
				Int("length", norm.Len()).Msg("scan incomplete, redaction aborted")
			if e.onScanError != nil {
				e.onScanError(name, err)
			}
			finish(false, map[string]interface{}{"extractor": name, "error": err.Error()})
			return nil, NewRedactionError(ErrorScanning, name, "scan incomplete", err)
		}
		candidates = append(candidates, spans...)
	}

	spans := position.MapBack(detector.Resolve(candidates), norm.Map)
	detector.SortByStart(spans)

	result := splice([]rune(text), spans)

	finish(true, map[string]interface{}{
		"candidates": len(candidates),
		"redacted":   len(result.Entries),
		"settings":   settings.Keys(),
	})
	return result, nil
}

// splice walks spans in ascending order and replaces each with the next
// token of its kind, tracking how far the output has drifted from the input.
func splice(src []rune, spans []detector.Span) *Result {
	tokens := replacement.NewTokens()
	result := &Result{
		Entries: make([]LogEntry, 0, len(spans)),
		Log:     make([]string, 0, len(spans)),
	}

	var b strings.Builder
	b.Grow(len(src))

	prev, drift := 0, 0
	for _, s := range spans {
		if s.Start < prev || !s.Valid(len(src)) {
			continue
		}

		token := tokens.Next(s.Kind)
		entry := LogEntry{
			Kind:          s.Kind,
			Original:      string(src[s.Start:s.End]),
			Token:         token,
			Start:         s.Start,
			End:           s.End,
			RedactedStart: s.Start + drift,
		}

		b.WriteString(string(src[prev:s.Start]))
		b.WriteString(token)

		drift += len([]rune(token)) - s.Len()
		prev = s.End

		result.Entries = append(result.Entries, entry)
		result.Log = append(result.Log, entry.String())
	}
	b.WriteString(string(src[prev:]))

	result.Redacted = b.String()
	return result
}
