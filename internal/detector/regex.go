// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single scan so a pathological document cannot pin a
// request on backtracking.
const matchTimeout = 2 * time.Second

// ErrMatchTimeout is returned when a scan exceeds its time budget. Spans
// found before the timeout are returned alongside it, but the text past that
// point was not scanned.
var ErrMatchTimeout = errors.New("pattern match timed out")

// Pattern is a compiled backtracking regular expression. Match offsets are
// reported in characters, not bytes, so they line up with position maps.
type Pattern struct {
	re *regexp2.Regexp
}

// MustCompile compiles expr or panics. Patterns are package-level constants,
// so a compile failure is a programming error.
func MustCompile(expr string, ignoreCase bool) *Pattern {
	opts := regexp2.None
	if ignoreCase {
		opts = regexp2.IgnoreCase
	}
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = matchTimeout
	return &Pattern{re: re}
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) (bool, error) {
	ok, err := p.re.MatchString(s)
	if err != nil {
		return false, p.timeout(err)
	}
	return ok, nil
}

// FindAll returns one span per non-overlapping match. When group is
// non-zero the span covers that capture group instead of the whole match;
// matches where the group did not participate are skipped.
func (p *Pattern) FindAll(text string, group int, kind EntityKind) ([]Span, error) {
	var spans []Span

	m, err := p.re.FindStringMatch(text)
	for m != nil {
		g := m.GroupByNumber(group)
		if g != nil && len(g.Captures) > 0 && g.Length > 0 {
			spans = append(spans, Span{
				Start: g.Index,
				End:   g.Index + g.Length,
				Text:  g.String(),
				Kind:  kind,
			})
		}
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return spans, p.timeout(err)
	}

	return spans, nil
}

// timeout wraps a regexp2 runtime error. The regexp2 message embeds the
// input text, so only the budget is reported.
func (p *Pattern) timeout(error) error {
	return fmt.Errorf("%w after %v", ErrMatchTimeout, p.re.MatchTimeout)
}
