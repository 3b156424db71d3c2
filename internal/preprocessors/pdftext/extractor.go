// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftext extracts plain text from PDF documents held in memory.
package pdftext

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docredact/internal/observability"
)

// ExtractionError reports why a document could not be turned into text.
// Page is 1-based and zero when the failure is not page specific.
type ExtractionError struct {
	Op   string
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("pdf %s (page %d): %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("pdf %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Document is the text of a PDF, one entry per page.
type Document struct {
	// Pages maps 1-based page numbers to page text.
	Pages     map[int]string
	PageCount int
	// SkippedPages lists pages that failed and were replaced by empty text.
	SkippedPages []int
}

// Text joins the pages in page order with a newline between pages.
func (d *Document) Text() string {
	parts := make([]string, 0, d.PageCount)
	for i := 1; i <= d.PageCount; i++ {
		parts = append(parts, d.Pages[i])
	}
	return strings.Join(parts, "\n")
}

// Options configures an Extractor.
type Options struct {
	// Validate runs a relaxed pdfcpu structural validation before extraction.
	Validate bool
	// MaxPages stops after this many pages. Zero means no limit.
	MaxPages int
	// SkipBadPages replaces pages that fail to parse with empty text instead
	// of failing the whole document.
	SkipBadPages bool
}

// Extractor reads PDF bytes into a Document. It is safe for concurrent use.
type Extractor struct {
	opts     Options
	observer *observability.StandardObserver
}

// NewExtractor creates an extractor. A nil observer disables timing.
func NewExtractor(opts Options, observer *observability.StandardObserver) *Extractor {
	if observer == nil {
		observer = observability.Nop()
	}
	return &Extractor{opts: opts, observer: observer}
}

// Extract parses data and returns its text. Every failure is an
// *ExtractionError.
func (x *Extractor) Extract(data []byte) (doc *Document, err error) {
	finish := x.observer.StartTiming("pdftext", "extract")
	defer func() {
		meta := map[string]interface{}{"bytes": len(data)}
		if doc != nil {
			meta["pages"] = doc.PageCount
			meta["skipped"] = len(doc.SkippedPages)
		}
		finish(err == nil, meta)
	}()

	if len(data) == 0 {
		return nil, &ExtractionError{Op: "open", Err: fmt.Errorf("empty document")}
	}

	if x.opts.Validate {
		if err := validate(data); err != nil {
			return nil, &ExtractionError{Op: "validate", Err: err}
		}
	}

	r, err := openReader(data)
	if err != nil {
		return nil, &ExtractionError{Op: "open", Err: err}
	}

	count := r.NumPage()
	if x.opts.MaxPages > 0 && count > x.opts.MaxPages {
		count = x.opts.MaxPages
	}

	doc = &Document{Pages: make(map[int]string, count), PageCount: count}
	for i := 1; i <= count; i++ {
		text, err := pageText(r, i)
		if err != nil {
			if !x.opts.SkipBadPages {
				return nil, &ExtractionError{Op: "read", Page: i, Err: err}
			}
			x.observer.Logger().Warn().Err(err).Int("page", i).Msg("skipping unreadable page")
			doc.SkippedPages = append(doc.SkippedPages, i)
			text = ""
		}
		doc.Pages[i] = text
	}
	return doc, nil
}

func validate(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(data), conf)
}

// openReader guards against the parser panicking on malformed input.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed document: %v", p)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageText(r *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed page: %v", p)
		}
	}()

	p := r.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("null page")
	}

	rows, err := p.GetTextByRow()
	if err != nil {
		// Fall back to content-order extraction.
		return p.GetPlainText(nil)
	}
	return joinRows(rows), nil
}

// joinRows orders rows top to bottom (PDF y grows upwards) and rebuilds
// each row left to right.
func joinRows(rows pdf.Rows) string {
	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	lines := make([]string, 0, len(sorted))
	for _, row := range sorted {
		if line := rowText(row.Content); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func averageY(texts []pdf.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// rowText concatenates a row's fragments, inserting a space where the gap
// to the next fragment exceeds a fifth of the font size.
func rowText(texts []pdf.Text) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	for i, t := range sorted {
		b.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		size := t.FontSize
		if size <= 0 {
			size = 12
		}
		next := sorted[i+1]
		if next.X-(t.X+t.W) > size*0.2 && !strings.HasSuffix(t.S, " ") && !strings.HasPrefix(next.S, " ") {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
