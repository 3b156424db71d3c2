// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdf renders redacted text into a paginated PDF document.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docredact/internal/observability"
	"docredact/internal/redactors"
)

// PageGeometry describes the page layout in PDF points.
type PageGeometry struct {
	Paper        string
	Width        float64
	Height       float64
	Margin       float64
	LineHeight   float64
	FontName     string
	FontSize     int
	MaxLineChars int
}

// DefaultPageGeometry is US Letter with 40pt margins and 90-character lines.
func DefaultPageGeometry() PageGeometry {
	return PageGeometry{
		Paper:        "Letter",
		Width:        612,
		Height:       792,
		Margin:       40,
		LineHeight:   12,
		FontName:     "Helvetica",
		FontSize:     10,
		MaxLineChars: 90,
	}
}

// LinesPerPage is how many lines fit between the top and bottom margins.
func (g PageGeometry) LinesPerPage() int {
	n := int((g.Height - 2*g.Margin) / g.LineHeight)
	if n < 1 {
		return 1
	}
	return n
}

func (g PageGeometry) validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return fmt.Errorf("page size must be positive")
	case g.Margin < 0 || 2*g.Margin >= g.Width || 2*g.Margin >= g.Height:
		return fmt.Errorf("margin %.1f does not fit the page", g.Margin)
	case g.LineHeight <= 0:
		return fmt.Errorf("line height must be positive")
	case g.MaxLineChars <= 0:
		return fmt.Errorf("max line chars must be positive")
	case g.FontName == "" || g.FontSize <= 0:
		return fmt.Errorf("font must be set")
	}
	return nil
}

// Renderer turns plain text into PDF bytes.
type Renderer struct {
	geometry PageGeometry
	conf     *model.Configuration
	observer *observability.StandardObserver
}

// NewRenderer creates a renderer. A nil observer disables timing.
func NewRenderer(geometry PageGeometry, observer *observability.StandardObserver) (*Renderer, error) {
	if err := geometry.validate(); err != nil {
		return nil, redactors.NewRedactionError(redactors.ErrorConfiguration, "pdf", "invalid page geometry", err)
	}
	if observer == nil {
		observer = observability.Nop()
	}
	return &Renderer{
		geometry: geometry,
		conf:     model.NewDefaultConfiguration(),
		observer: observer,
	}, nil
}

// Geometry returns the renderer's page layout.
func (r *Renderer) Geometry() PageGeometry {
	return r.geometry
}

// Render lays text out top to bottom, wrapping long lines on word
// boundaries and starting a new page when the bottom margin is reached.
func (r *Renderer) Render(text string) (out []byte, err error) {
	finish := r.observer.StartTiming("pdf", "render")
	pages := r.Layout(text)
	defer func() {
		finish(err == nil, map[string]interface{}{"pages": len(pages), "bytes": len(out)})
	}()

	desc, err := json.Marshal(r.describe(pages))
	if err != nil {
		return nil, redactors.NewRedactionError(redactors.ErrorRendering, "pdf", "encoding page description", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, r.conf); err != nil {
		return nil, redactors.NewRedactionError(redactors.ErrorRendering, "pdf", "creating document", err)
	}
	return buf.Bytes(), nil
}

// Layout splits text into pages of wrapped lines. It always returns at
// least one page.
func (r *Renderer) Layout(text string) [][]string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		lines = append(lines, wrap(strings.ReplaceAll(line, "\t", "    "), r.geometry.MaxLineChars)...)
	}

	per := r.geometry.LinesPerPage()
	var pages [][]string
	for len(lines) > per {
		pages = append(pages, lines[:per])
		lines = lines[per:]
	}
	return append(pages, lines)
}

// wrap breaks line into pieces of at most width runes, preferring to break
// at spaces. Words longer than width are split.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var cur []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			out = append(out, string(cur))
			cur = append([]rune(nil), w...)
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type textBox struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  fontSpec   `json:"font"`
}

type pageContent struct {
	Text []textBox `json:"text"`
}

type pageDesc struct {
	Content pageContent `json:"content"`
}

type document struct {
	Paper  string              `json:"paper"`
	Origin string              `json:"origin"`
	Pages  map[string]pageDesc `json:"pages"`
}

func (r *Renderer) describe(pages [][]string) document {
	g := r.geometry
	doc := document{
		Paper:  g.Paper,
		Origin: "LowerLeft",
		Pages:  make(map[string]pageDesc, len(pages)),
	}

	font := fontSpec{Name: g.FontName, Size: g.FontSize}
	top := g.Height - g.Margin - g.LineHeight
	for i, lines := range pages {
		var boxes []textBox
		for j, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			boxes = append(boxes, textBox{
				Value: line,
				Pos:   [2]float64{g.Margin, top - float64(j)*g.LineHeight},
				Font:  font,
			})
		}
		if len(boxes) == 0 {
			// pdfcpu needs some content to emit the page.
			boxes = []textBox{{Value: " ", Pos: [2]float64{g.Margin, top}, Font: font}}
		}
		doc.Pages[strconv.Itoa(i+1)] = pageDesc{Content: pageContent{Text: boxes}}
	}
	return doc
}
