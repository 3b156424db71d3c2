// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/redactors"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{name: "fits", line: "Contact: [NAME_1]", width: 20, want: []string{"Contact: [NAME_1]"}},
		{name: "empty", line: "", width: 10, want: []string{""}},
		{name: "word boundary", line: "one two three four", width: 9, want: []string{"one two", "three", "four"}},
		{name: "long word split", line: "abcdefghij xy", width: 4, want: []string{"abcd", "efgh", "ij", "xy"}},
		{name: "runes not bytes", line: "José Ruiz", width: 9, want: []string{"José Ruiz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.line, tt.width))
		})
	}
}

func TestRenderer_Layout(t *testing.T) {
	g := DefaultPageGeometry()
	r, err := NewRenderer(g, nil)
	require.NoError(t, err)

	per := g.LinesPerPage()
	assert.Equal(t, 59, per)

	pages := r.Layout(strings.Repeat("line\n", per))
	require.Len(t, pages, 2, "trailing newline adds an empty line")
	assert.Len(t, pages[0], per)
	assert.Equal(t, []string{""}, pages[1])

	pages = r.Layout("")
	assert.Equal(t, [][]string{{""}}, pages)

	long := strings.Repeat("word ", 40)
	pages = r.Layout(long)
	require.Len(t, pages, 1)
	for _, line := range pages[0] {
		assert.LessOrEqual(t, len([]rune(line)), g.MaxLineChars)
	}
}

func TestRenderer_Describe(t *testing.T) {
	r, err := NewRenderer(DefaultPageGeometry(), nil)
	require.NoError(t, err)

	doc := r.describe([][]string{{"first", "", "third"}, {""}})
	require.Len(t, doc.Pages, 2)

	boxes := doc.Pages["1"].Content.Text
	require.Len(t, boxes, 2)
	assert.Equal(t, "first", boxes[0].Value)
	assert.Equal(t, [2]float64{40, 740}, boxes[0].Pos)
	assert.Equal(t, [2]float64{40, 716}, boxes[1].Pos)

	assert.Len(t, doc.Pages["2"].Content.Text, 1)
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(DefaultPageGeometry(), nil)
	require.NoError(t, err)

	text := strings.Repeat("Contact: [NAME_1], [EMAIL_1]\n", 100)
	out, err := r.Render(text)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	count, err := api.PageCount(bytes.NewReader(out), model.NewDefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, len(r.Layout(text)), count)
}

func TestNewRenderer_InvalidGeometry(t *testing.T) {
	g := DefaultPageGeometry()
	g.Margin = 400

	_, err := NewRenderer(g, nil)
	require.Error(t, err)
	assert.True(t, redactors.IsInputError(err))
}
