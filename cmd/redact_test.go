// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/config"
	"docredact/internal/detector"
	"docredact/internal/observability"
	"docredact/internal/preprocessors/pdftext"
	"docredact/internal/redactors"
	"docredact/internal/redactors/pdf"
	"docredact/internal/validators/personname"
)

func testApp(t *testing.T) *app {
	t.Helper()
	renderer, err := pdf.NewRenderer(pdf.DefaultPageGeometry(), nil)
	require.NoError(t, err)

	names := personname.NewExtractor(nil)
	return &app{
		cfg:       config.Default(),
		logger:    zerolog.Nop(),
		observer:  observability.Nop(),
		names:     names,
		engine:    redactors.NewEngine(redactors.WithNameExtractor(names)),
		extractor: pdftext.NewExtractor(pdftext.Options{}, nil),
		renderer:  renderer,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRunRedact_Text(t *testing.T) {
	a := testApp(t)
	path := writeFile(t, "contact.txt", "Contact: John Smith, john.smith@example.com")

	var stdout, stderr bytes.Buffer
	opts := redactOptions{file: path, format: "text"}
	settings := redactors.Settings{redactors.SettingNames: true, redactors.SettingEmails: true}

	require.NoError(t, runRedact(a, opts, settings, &stdout, &stderr, false))
	assert.Equal(t, "Contact: [NAME_1], [EMAIL_1]", stdout.String())
	assert.Equal(t, "NAME: \"John Smith\" -> [NAME_1]\nEMAIL: \"john.smith@example.com\" -> [EMAIL_1]\n", stderr.String())
}

func TestRunRedact_JSONToFile(t *testing.T) {
	a := testApp(t)
	path := writeFile(t, "phone.txt", "Call +1 555 - 2345678901")
	out := filepath.Join(t.TempDir(), "out.json")

	var stdout, stderr bytes.Buffer
	opts := redactOptions{file: path, format: "json", output: out}
	require.NoError(t, runRedact(a, opts, redactors.AllSettings(), &stdout, &stderr, false))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got struct {
		ID       string `json:"id"`
		Redacted string `json:"redacted"`
		Entries  []struct {
			Kind  string `json:"kind"`
			Start int    `json:"start"`
		} `json:"entries"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Call +1 [PHONE_1]", got.Redacted)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "PHONE", got.Entries[0].Kind)
	assert.Equal(t, 8, got.Entries[0].Start)
	assert.Equal(t, map[string]int{"PHONE": 1}, got.Counts)
}

func TestRunRedact_Errors(t *testing.T) {
	a := testApp(t)

	err := runRedact(a, redactOptions{file: "x.txt", format: "xml"}, nil, &bytes.Buffer{}, &bytes.Buffer{}, false)
	assert.True(t, redactors.IsInputError(err))

	err = runRedact(a, redactOptions{file: "/nonexistent/in.txt", format: "text"}, nil, &bytes.Buffer{}, &bytes.Buffer{}, false)
	assert.True(t, redactors.IsInputError(err))

	// a broken PDF fails extraction and never reaches the engine
	bad := writeFile(t, "broken.pdf", "not really a pdf")
	var stdout bytes.Buffer
	err = runRedact(a, redactOptions{file: bad, format: "text"}, redactors.AllSettings(), &stdout, &bytes.Buffer{}, false)
	require.Error(t, err)
	var ee *pdftext.ExtractionError
	assert.ErrorAs(t, err, &ee)
	assert.Empty(t, stdout.String())
}

type stalledExtractor struct{}

func (stalledExtractor) Name() string { return "name" }

func (stalledExtractor) Extract(string) ([]detector.Span, error) {
	return nil, detector.ErrMatchTimeout
}

func TestRunRedact_ScanFailureWritesNothing(t *testing.T) {
	a := testApp(t)
	a.engine = redactors.NewEngine(redactors.WithNameExtractor(stalledExtractor{}))
	path := writeFile(t, "contact.txt", "Contact: John Smith")
	out := filepath.Join(t.TempDir(), "out.txt")

	var stdout, stderr bytes.Buffer
	err := runRedact(a, redactOptions{file: path, format: "text", output: out}, redactors.AllSettings(), &stdout, &stderr, false)
	require.ErrorIs(t, err, detector.ErrMatchTimeout)
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, out)
}

func TestRedactOptions_Settings(t *testing.T) {
	a := testApp(t)

	s, err := redactOptions{all: true}.settings(a)
	require.NoError(t, err)
	assert.Equal(t, redactors.AllSettings(), s)

	s, err = redactOptions{phones: true, names: true}.settings(a)
	require.NoError(t, err)
	assert.Equal(t, redactors.Settings{redactors.SettingPhones: true, redactors.SettingNames: true}, s)

	s, err = redactOptions{profile: "contact"}.settings(a)
	require.NoError(t, err)
	assert.Equal(t, redactors.Settings{redactors.SettingEmails: true, redactors.SettingPhones: true}, s)

	s, err = redactOptions{}.settings(a)
	require.NoError(t, err)
	assert.Equal(t, redactors.AllSettings(), s)

	_, err = redactOptions{profile: "missing"}.settings(a)
	assert.True(t, redactors.IsInputError(err))
}

func TestPrintLog_Empty(t *testing.T) {
	var buf bytes.Buffer
	printLog(&buf, nil, false)
	assert.Equal(t, "nothing to redact\n", buf.String())
}

func TestRunRender(t *testing.T) {
	a := testApp(t)
	in := writeFile(t, "redacted.txt", "Contact: [NAME_1], [EMAIL_1]")
	out := filepath.Join(t.TempDir(), "redacted.pdf")

	require.NoError(t, runRender(a, in, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRunExtract_Error(t *testing.T) {
	a := testApp(t)
	bad := writeFile(t, "broken.pdf", "")
	err := runExtract(a, bad, "", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extracting")
}
