// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docredact/internal/detector"
	"docredact/internal/redactors"
)

type redactOptions struct {
	file      string
	output    string
	format    string
	profile   string
	all       bool
	emails    bool
	phones    bool
	addresses bool
	names     bool
	noColor   bool
}

var redactOpts redactOptions

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Redact a text or PDF file",
	Long: `Redact a text or PDF file. PDF input is converted to text first.

The redacted text goes to --output or stdout; the substitution log goes to
stderr. With no capability flags the configured defaults (or --profile) apply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		settings, err := redactOpts.settings(a)
		if err != nil {
			return err
		}

		colorize := !redactOpts.noColor && term.IsTerminal(int(os.Stderr.Fd()))
		return runRedact(a, redactOpts, settings, cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize)
	},
}

func init() {
	f := redactCmd.Flags()
	f.StringVarP(&redactOpts.file, "file", "f", "", "input file (.txt or .pdf)")
	f.StringVarP(&redactOpts.output, "output", "o", "", "write redacted text here instead of stdout")
	f.StringVar(&redactOpts.format, "format", "text", "output format: text or json")
	f.StringVar(&redactOpts.profile, "profile", "", "settings profile from the config file")
	f.BoolVar(&redactOpts.all, "all", false, "enable every capability")
	f.BoolVar(&redactOpts.emails, "emails", false, "redact email addresses")
	f.BoolVar(&redactOpts.phones, "phones", false, "redact phone numbers")
	f.BoolVar(&redactOpts.addresses, "addresses", false, "redact street addresses, cities, states and ZIP codes")
	f.BoolVar(&redactOpts.names, "names", false, "redact person names")
	f.BoolVar(&redactOpts.noColor, "no-color", false, "disable colored log output")
	_ = redactCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(redactCmd)
}

// settings builds Settings from the capability flags, falling back to the
// profile or configured defaults when none are given.
func (o redactOptions) settings(a *app) (redactors.Settings, error) {
	if o.all {
		return redactors.AllSettings(), nil
	}

	s := redactors.Settings{}
	if o.emails {
		s[redactors.SettingEmails] = true
	}
	if o.phones {
		s[redactors.SettingPhones] = true
	}
	if o.addresses {
		s[redactors.SettingAddresses] = true
	}
	if o.names {
		s[redactors.SettingNames] = true
	}
	if len(s) > 0 {
		return s, nil
	}
	return a.settingsFromConfig(o.profile)
}

type redactOutput struct {
	ID       string               `json:"id"`
	Redacted string               `json:"redacted"`
	Log      []string             `json:"log"`
	Entries  []redactors.LogEntry `json:"entries"`
	Counts   map[string]int       `json:"counts"`
}

func runRedact(a *app, o redactOptions, settings redactors.Settings, stdout, stderr io.Writer, colorize bool) error {
	if o.format != "text" && o.format != "json" {
		return redactors.NewRedactionError(redactors.ErrorInput, "cli", fmt.Sprintf("unknown format %q", o.format), nil)
	}

	text, err := readInput(a, o.file)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	start := time.Now()
	result, err := a.engine.Redact(text, settings)
	if err != nil {
		return fmt.Errorf("redacting %s: %w", o.file, err)
	}
	a.metrics.RecordRedaction("cli", time.Since(start), result.Counts())

	a.logger.Debug().Str("redaction_id", id).Str("file", o.file).
		Int("redacted", len(result.Entries)).Msg("redaction complete")

	var out []byte
	if o.format == "json" {
		out, err = json.MarshalIndent(redactOutput{
			ID:       id,
			Redacted: result.Redacted,
			Log:      result.Log,
			Entries:  result.Entries,
			Counts:   result.Counts(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		out = append(out, '\n')
	} else {
		out = []byte(result.Redacted)
		printLog(stderr, result.Entries, colorize)
	}

	if o.output == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(o.output, out, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", o.output, err)
	}
	return nil
}

// readInput returns the file's text, extracting it first for PDFs.
func readInput(a *app, path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", redactors.NewRedactionError(redactors.ErrorInput, "cli", "reading "+path, err)
	}

	if !isPDF(path, data) {
		return string(data), nil
	}
	doc, err := a.extractor.Extract(data)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", path, err)
	}
	return doc.Text(), nil
}

func isPDF(path string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-"))
}

var kindColors = map[detector.EntityKind]color.Attribute{
	detector.Email:   color.FgCyan,
	detector.Phone:   color.FgYellow,
	detector.Address: color.FgMagenta,
	detector.ZipCode: color.FgMagenta,
	detector.Name:    color.FgGreen,
}

// printLog writes one line per substitution, coloring the kind label.
func printLog(w io.Writer, entries []redactors.LogEntry, colorize bool) {
	for _, e := range entries {
		c := color.New(kindColors[e.Kind], color.Bold)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		c.Fprint(w, e.Kind.String())
		fmt.Fprintf(w, ": \"%s\" -> %s\n", e.Original, e.Token)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "nothing to redact")
	}
}
