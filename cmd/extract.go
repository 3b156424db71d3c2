// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	extractFile   string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the text of a PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		return runExtract(a, extractFile, extractOutput, cmd.OutOrStdout())
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "PDF file to read")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write text here instead of stdout")
	_ = extractCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(a *app, path, output string, stdout io.Writer) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := a.extractor.Extract(data)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}
	if len(doc.SkippedPages) > 0 {
		a.logger.Warn().Ints("pages", doc.SkippedPages).Msg("some pages could not be read")
	}

	if output == "" {
		_, err = io.WriteString(stdout, doc.Text())
		return err
	}
	return os.WriteFile(output, []byte(doc.Text()), 0600)
}
