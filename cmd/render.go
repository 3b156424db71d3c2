// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	renderFile   string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a text file as a PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		return runRender(a, renderFile, renderOutput)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFile, "file", "f", "", "text file to render")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "PDF file to write")
	_ = renderCmd.MarkFlagRequired("file")
	_ = renderCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(renderCmd)
}

func runRender(a *app, path, output string) error {
	text, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := a.renderer.Render(string(text))
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := os.WriteFile(output, out, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	a.logger.Info().Str("output", output).Int("bytes", len(out)).Msg("rendered")
	return nil
}
