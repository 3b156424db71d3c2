// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docredact/internal/monitoring"
	"docredact/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API with the /redact, /extract-pdf, /download-txt and
/download-pdf routes, plus /health and (when enabled) Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			a.cfg.Server.Addr = serveAddr
		}

		opts := []web.Option{
			web.WithObserver(a.observer),
			web.WithNameStrategy(a.names.Strategy()),
		}
		if a.metrics != nil {
			opts = append(opts, web.WithMetrics(a.metrics, a.cfg.Metrics.Path))
		}
		if a.nerClient != nil {
			hcConfig := monitoring.DefaultHealthCheckConfig("ner")
			hcConfig.Interval = a.cfg.NER.HealthInterval
			hc := monitoring.NewHealthChecker(a.nerClient, a.metrics, a.observer, hcConfig)
			go hc.Run(ctx)
			opts = append(opts, web.WithHealthChecker(hc))
		}

		ws := web.NewWebServer(a.cfg.Server, a.engine, a.extractor, a.renderer, opts...)
		return ws.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
