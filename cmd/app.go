// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"docredact/internal/config"
	"docredact/internal/metrics"
	"docredact/internal/ner"
	"docredact/internal/observability"
	"docredact/internal/preprocessors/pdftext"
	"docredact/internal/redactors"
	"docredact/internal/redactors/pdf"
	"docredact/internal/validators/personname"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	observer  *observability.StandardObserver
	metrics   *metrics.Collector
	nerClient *ner.Client
	names     *personname.Extractor
	engine    *redactors.Engine
	extractor *pdftext.Extractor
	renderer  *pdf.Renderer
}

// newApp loads configuration and builds the pipeline. Logs go to stderr so
// stdout stays clean for command output.
func newApp(ctx context.Context) (*app, error) {
	cfg, cfgErr := config.LoadConfigOrDefault(cfgFile)
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("error loading config file, using defaults")
	}

	level := observability.ObservabilityMetrics
	if debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		observer: observer,
	}
	if cfg.Metrics.Enabled {
		a.metrics = metrics.NewCollector(nil)
	}

	var recognizer ner.Recognizer
	if cfg.NER.URL != "" {
		a.nerClient = ner.NewClient(a.nerClientConfig(), logger)
		recognizer = a.nerClient
	}
	recognizer = ner.Select(ctx, recognizer, cfg.NER.Timeout, logger)

	a.names = personname.NewExtractor(recognizer,
		personname.WithObserver(observer),
		personname.WithFallbackHook(func(error) { a.metrics.RecordNERFallback() }),
	)
	a.metrics.SetNERUp(recognizer != nil)

	a.engine = redactors.NewEngine(
		redactors.WithNameExtractor(a.names),
		redactors.WithObserver(observer),
		redactors.WithScanErrorHook(func(extractor string, _ error) { a.metrics.RecordScanError(extractor) }),
	)

	a.extractor = pdftext.NewExtractor(pdftext.Options{
		Validate:     cfg.PDF.Validate,
		MaxPages:     cfg.PDF.MaxPages,
		SkipBadPages: cfg.PDF.SkipBadPages,
	}, observer)

	geometry := pdf.DefaultPageGeometry()
	geometry.FontSize = cfg.PDF.FontSize
	geometry.MaxLineChars = cfg.PDF.MaxLineChars
	renderer, err := pdf.NewRenderer(geometry, observer)
	if err != nil {
		return nil, err
	}
	a.renderer = renderer

	return a, nil
}

func (a *app) nerClientConfig() ner.ClientConfig {
	c := ner.DefaultClientConfig(a.cfg.NER.URL)
	c.Timeout = a.cfg.NER.Timeout
	c.Retry.MaxRetries = a.cfg.NER.Retries
	if a.cfg.NER.BreakerThreshold > 0 {
		c.Breaker.FailureThreshold = a.cfg.NER.BreakerThreshold
	}
	if a.cfg.NER.BreakerTimeout > 0 {
		c.Breaker.Timeout = a.cfg.NER.BreakerTimeout
	}
	return c
}

// settingsFromConfig resolves a profile, or the configured defaults when
// profile is empty.
func (a *app) settingsFromConfig(profile string) (redactors.Settings, error) {
	keys := a.cfg.Defaults.Settings
	if profile != "" {
		p := a.cfg.GetProfile(profile)
		if p == nil {
			return nil, redactors.NewRedactionError(redactors.ErrorConfiguration, "settings",
				"unknown profile "+profile, nil)
		}
		keys = p.Settings
	}

	settings := redactors.Settings{}
	for _, k := range keys {
		s, err := redactors.ParseSettings(k)
		if err != nil {
			return nil, err
		}
		for key, on := range s {
			settings[key] = on
		}
	}
	return settings, nil
}
