// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"github.com/rs/zerolog"
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level  ObservabilityLevel
	logger zerolog.Logger
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, logger zerolog.Logger) *StandardObserver {
	return &StandardObserver{
		level:  level,
		logger: logger,
	}
}

// Nop returns an observer that records nothing.
func Nop() *StandardObserver {
	return NewStandardObserver(ObservabilityOff, zerolog.Nop())
}

// Logger returns the underlying logger for ad hoc events.
func (o *StandardObserver) Logger() *zerolog.Logger {
	return &o.logger
}

// With returns a copy of the observer whose logger carries component.
func (o *StandardObserver) With(component string) *StandardObserver {
	return &StandardObserver{
		level:  o.level,
		logger: o.logger.With().Str("component", component).Logger(),
	}
}

// StartTiming returns a function to complete timing. Timings are logged at
// debug level, or at info level when the observer runs in debug mode.
func (o *StandardObserver) StartTiming(component, operation string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		if o.level == ObservabilityOff {
			return
		}

		ev := o.logger.Debug()
		if o.level == ObservabilityDebug {
			ev = o.logger.Info()
		}
		ev.Str("component", component).
			Str("operation", operation).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Bool("success", success).
			Fields(metadata).
			Msg("operation complete")
	}
}
