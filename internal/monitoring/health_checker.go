// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"sync"
	"time"

	"docredact/internal/metrics"
	"docredact/internal/ner"
	"docredact/internal/observability"
)

// HealthChecker periodically probes a dependency and tracks its health
type HealthChecker struct {
	target   ner.Pinger
	metrics  *metrics.Collector
	observer *observability.StandardObserver

	config *HealthCheckConfig
	status *TargetHealth

	mu sync.RWMutex
}

// HealthCheckConfig configures health check behavior
type HealthCheckConfig struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration

	// MaxFailureRate over the recent checks above which the target is unhealthy
	MaxFailureRate float64
	// MinChecks before the failure rate is used; until then one success is enough
	MinChecks int
	// RecentChecks is how many results are kept
	RecentChecks int
}

// TargetHealth tracks health status for a probed target
type TargetHealth struct {
	Name                string        `json:"name"`
	IsHealthy           bool          `json:"healthy"`
	LastCheckTime       time.Time     `json:"last_check_time"`
	LastError           string        `json:"last_error,omitempty"`
	SuccessfulChecks    int           `json:"successful_checks"`
	FailedChecks        int           `json:"failed_checks"`
	AverageResponseTime time.Duration `json:"average_response_time_ns"`

	RecentChecks []HealthCheckResult `json:"-"`
}

// HealthCheckResult represents a single health check result
type HealthCheckResult struct {
	Timestamp    time.Time
	Success      bool
	ResponseTime time.Duration
	Error        error
}

// DefaultHealthCheckConfig returns the default configuration for name
func DefaultHealthCheckConfig(name string) *HealthCheckConfig {
	return &HealthCheckConfig{
		Name:           name,
		Interval:       30 * time.Second,
		Timeout:        5 * time.Second,
		MaxFailureRate: 0.5,
		MinChecks:      3,
		RecentChecks:   10,
	}
}

// NewHealthChecker creates a new health checker. metrics and observer may be nil.
func NewHealthChecker(target ner.Pinger, collector *metrics.Collector, observer *observability.StandardObserver, config *HealthCheckConfig) *HealthChecker {
	if config == nil {
		config = DefaultHealthCheckConfig("ner")
	}
	if observer == nil {
		observer = observability.Nop()
	}
	return &HealthChecker{
		target:   target,
		metrics:  collector,
		observer: observer.With("health_checker"),
		config:   config,
		status: &TargetHealth{
			Name:         config.Name,
			RecentChecks: make([]HealthCheckResult, 0, config.RecentChecks),
		},
	}
}

// Check probes the target once and records the result.
func (hc *HealthChecker) Check(ctx context.Context) HealthCheckResult {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, hc.config.Timeout)
	defer cancel()

	err := hc.target.Ping(checkCtx)
	result := HealthCheckResult{
		Timestamp:    start,
		Success:      err == nil,
		ResponseTime: time.Since(start),
		Error:        err,
	}

	healthy, changed := hc.update(result)
	hc.metrics.SetNERUp(healthy)

	log := hc.observer.Logger()
	switch {
	case changed && !healthy:
		log.Warn().Err(err).Str("target", hc.config.Name).Msg("dependency became unhealthy")
	case changed:
		log.Info().Str("target", hc.config.Name).Msg("dependency became healthy")
	default:
		log.Debug().Str("target", hc.config.Name).Bool("success", result.Success).
			Dur("response_time", result.ResponseTime).Msg("health check")
	}
	return result
}

// Run checks immediately and then every Interval until ctx is done.
func (hc *HealthChecker) Run(ctx context.Context) {
	hc.Check(ctx)

	ticker := time.NewTicker(hc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hc.Check(ctx)
		}
	}
}

// update records result and reports the new health and whether it changed.
func (hc *HealthChecker) update(result HealthCheckResult) (healthy, changed bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	s := hc.status
	total := s.SuccessfulChecks + s.FailedChecks
	wasHealthy := s.IsHealthy || total == 0

	s.LastCheckTime = result.Timestamp
	s.LastError = ""
	if result.Error != nil {
		s.LastError = result.Error.Error()
	}
	if result.Success {
		s.SuccessfulChecks++
	} else {
		s.FailedChecks++
	}
	total++

	s.RecentChecks = append(s.RecentChecks, result)
	if len(s.RecentChecks) > hc.config.RecentChecks {
		s.RecentChecks = s.RecentChecks[1:]
	}

	if len(s.RecentChecks) >= hc.config.MinChecks {
		failed := 0
		for _, r := range s.RecentChecks {
			if !r.Success {
				failed++
			}
		}
		s.IsHealthy = float64(failed)/float64(len(s.RecentChecks)) <= hc.config.MaxFailureRate
	} else {
		s.IsHealthy = result.Success
	}

	s.AverageResponseTime = (s.AverageResponseTime*time.Duration(total-1) + result.ResponseTime) / time.Duration(total)

	return s.IsHealthy, s.IsHealthy != wasHealthy
}

// Status returns a copy of the current health status
func (hc *HealthChecker) Status() TargetHealth {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	s := *hc.status
	s.RecentChecks = append([]HealthCheckResult(nil), hc.status.RecentChecks...)
	return s
}
