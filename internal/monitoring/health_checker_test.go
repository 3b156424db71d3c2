// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/metrics"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func nerUp(t *testing.T, c *metrics.Collector) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "docredact_ner_up" {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("docredact_ner_up not registered")
	return 0
}

func testConfig() *HealthCheckConfig {
	cfg := DefaultHealthCheckConfig("ner")
	cfg.MinChecks = 3
	cfg.RecentChecks = 4
	cfg.MaxFailureRate = 0.5
	return cfg
}

func TestHealthChecker_Check(t *testing.T) {
	target := &fakePinger{}
	collector := metrics.NewCollector(nil)
	hc := NewHealthChecker(target, collector, nil, testConfig())

	res := hc.Check(context.Background())
	assert.True(t, res.Success)
	assert.True(t, hc.Status().IsHealthy)
	assert.Equal(t, float64(1), nerUp(t, collector))

	target.fail.Store(true)
	res = hc.Check(context.Background())
	assert.False(t, res.Success)

	status := hc.Status()
	assert.False(t, status.IsHealthy, "a failure before MinChecks flips health")
	assert.Equal(t, "connection refused", status.LastError)
	assert.Equal(t, 1, status.SuccessfulChecks)
	assert.Equal(t, 1, status.FailedChecks)
	assert.Equal(t, float64(0), nerUp(t, collector))
}

func TestHealthChecker_FailureRateWindow(t *testing.T) {
	target := &fakePinger{}
	hc := NewHealthChecker(target, nil, nil, testConfig())

	for i := 0; i < 3; i++ {
		hc.Check(context.Background())
	}
	require.True(t, hc.Status().IsHealthy)

	// 2 of the last 4 failing is still within the threshold
	target.fail.Store(true)
	hc.Check(context.Background())
	hc.Check(context.Background())
	assert.True(t, hc.Status().IsHealthy)

	hc.Check(context.Background())
	status := hc.Status()
	assert.False(t, status.IsHealthy)
	assert.Len(t, status.RecentChecks, 4)
}

func TestHealthChecker_StatusIsACopy(t *testing.T) {
	hc := NewHealthChecker(&fakePinger{}, nil, nil, testConfig())
	hc.Check(context.Background())

	s := hc.Status()
	s.RecentChecks[0].Success = false
	assert.True(t, hc.Status().RecentChecks[0].Success)
}

func TestHealthChecker_RunStopsOnCancel(t *testing.T) {
	target := &fakePinger{}
	cfg := testConfig()
	cfg.Interval = 5 * time.Millisecond
	hc := NewHealthChecker(target, nil, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return target.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
