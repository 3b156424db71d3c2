// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/resilience"
)

func testConfig(url string) ClientConfig {
	cfg := DefaultClientConfig(url)
	cfg.Timeout = time.Second
	cfg.Retry.InitialInterval = time.Millisecond
	cfg.Retry.MaxInterval = 5 * time.Millisecond
	cfg.Retry.Jitter = false
	return cfg
}

func TestClient_Annotate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/annotate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req annotateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Meet Jane Doe", req.Text)

		_ = json.NewEncoder(w).Encode(annotateResponse{Entities: []Entity{
			{Start: 5, End: 13, Label: LabelPerson, Text: "Jane Doe"},
			{Start: 3, End: 3, Label: LabelPerson},
		}})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL+"/"), zerolog.Nop())
	got, err := c.Annotate("Meet Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []Entity{{Start: 5, End: 13, Label: LabelPerson, Text: "Jane Doe"}}, got)
}

func TestClient_AnnotateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"entities":[]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	got, err := c.Annotate("text")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_AnnotateDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	_, err := c.Annotate("text")

	var statusErr *resilience.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, "bad", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_AnnotateBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), zerolog.Nop()).Annotate("text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxRetries = 0
	cfg.Breaker.FailureThreshold = 2
	c := NewClient(cfg, zerolog.Nop())

	_, _ = c.Annotate("a")
	_, _ = c.Annotate("b")
	_, err := c.Annotate("c")

	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, resilience.StateOpen, c.BreakerState())
}

func TestClient_Ping(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	assert.NoError(t, c.Ping(context.Background()))

	healthy.Store(false)
	assert.Error(t, c.Ping(context.Background()))
}

func TestSelect(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	ctx := context.Background()
	log := zerolog.Nop()

	upClient := NewClient(testConfig(up.URL), log)
	assert.Same(t, upClient, Select(ctx, upClient, time.Second, log))
	assert.Nil(t, Select(ctx, NewClient(testConfig(down.URL), log), time.Second, log))
	assert.Nil(t, Select(ctx, nil, time.Second, log))

	fake := RecognizerFunc(func(string) ([]Entity, error) { return nil, nil })
	assert.NotNil(t, Select(ctx, fake, time.Second, log))
}
