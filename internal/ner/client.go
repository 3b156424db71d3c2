// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docredact/internal/resilience"
	"docredact/internal/version"
)

const maxErrorBody = 512

// ClientConfig configures the sidecar client.
type ClientConfig struct {
	// URL is the sidecar base URL, e.g. "http://ner:8001".
	URL     string
	Timeout time.Duration
	Retry   resilience.RetryConfig
	Breaker resilience.CircuitBreakerConfig
}

// DefaultClientConfig returns a config for the sidecar at url.
func DefaultClientConfig(url string) ClientConfig {
	return ClientConfig{
		URL:     url,
		Timeout: 10 * time.Second,
		Retry:   resilience.DefaultRetryConfig(),
		Breaker: resilience.DefaultCircuitBreakerConfig("ner"),
	}
}

// Client calls the NER sidecar's /annotate endpoint. It is safe for
// concurrent use.
type Client struct {
	annotateURL string
	healthURL   string
	timeout     time.Duration
	http        *http.Client
	retry       resilience.RetryConfig
	breaker     *resilience.CircuitBreaker
	logger      zerolog.Logger
}

// NewClient creates a sidecar client.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.URL, "/")
	logger = logger.With().Str("component", "ner").Logger()

	retry := cfg.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = func(attempt int, err error) {
			logger.Debug().Int("attempt", attempt).Err(err).Msg("retrying NER request")
		}
	}

	breaker := cfg.Breaker
	if breaker.OnStateChange == nil {
		breaker.OnStateChange = func(name string, from, to resilience.CircuitBreakerState) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("NER circuit breaker state change")
		}
	}

	return &Client{
		annotateURL: base + "/annotate",
		healthURL:   base + "/health",
		timeout:     cfg.Timeout,
		http:        &http.Client{},
		retry:       retry,
		breaker:     resilience.NewCircuitBreaker(breaker),
		logger:      logger,
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Entities []Entity `json:"entities"`
}

// Annotate implements Recognizer.
func (c *Client) Annotate(text string) ([]Entity, error) {
	return c.AnnotateContext(context.Background(), text)
}

// AnnotateContext sends text to the sidecar and returns the entities it
// found. Transient failures are retried behind the circuit breaker.
func (c *Client) AnnotateContext(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("ner: marshal: %w", err)
	}

	var result annotateResponse
	err = resilience.RetryWithCircuitBreaker(ctx, c.retry, c.breaker, func(ctx context.Context) error {
		result = annotateResponse{}
		return c.post(ctx, body, &result)
	})
	if err != nil {
		return nil, fmt.Errorf("ner: annotate: %w", err)
	}

	entities := result.Entities[:0]
	for _, e := range result.Entities {
		if e.Start >= 0 && e.End > e.Start {
			entities = append(entities, e)
		}
	}
	return entities, nil
}

func (c *Client) post(ctx context.Context, body []byte, out *annotateResponse) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.annotateURL, bytes.NewReader(body))
	if err != nil {
		return resilience.NewPermanentError("ner: request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resilience.NewPermanentError(fmt.Sprintf("ner: decode: %v", err), err)
	}
	return nil
}

// Ping implements Pinger by probing the sidecar's /health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("ner: ping: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ner: ping: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("ner: ping: %w", err)
	}
	return nil
}

// BreakerState reports the client's circuit breaker state.
func (c *Client) BreakerState() resilience.CircuitBreakerState {
	return c.breaker.State()
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &resilience.StatusError{
		Service: "ner",
		Code:    resp.StatusCode,
		Body:    strings.TrimSpace(string(msg)),
	}
}
