// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // Connection refused/reset, DNS
	ErrorTypeTimeout                      // Request or context deadline
	ErrorTypeRateLimit                    // 429 from the sidecar
	ErrorTypeServiceUnavailable           // 5xx from the sidecar
	ErrorTypeInvalidInput                 // 4xx other than 429, undecodable bodies
	ErrorTypeCanceled                     // Caller gave up
	ErrorTypePermanent
)

var errorTypeNames = [...]string{
	"Unknown",
	"Transient",
	"Timeout",
	"RateLimit",
	"ServiceUnavailable",
	"InvalidInput",
	"Canceled",
	"Permanent",
}

func (et ErrorType) String() string {
	if et < 0 || int(et) >= len(errorTypeNames) {
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
	return errorTypeNames[et]
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Original == nil {
		return e.Type.String()
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// StatusError reports a non-2xx response from a remote service.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Service, e.Code, e.Body)
}

// ClassifyError categorizes an error for appropriate handling. It returns nil
// for a nil error.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case errors.Is(err, context.Canceled):
		return newClassified(err, ErrorTypeCanceled, false)
	case errors.Is(err, context.DeadlineExceeded):
		return newClassified(err, ErrorTypeTimeout, true)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusTooManyRequests:
			return newClassified(err, ErrorTypeRateLimit, true)
		case statusErr.Code >= 500:
			return newClassified(err, ErrorTypeServiceUnavailable, true)
		default:
			return newClassified(err, ErrorTypeInvalidInput, false)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newClassified(err, ErrorTypeTimeout, true)
	}
	if isNetworkError(err) {
		return newClassified(err, ErrorTypeTransient, true)
	}

	return newClassified(err, ErrorTypeUnknown, false)
}

func newClassified(err error, t ErrorType, retryable bool) *ClassifiedError {
	return &ClassifiedError{
		Original:  err,
		Type:      t,
		Message:   fmt.Sprintf("%s: %v", t, err),
		Retryable: retryable,
	}
}

// isNetworkError checks if an error is network-related
func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}
