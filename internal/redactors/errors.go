// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"errors"
	"fmt"
)

// RedactionErrorType defines the type of redaction error
type RedactionErrorType int

const (
	// ErrorInput indicates a malformed or missing request field
	ErrorInput RedactionErrorType = iota

	// ErrorDocumentProcessing indicates a text extraction failure
	ErrorDocumentProcessing

	// ErrorRendering indicates an output document could not be produced
	ErrorRendering

	// ErrorConfiguration indicates a configuration error
	ErrorConfiguration

	// ErrorScanning indicates an extractor could not scan the whole text
	ErrorScanning
)

// String returns the string representation of the error type
func (ret RedactionErrorType) String() string {
	switch ret {
	case ErrorInput:
		return "input"
	case ErrorDocumentProcessing:
		return "document_processing"
	case ErrorRendering:
		return "rendering"
	case ErrorConfiguration:
		return "configuration"
	case ErrorScanning:
		return "scanning"
	default:
		return "unknown"
	}
}

// RedactionError represents an error raised around a redaction call
type RedactionError struct {
	Type      RedactionErrorType
	Component string
	Message   string
	Cause     error
}

// NewRedactionError creates a new redaction error
func NewRedactionError(errorType RedactionErrorType, component, message string, cause error) *RedactionError {
	return &RedactionError{
		Type:      errorType,
		Component: component,
		Message:   message,
		Cause:     cause,
	}
}

// Error implements the error interface
func (re *RedactionError) Error() string {
	if re.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", re.Component, re.Message, re.Cause)
	}
	return fmt.Sprintf("%s: %s", re.Component, re.Message)
}

// Unwrap returns the underlying cause
func (re *RedactionError) Unwrap() error {
	return re.Cause
}

// IsInputError reports whether err is a RedactionError caused by bad input
// or configuration, which callers should surface as a client error.
func IsInputError(err error) bool {
	var re *RedactionError
	if !errors.As(err, &re) {
		return false
	}
	return re.Type == ErrorInput || re.Type == ErrorConfiguration
}
