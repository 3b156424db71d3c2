// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package replacement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docredact/internal/detector"
)

func TestTokens_SequencePerKind(t *testing.T) {
	tok := NewTokens()

	assert.Equal(t, "[EMAIL_1]", tok.Next(detector.Email))
	assert.Equal(t, "[NAME_1]", tok.Next(detector.Name))
	assert.Equal(t, "[EMAIL_2]", tok.Next(detector.Email))
	assert.Equal(t, "[ZIPCODE_1]", tok.Next(detector.ZipCode))

	assert.Equal(t, 2, tok.Count(detector.Email))
	assert.Equal(t, 0, tok.Count(detector.Phone))
}

func TestTokens_FreshSequenceRestarts(t *testing.T) {
	first := NewTokens()
	first.Next(detector.Phone)

	assert.Equal(t, "[PHONE_1]", NewTokens().Next(detector.Phone))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "[ADDRESS_12]", Format(detector.Address, 12))
}
