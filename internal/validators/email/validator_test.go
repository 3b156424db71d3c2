// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docredact/internal/detector"
)

func TestValidator_Extract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "mail john.smith@example.com now", []string{"john.smith@example.com"}},
		{"plus and percent", "a+b%c@mail.co.uk", []string{"a+b%c@mail.co.uk"}},
		{"upper case", "JOHN@EXAMPLE.ORG", []string{"JOHN@EXAMPLE.ORG"}},
		{"two addresses", "x@a.io, y@b.io", []string{"x@a.io", "y@b.io"}},
		{"single letter tld", "user@host.c", nil},
		{"no at sign", "john.smith.example.com", nil},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			spans, err := v.Extract(tt.input)
			require.NoError(t, err)
			for _, s := range spans {
				assert.Equal(t, detector.Email, s.Kind)
				got = append(got, s.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidator_ExtractOffsets(t *testing.T) {
	spans, err := NewValidator().Extract("Contact: John Smith, john.smith@example.com")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, 21, spans[0].Start)
	assert.Equal(t, 43, spans[0].End)
}
