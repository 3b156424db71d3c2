// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version carries build metadata stamped in with -ldflags, e.g.
//
//	-X docredact/internal/version.Version=1.2.0 -X docredact/internal/version.Commit=abc123
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "0.0.0-dev"
	Commit  = "unknown"
)

// Short returns the bare version, as reported by /health and --version.
func Short() string {
	return Version
}

// Info is the one-line banner printed by the version command.
func Info() string {
	return fmt.Sprintf("docredact %s (%s, %s %s/%s)", Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent on requests to the NER sidecar.
func UserAgent() string {
	return "docredact/" + Version
}
