// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStamped(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)
	Version, Commit = "1.2.0", "abc123"

	assert.Equal(t, "1.2.0", Short())
	assert.Equal(t, "docredact/1.2.0", UserAgent())
	assert.Equal(t, "docredact 1.2.0 (abc123, "+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+")", Info())
}
