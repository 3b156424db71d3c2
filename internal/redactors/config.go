// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"sort"
	"strings"
)

// Setting keys. Absent keys are disabled.
const (
	SettingEmails    = "emails"
	SettingPhones    = "phones"
	SettingAddresses = "addresses"
	SettingNames     = "names"
)

// SettingKeys lists every recognized setting.
var SettingKeys = []string{SettingEmails, SettingPhones, SettingAddresses, SettingNames}

// Settings enables detection per capability. "addresses" enables both the
// address family and ZIP codes.
type Settings map[string]bool

// AllSettings returns settings with every capability enabled.
func AllSettings() Settings {
	s := make(Settings, len(SettingKeys))
	for _, k := range SettingKeys {
		s[k] = true
	}
	return s
}

// Enabled reports whether key is enabled.
func (s Settings) Enabled(key string) bool {
	return s[key]
}

// Keys returns the enabled keys in sorted order.
func (s Settings) Keys() []string {
	var keys []string
	for k, on := range s {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// ParseSettings builds settings from a comma-separated list such as
// "emails,names". "all" enables everything.
func ParseSettings(list string) (Settings, error) {
	s := Settings{}
	for _, raw := range strings.Split(list, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case key == "":
			continue
		case key == "all":
			return AllSettings(), nil
		case isSettingKey(key):
			s[key] = true
		default:
			return nil, NewRedactionError(ErrorConfiguration, "settings",
				fmt.Sprintf("unknown setting %q (want one of %s)", key, strings.Join(SettingKeys, ", ")), nil)
		}
	}
	return s, nil
}

func isSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}
