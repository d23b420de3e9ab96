// CLASSIFICATION: COMMUNITY
// Filename: types.go v0.1
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package static

import (
	"mime"
	"path"
	"sort"
	"strings"
)

// DefaultType is returned when neither the override table nor the
// extension registry knows a file's suffix.
const DefaultType = "application/octet-stream"

// TypeTable maps file name suffixes (".js") to fixed content types.
type TypeTable map[string]string

// TypeOf returns the content type for name. Overrides win over the
// extension registry; the longest matching override suffix is used.
func (t TypeTable) TypeOf(name string) string {
	for _, suffix := range t.suffixes() {
		if strings.HasSuffix(name, suffix) {
			return t[suffix]
		}
	}
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		return ctype
	}
	return DefaultType
}

func (t TypeTable) suffixes() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
