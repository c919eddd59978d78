// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mailfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// separator matches a "---" divider line between emails, with optional
// surrounding whitespace.
var separator = regexp.MustCompile(`\n\s*---\s*\n`)

// Split divides a text blob into discrete email records on "---" divider
// lines. Records are trimmed and empty records dropped.
func Split(content string) []string {
	parts := separator.Split(content, -1)
	emails := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			emails = append(emails, part)
		}
	}
	return emails
}

// Load reads a UTF-8 text file and splits it into email records.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mail file: %w", err)
	}
	return Split(string(data)), nil
}
