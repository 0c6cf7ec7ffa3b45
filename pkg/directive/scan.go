// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package directive

import (
	"log/slog"
	"strings"
)

// The functions in this file are pure: they operate on in-memory lines only.
// The file-touching operations in merge.go are a thin commit layer on top, so
// a caller can wrap commits in a file lock or atomic rename without the
// engine knowing.

// ScanDirectives extracts the directives from lines in order. Lines that
// start with the directive prefix but do not parse are returned separately as
// malformed; one bad template line must not block the rest. All other lines
// (comments, blanks, unrelated settings) are ignored.
func ScanDirectives(lines []string) (directives []Directive, malformed []string) {
	for _, line := range lines {
		d, candidate, err := Parse(line)
		if !candidate {
			continue
		}
		if err != nil {
			slog.Warn("skipping malformed directive line", "line", line, "error", err)
			malformed = append(malformed, line)
			continue
		}
		directives = append(directives, d)
	}
	return directives, malformed
}

// ContainsKey reports whether any line defines the given key.
func ContainsKey(lines []string, k Key) bool {
	for _, line := range lines {
		if k.Matches(line) {
			return true
		}
	}
	return false
}

// Missing returns the directives from base whose keys are defined by no line
// in target, preserving base order. Repeated keys within base are collapsed
// to their first occurrence, keeping the target's key-uniqueness invariant
// intact after commit.
func Missing(target []string, base []Directive) []Directive {
	missing := make([]Directive, 0, len(base))
	seen := make(map[Key]struct{}, len(base))

	for _, d := range base {
		if _, dup := seen[d.Key]; dup {
			continue
		}
		seen[d.Key] = struct{}{}

		if !ContainsKey(target, d.Key) {
			missing = append(missing, d)
		}
	}
	return missing
}

// SplitLines breaks file content into lines and reports whether the content
// ended with a line terminator. An unterminated final line usually means a
// crash mid-append; the commit layer repairs it before writing.
func SplitLines(content string) (lines []string, terminated bool) {
	if content == "" {
		return nil, true
	}
	terminated = strings.HasSuffix(content, "\n")
	trimmed := strings.TrimSuffix(content, "\n")
	lines = strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, terminated
}
