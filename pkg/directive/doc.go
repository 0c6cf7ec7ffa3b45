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

// Package directive implements the idempotent merge engine for Zabbix
// UserParameter configuration files.
//
// # Directive Grammar
//
// A configuration file is an ordered sequence of lines:
//
//	line           := directive-line | comment-line | blank-line
//	directive-line := "UserParameter=" key "," command-text
//	key            := one or more characters excluding comma
//	comment-line   := "#" any-text
//	blank-line     := zero-length
//
// The first comma terminates the key; command-text is opaque and may itself
// contain commas, quotes, or pipes. Within one file, keys are unique.
//
// # Merge Semantics
//
// The engine guarantees that after a merge the target file contains at least
// one directive per required key, without altering, reordering, or duplicating
// any line that was already present. Existing lines are never rewritten; the
// only mutation is appending whole lines at the end:
//
//	if err := directive.EnsureFile(target, "Managed by nvzbx"); err != nil {
//	    return err
//	}
//	report, err := directive.MergeFile(base, target)
//
// Keys are modeled as structured values and matched by exact string-prefix
// comparison anchored at the start of a line, never by regex. A key therefore
// cannot false-positive against a longer key sharing its prefix
// (gpu.nvlink.status vs gpu.nvlink.status.extended).
//
// # Concurrency
//
// Operations are single-pass scan-and-append with no in-memory state across
// calls; file contents are read fresh on every call. No locking is acquired:
// concurrent invocations against the same file may interleave appends and
// produce duplicate lines (never corrupted ones, since each write is
// append-only). Callers needing safety across concurrent installer runs must
// serialize externally.
//
// # Crash Safety
//
// A crash between scan and append may leave a partial trailing line. Before
// appending to a file whose last byte is not a line terminator, the engine
// writes one first, so an appended directive always starts on a fresh line.
// The damaged line itself is treated as "key not matched"; the worst case on
// re-run is one benign duplicate of that key.
package directive
