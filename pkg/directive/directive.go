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
	"fmt"
	"strings"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

// Prefix introduces every directive line.
const Prefix = "UserParameter="

// Key is the unique identifier portion of a directive: the metric name
// between the UserParameter= prefix and the first comma. Keys are validated
// at construction so that matching is plain string comparison; characters
// that are regex metacharacters elsewhere (dots, brackets, asterisks common
// in Zabbix item keys) need no special handling here.
type Key struct {
	name string
}

// NewKey validates name against the directive grammar and returns it as a Key.
// The name must be non-empty and must not contain a comma or line terminator.
func NewKey(name string) (Key, error) {
	if name == "" {
		return Key{}, errors.New(errors.ErrCodeInvalidRequest, "directive key must not be empty")
	}
	if strings.ContainsAny(name, ",\n\r") {
		return Key{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"directive key must not contain a comma or line terminator",
			map[string]any{"key": name})
	}
	return Key{name: name}, nil
}

// Name returns the metric name portion of the key.
func (k Key) Name() string {
	return k.name
}

// String returns the full key text as it appears at the start of a
// directive line, e.g. "UserParameter=gpu.unknown_error".
func (k Key) String() string {
	return Prefix + k.name
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.name == ""
}

// MarshalText serializes the key as its metric name for JSON reports.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.name), nil
}

// UnmarshalText parses a metric name back into a validated Key.
func (k *Key) UnmarshalText(text []byte) error {
	key, err := NewKey(string(text))
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// MarshalYAML serializes the key as its metric name.
func (k Key) MarshalYAML() (any, error) {
	return k.name, nil
}

// Matches reports whether line defines this key. The match is anchored: the
// line must start with the full key text immediately followed by the comma
// delimiter. A longer key that shares this key as a prefix does not match.
func (k Key) Matches(line string) bool {
	return strings.HasPrefix(line, k.String()+",")
}

// Directive is one key-value configuration line defining a custom metric or
// check the agent can execute. Raw holds the exact line text without a
// terminator; it is appended verbatim, commands pass through opaque.
type Directive struct {
	Key Key
	Raw string
}

// New builds a Directive from a metric name and its command text.
func New(name, command string) (Directive, error) {
	k, err := NewKey(name)
	if err != nil {
		return Directive{}, err
	}
	return Directive{
		Key: k,
		Raw: k.String() + "," + command,
	}, nil
}

// Parse interprets a single line against the directive grammar.
// The second return value reports whether the line is a directive candidate
// at all: comments, blanks, and unrelated settings return (zero, false, nil)
// and are simply not directives. A line that starts with the directive prefix
// but has no comma separator is malformed and returns an error with code
// MALFORMED_DIRECTIVE.
func Parse(line string) (Directive, bool, error) {
	if !strings.HasPrefix(line, Prefix) {
		return Directive{}, false, nil
	}

	rest := line[len(Prefix):]
	name, _, found := strings.Cut(rest, ",")
	if !found {
		return Directive{}, true, errors.NewWithContext(errors.ErrCodeMalformedDirective,
			"directive has no comma separator",
			map[string]any{"line": line})
	}

	k, err := NewKey(name)
	if err != nil {
		return Directive{}, true, fmt.Errorf("invalid directive key: %w", err)
	}

	return Directive{Key: k, Raw: line}, true, nil
}
