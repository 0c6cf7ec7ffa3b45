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

// Package conffile reads flat key=value configuration files such as
// zabbix_agentd.conf. It is a read-only companion to the merge engine:
// the installer uses it to discover settings like Include directories,
// never to rewrite anything.
package conffile

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures the Parser.
type Option func(*Parser)

// Parser parses configuration files with customizable settings.
type Parser struct {
	kvDelimiter  string
	maxSize      int
	skipComments bool
}

// WithKVDelimiter sets the key-value delimiter. Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether to skip comment lines. Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		kvDelimiter:  "=",
		maxSize:      1 << 20, // 1MB default
		skipComments: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at the given path and returns its non-empty,
// non-comment lines in order. An error is returned if the file cannot be
// read, exceeds the maximum size, or contains invalid UTF-8 content.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	parts := strings.Split(string(b), "\n")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		cleanPart := strings.TrimSpace(part)
		if cleanPart == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(cleanPart, "#") {
			continue
		}
		result = append(result, cleanPart)
	}

	return result, nil
}

// GetMap reads the file and parses its content into a key-value map.
// Lines without the delimiter are skipped. A key occurring multiple times
// keeps its last value, matching how the Zabbix agent resolves duplicates.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		kv := strings.SplitN(line, p.kvDelimiter, 2)
		if len(kv) != 2 {
			slog.Debug("skipping line without key-value delimiter",
				"line", line,
				"delimiter", p.kvDelimiter,
			)
			continue
		}
		result[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}

	return result, nil
}

// GetAll reads the file and returns every value bound to key, in file order.
// Unlike GetMap this preserves repeated settings, which Zabbix allows for
// directives like Include.
func (p *Parser) GetAll(path, key string) ([]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	var values []string
	prefix := key + p.kvDelimiter
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			values = append(values, strings.TrimSpace(line[len(prefix):]))
		}
	}
	return values, nil
}
