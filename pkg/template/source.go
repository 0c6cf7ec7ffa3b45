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

package template

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

// Origin names where a resolved template actually came from.
type Origin string

const (
	OriginFile     Origin = "file"
	OriginRemote   Origin = "remote"
	OriginVendored Origin = "vendored"
)

// Source describes where to obtain the base template. Resolution order is
// Path, then URL, then the vendored embedded copy. A failed remote fetch
// falls back to the vendored copy unless Strict is set.
type Source struct {
	// Path is an explicit local template file. When set it wins outright
	// and a read failure is always fatal.
	Path string

	// URL is a remote template location tried when Path is empty.
	URL string

	// Variant selects the vendored template used when neither Path nor URL
	// resolves.
	Variant Variant

	// Strict turns a remote fetch failure into a hard error instead of
	// falling back to the vendored copy.
	Strict bool

	// Fetcher performs remote downloads. Nil means NewFetcher().
	Fetcher *Fetcher
}

// Resolve returns the template content and the origin it was loaded from.
func (s Source) Resolve(ctx context.Context) ([]byte, Origin, error) {
	if s.Path != "" {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeNotFound,
				fmt.Sprintf("failed to read template file: %s", s.Path), err)
		}
		return data, OriginFile, nil
	}

	if s.URL != "" {
		f := s.Fetcher
		if f == nil {
			f = NewFetcher()
		}
		data, err := f.Fetch(ctx, s.URL)
		if err == nil {
			return data, OriginRemote, nil
		}
		if s.Strict {
			return nil, "", errors.Wrap(errors.ErrCodeUnavailable,
				fmt.Sprintf("failed to fetch template from %s", s.URL), err)
		}
		slog.Warn("template fetch failed, falling back to vendored copy",
			"url", s.URL,
			"variant", s.Variant,
			"error", err)
	}

	data, err := Vendored(s.Variant)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidRequest,
			"failed to load vendored template", err)
	}
	return data, OriginVendored, nil
}

// Materialize resolves the template and writes it into dir under the
// variant's conventional file name, returning the written path. The merge
// engine reads the result like any other local file.
func (s Source) Materialize(ctx context.Context, dir string) (string, Origin, error) {
	data, origin, err := s.Resolve(ctx)
	if err != nil {
		return "", "", err
	}

	path := filepath.Join(dir, s.Variant.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to write template: %s", path), err)
	}

	slog.Debug("materialized base template",
		"path", path,
		"origin", origin,
		"bytes", len(data))
	return path, origin, nil
}
