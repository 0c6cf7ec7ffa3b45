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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

func TestResolveExplicitPathWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.conf")
	require.NoError(t, os.WriteFile(path, []byte("UserParameter=gpu.custom,cmd\n"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("remote must not be contacted when a path is set")
	}))
	defer srv.Close()

	src := Source{Path: path, URL: srv.URL, Variant: VariantGeneric}
	data, origin, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OriginFile, origin)
	assert.Contains(t, string(data), "gpu.custom")
}

func TestResolveExplicitPathMissingIsFatal(t *testing.T) {
	src := Source{Path: "/no/such/template.conf", Variant: VariantGeneric}
	_, _, err := src.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestResolveRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("UserParameter=gpu.remote,cmd\n"))
	}))
	defer srv.Close()

	src := Source{URL: srv.URL, Variant: VariantGeneric}
	data, origin, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OriginRemote, origin)
	assert.Contains(t, string(data), "gpu.remote")
}

func TestResolveRemoteFailureFallsBackToVendored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := Source{URL: srv.URL, Variant: VariantNVLink}
	data, origin, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OriginVendored, origin)
	assert.Contains(t, string(data), "gpu.nvlink.status")
}

func TestResolveRemoteFailureStrict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := Source{URL: srv.URL, Variant: VariantGeneric, Strict: true}
	_, _, err := src.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
}

func TestResolveVendoredDefault(t *testing.T) {
	src := Source{Variant: VariantGeneric}
	data, origin, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OriginVendored, origin)
	assert.Contains(t, string(data), "gpu.count")
}

func TestMaterialize(t *testing.T) {
	dir := t.TempDir()
	src := Source{Variant: VariantGeneric}

	path, origin, err := src.Materialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, OriginVendored, origin)
	assert.Equal(t, filepath.Join(dir, "userparameter_gpu.conf"), path)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	vendored, err := Vendored(VariantGeneric)
	require.NoError(t, err)
	assert.Equal(t, vendored, onDisk)
}
