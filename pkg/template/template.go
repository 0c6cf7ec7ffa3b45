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

// Package template supplies the base UserParameter templates and the GPU
// helper script the directives invoke. Templates come from an explicit file,
// a remote URL, or the vendored copies embedded in the binary; the merge
// engine always receives a path to an already-materialized file and never
// knows where it came from.
package template

import (
	"embed"
	"fmt"
)

//go:embed assets
var assets embed.FS

// Variant selects which base template to install.
type Variant string

const (
	// VariantGeneric covers error, temperature, utilization, memory, and
	// power keys available on every NVIDIA GPU.
	VariantGeneric Variant = "generic"
	// VariantNVLink adds NVLink status keys on top of the generic set.
	VariantNVLink Variant = "nvlink"
)

// IsValid reports whether v names a known template variant.
func (v Variant) IsValid() bool {
	switch v {
	case VariantGeneric, VariantNVLink:
		return true
	default:
		return false
	}
}

// Filename returns the conventional file name for the variant's template,
// also used as the target name in the agent's include directory.
func (v Variant) Filename() string {
	if v == VariantNVLink {
		return "userparameter_gpu_nvlink.conf"
	}
	return "userparameter_gpu.conf"
}

// SupportedVariants returns the names of all template variants.
func SupportedVariants() []string {
	return []string{string(VariantGeneric), string(VariantNVLink)}
}

// Vendored returns the embedded template for the variant.
func Vendored(v Variant) ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("unknown template variant: %q", v)
	}
	return assets.ReadFile("assets/" + v.Filename())
}

// HelperScriptName is the file name of the GPU helper script referenced by
// the template directives.
const HelperScriptName = "gpu_stats.sh"

// HelperScript returns the embedded GPU helper script.
func HelperScript() ([]byte, error) {
	return assets.ReadFile("assets/" + HelperScriptName)
}
