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

package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

const smiBinary = "nvidia-smi"

// Device describes one GPU as reported by nvidia-smi.
type Device struct {
	Index         int    `json:"index" yaml:"index"`
	Name          string `json:"name" yaml:"name"`
	DriverVersion string `json:"driverVersion" yaml:"driverVersion"`
}

// Info summarizes the probe result.
type Info struct {
	Count         int      `json:"count" yaml:"count"`
	Devices       []Device `json:"devices" yaml:"devices"`
	DriverVersion string   `json:"driverVersion" yaml:"driverVersion"`
}

// Probe runs nvidia-smi in query mode and returns the detected GPUs.
// Execution is bounded by the context deadline.
func Probe(ctx context.Context) (*Info, error) {
	path, err := exec.LookPath(smiBinary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound,
			"nvidia-smi not found in PATH, install the NVIDIA driver package", err)
	}

	cmd := exec.CommandContext(ctx, path,
		"--query-gpu=name,driver_version", "--format=csv,noheader")
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "nvidia-smi query timed out", ctx.Err())
		}
		return nil, errors.Wrap(errors.ErrCodeUnavailable,
			"nvidia-smi query failed, driver may not be loaded", err)
	}

	info, err := parseQueryOutput(string(out))
	if err != nil {
		return nil, err
	}

	slog.Debug("probed GPUs", "count", info.Count, "driver", info.DriverVersion)
	return info, nil
}

// HasNVLink reports whether at least one GPU exposes active NVLink links.
// GPUs without NVLink make nvidia-smi print a "not supported" notice or
// nothing at all; both mean false.
func HasNVLink(ctx context.Context) (bool, error) {
	path, err := exec.LookPath(smiBinary)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeNotFound,
			"nvidia-smi not found in PATH, install the NVIDIA driver package", err)
	}

	cmd := exec.CommandContext(ctx, path, "nvlink", "--status")
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return false, errors.Wrap(errors.ErrCodeTimeout, "nvidia-smi nvlink query timed out", ctx.Err())
		}
		// Some driver versions exit non-zero on NVLink-less GPUs.
		slog.Debug("nvlink status query failed, assuming no NVLink", "error", err)
		return false, nil
	}

	return parseNVLinkOutput(string(out)), nil
}

// parseQueryOutput parses csv,noheader query lines of the form
// "NVIDIA H100 80GB HBM3, 570.158.01".
func parseQueryOutput(out string) (*Info, error) {
	info := &Info{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, driver, found := strings.Cut(line, ",")
		if !found {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"unexpected nvidia-smi query output", map[string]any{"line": line})
		}

		d := Device{
			Index:         info.Count,
			Name:          strings.TrimSpace(name),
			DriverVersion: strings.TrimSpace(driver),
		}
		info.Devices = append(info.Devices, d)
		info.Count++
		if info.DriverVersion == "" {
			info.DriverVersion = d.DriverVersion
		}
	}

	if info.Count == 0 {
		return nil, fmt.Errorf("nvidia-smi reported no GPUs")
	}
	return info, nil
}

// parseNVLinkOutput interprets "nvidia-smi nvlink --status" output. Active
// links print per-link lines such as "Link 0: 26.562 GB/s"; NVLink-less
// GPUs print nothing or a "not supported" notice.
func parseNVLinkOutput(out string) bool {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "not supported") {
		return false
	}
	return strings.Contains(lower, "link")
}
