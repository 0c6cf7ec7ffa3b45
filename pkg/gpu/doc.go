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

// Package gpu probes NVIDIA GPUs through nvidia-smi.
//
// The installer does not collect metrics itself; the probe only answers two
// questions before configuration is written:
//
//   - are there GPUs at all (nvidia-smi present, driver loaded, device count)
//   - do they support NVLink (selects the NVLink key template variant)
//
// # Query Format
//
// The probe uses nvidia-smi's query mode for reliable, machine-readable
// output:
//
//	nvidia-smi --query-gpu=name,driver_version --format=csv,noheader
//
// This provides consistent output across driver versions and GPU models.
//
// # nvidia-smi Dependency
//
// nvidia-smi must be installed, in the system PATH, and able to communicate
// with the NVIDIA driver. A missing binary yields a NOT_FOUND error with an
// installation hint; execution is bounded by the caller's context deadline.
package gpu
