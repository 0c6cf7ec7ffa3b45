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

// Package cli implements the nvzbx command-line interface.
//
// # Commands
//
// install - run the full idempotent install:
//
//	nvzbx install [--flavor zabbix-agent2] [--variant nvlink] [--dry-run]
//
// Detects the installed Zabbix agent, probes the GPUs, merges the matching
// UserParameter template into the agent's include directory, and restarts
// the agent. Safe to run repeatedly; a second run changes nothing.
//
// merge - run the directive merge alone against explicit files:
//
//	nvzbx merge --base template.conf --target /etc/zabbix/zabbix_agentd.d/gpu.conf
//
// status - report agent, GPU, and merged-key state:
//
//	nvzbx status [--format json]
//
// version - print build version information.
//
// # Global Flags
//
//	--log-level   Logging verbosity (debug, info, warn, error)
//
// # Output Formats
//
// Reports serialize as yaml (default), json, or table via --format.
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/nvzbx/pkg/cli.version=1.0.0'"
package cli
