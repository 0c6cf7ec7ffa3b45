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

package defaults

import "time"

// Probe timeouts for external binary invocations.
const (
	// ProbeTimeout is the default timeout for nvidia-smi probe operations.
	// Probes should respect parent context deadlines when shorter.
	ProbeTimeout = 10 * time.Second

	// AgentVersionTimeout is the timeout for querying the agent binary
	// version (zabbix_agentd -V).
	AgentVersionTimeout = 5 * time.Second
)

// Service timeouts for systemd D-Bus operations.
const (
	// ServiceQueryTimeout is the timeout for unit state queries.
	ServiceQueryTimeout = 10 * time.Second

	// ServiceRestartTimeout is the timeout for a unit restart including the
	// result signal from systemd.
	ServiceRestartTimeout = 30 * time.Second

	// ServiceVerifyDelay is how long to wait after a restart before checking
	// that the agent process is up. Zabbix agents fork their workers shortly
	// after the main process starts.
	ServiceVerifyDelay = 2 * time.Second

	// ServiceVerifyTimeout bounds the post-restart process check.
	ServiceVerifyTimeout = 15 * time.Second
)

// HTTP client timeouts for template fetches.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIInstallTimeout is the default timeout for a full install run.
	CLIInstallTimeout = 2 * time.Minute

	// CLIStatusTimeout is the default timeout for status probes.
	CLIStatusTimeout = 30 * time.Second
)
