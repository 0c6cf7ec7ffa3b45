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

package agent

import (
	"context"
	"os/exec"
	"strings"

	"github.com/NVIDIA/nvzbx/pkg/defaults"
	"github.com/NVIDIA/nvzbx/pkg/errors"
	"github.com/NVIDIA/nvzbx/pkg/version"
)

// MinAgentVersion is the oldest agent release the installed templates are
// validated against.
var MinAgentVersion = version.MustParseVersion("4.0.0")

// AgentVersion runs the agent binary with -V and parses the reported
// version. The first output line looks like:
//
//	zabbix_agentd (daemon) (Zabbix) 6.0.21
func AgentVersion(ctx context.Context, binary string) (version.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.AgentVersionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "-V").Output()
	if err != nil {
		return version.Version{}, errors.Wrap(errors.ErrCodeNotFound,
			"failed to run agent binary: "+binary, err)
	}
	return parseAgentVersion(string(out))
}

func parseAgentVersion(out string) (version.Version, error) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return version.Version{}, errors.New(errors.ErrCodeInvalidRequest,
			"empty agent version output")
	}

	v, err := version.ParseVersion(fields[len(fields)-1])
	if err != nil {
		return version.Version{}, errors.Wrap(errors.ErrCodeInvalidRequest,
			"unparseable agent version line: "+line, err)
	}
	return v, nil
}
