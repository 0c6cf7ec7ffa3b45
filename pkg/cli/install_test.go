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

package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nvzbx/pkg/agent"
	"github.com/NVIDIA/nvzbx/pkg/installer"
)

func TestInstallCmdDryRun(t *testing.T) {
	root := seedAgent(t, agent.FlavorAgent)
	out := filepath.Join(t.TempDir(), "report.json")

	err := runCLI(t,
		"install", "--dry-run", "--variant", "generic",
		"--root", root, "--format", "json", "--output", out)
	require.NoError(t, err)

	var report installer.InstallReport
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &report))

	assert.True(t, report.DryRun)
	assert.Equal(t, agent.FlavorAgent, report.Flavor)
	assert.NotEmpty(t, report.Merged)

	_, err = os.Stat(report.TargetPath)
	assert.True(t, os.IsNotExist(err), "dry run must not create the target")
}

func TestInstallCmdInvalidFlavor(t *testing.T) {
	err := runCLI(t, "install", "--dry-run", "--flavor", "zabbix-agent3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent flavor")
}

func TestInstallCmdInvalidVariant(t *testing.T) {
	err := runCLI(t, "install", "--dry-run", "--variant", "extended")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid variant")
}

func TestInstallCmdConfDirOverride(t *testing.T) {
	root := seedAgent(t, agent.FlavorAgent)
	confDir := t.TempDir()

	err := runCLI(t,
		"install", "--dry-run", "--variant", "generic",
		"--root", root, "--conf-dir", confDir,
		"--format", "json", "--output", os.DevNull)
	require.NoError(t, err)
}
