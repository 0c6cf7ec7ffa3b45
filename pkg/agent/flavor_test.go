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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

func writeConf(t *testing.T, root string, f Flavor, content string) string {
	t.Helper()
	path := filepath.Join(root, f.ConfPath())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetect(t *testing.T) {
	t.Run("agent2 preferred when both present", func(t *testing.T) {
		root := t.TempDir()
		writeConf(t, root, FlavorAgent, "Server=127.0.0.1\n")
		writeConf(t, root, FlavorAgent2, "Server=127.0.0.1\n")

		f, err := Detect(root)
		require.NoError(t, err)
		assert.Equal(t, FlavorAgent2, f)
	})

	t.Run("classic agent alone", func(t *testing.T) {
		root := t.TempDir()
		writeConf(t, root, FlavorAgent, "Server=127.0.0.1\n")

		f, err := Detect(root)
		require.NoError(t, err)
		assert.Equal(t, FlavorAgent, f)
	})

	t.Run("no agent", func(t *testing.T) {
		_, err := Detect(t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	})
}

func TestFlavorAttributes(t *testing.T) {
	assert.Equal(t, "zabbix-agent.service", FlavorAgent.Unit())
	assert.Equal(t, "zabbix_agentd", FlavorAgent.Binary())
	assert.Equal(t, "/etc/zabbix/zabbix_agentd.conf", FlavorAgent.ConfPath())
	assert.Equal(t, "/etc/zabbix/zabbix_agentd.d", FlavorAgent.IncludeDir())

	assert.Equal(t, "zabbix-agent2.service", FlavorAgent2.Unit())
	assert.Equal(t, "zabbix_agent2", FlavorAgent2.Binary())
	assert.Equal(t, "/etc/zabbix/zabbix_agent2.conf", FlavorAgent2.ConfPath())
	assert.Equal(t, "/etc/zabbix/zabbix_agent2.d", FlavorAgent2.IncludeDir())
}

func TestParseFlavor(t *testing.T) {
	f, err := ParseFlavor("zabbix-agent2")
	require.NoError(t, err)
	assert.Equal(t, FlavorAgent2, f)

	_, err = ParseFlavor("zabbix-agent3")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestIncludeDirs(t *testing.T) {
	t.Run("glob include", func(t *testing.T) {
		root := t.TempDir()
		writeConf(t, root, FlavorAgent,
			"Server=127.0.0.1\nInclude=/etc/zabbix/zabbix_agentd.d/*.conf\n")

		dirs, err := IncludeDirs(root, FlavorAgent)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "/etc/zabbix/zabbix_agentd.d")}, dirs)
	})

	t.Run("multiple includes preserved in order", func(t *testing.T) {
		root := t.TempDir()
		writeConf(t, root, FlavorAgent2,
			"Include=/etc/zabbix/zabbix_agent2.d/*.conf\nInclude=/opt/zbx/extra.d\n")

		dirs, err := IncludeDirs(root, FlavorAgent2)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "/etc/zabbix/zabbix_agent2.d"),
			filepath.Join(root, "/opt/zbx/extra.d"),
		}, dirs)
	})

	t.Run("no include falls back to convention", func(t *testing.T) {
		root := t.TempDir()
		writeConf(t, root, FlavorAgent, "Server=127.0.0.1\n")

		dirs, err := IncludeDirs(root, FlavorAgent)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, FlavorAgent.IncludeDir())}, dirs)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := IncludeDirs(t.TempDir(), FlavorAgent)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	})
}
