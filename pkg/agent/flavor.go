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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/nvzbx/pkg/conffile"
	"github.com/NVIDIA/nvzbx/pkg/errors"
)

// Flavor identifies which Zabbix agent implementation is installed.
type Flavor string

const (
	// FlavorAgent is the classic C agent, zabbix_agentd.
	FlavorAgent Flavor = "zabbix-agent"
	// FlavorAgent2 is the Go agent, zabbix-agent2.
	FlavorAgent2 Flavor = "zabbix-agent2"
)

// ScriptsDir is where the GPU helper script is installed. Both flavors
// reference it from their UserParameter commands.
const ScriptsDir = "/etc/zabbix/scripts"

// IsValid reports whether f names a known agent flavor.
func (f Flavor) IsValid() bool {
	return f == FlavorAgent || f == FlavorAgent2
}

// Unit returns the systemd unit name for the flavor.
func (f Flavor) Unit() string {
	if f == FlavorAgent2 {
		return "zabbix-agent2.service"
	}
	return "zabbix-agent.service"
}

// Binary returns the agent's process/executable name.
func (f Flavor) Binary() string {
	if f == FlavorAgent2 {
		return "zabbix_agent2"
	}
	return "zabbix_agentd"
}

// ConfPath returns the flavor's main configuration file path.
func (f Flavor) ConfPath() string {
	if f == FlavorAgent2 {
		return "/etc/zabbix/zabbix_agent2.conf"
	}
	return "/etc/zabbix/zabbix_agentd.conf"
}

// IncludeDir returns the flavor's conventional UserParameter include
// directory.
func (f Flavor) IncludeDir() string {
	if f == FlavorAgent2 {
		return "/etc/zabbix/zabbix_agent2.d"
	}
	return "/etc/zabbix/zabbix_agentd.d"
}

// ParseFlavor converts a user-supplied flavor name.
func ParseFlavor(s string) (Flavor, error) {
	f := Flavor(s)
	if !f.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown agent flavor: %q (want %s or %s)", s, FlavorAgent, FlavorAgent2))
	}
	return f, nil
}

// ErrNoAgent is returned by Detect when neither agent flavor is installed.
var ErrNoAgent = errors.New(errors.ErrCodeNotFound,
	"no zabbix agent configuration found under /etc/zabbix")

// Detect probes the filesystem under root for an installed agent. The newer
// agent2 wins when both flavors are present. Pass "/" in production; tests
// pass a temp dir.
func Detect(root string) (Flavor, error) {
	for _, f := range []Flavor{FlavorAgent2, FlavorAgent} {
		path := filepath.Join(root, f.ConfPath())
		if _, err := os.Stat(path); err == nil {
			slog.Debug("detected zabbix agent", "flavor", f, "conf", path)
			return f, nil
		}
	}
	return "", ErrNoAgent
}

// IncludeDirs returns the include directories the flavor's main config
// actually declares, read from its Include directives. When the config
// declares none, the flavor's conventional include dir is returned so the
// installer still has somewhere deterministic to write.
func IncludeDirs(root string, f Flavor) ([]string, error) {
	confPath := filepath.Join(root, f.ConfPath())

	parser := conffile.NewParser()
	values, err := parser.GetAll(confPath, "Include")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound,
			fmt.Sprintf("failed to read agent config: %s", confPath), err)
	}

	dirs := make([]string, 0, len(values))
	for _, v := range values {
		// Include values may carry a glob suffix (/etc/zabbix/zabbix_agentd.d/*.conf);
		// the directory part is what we write into.
		dir := v
		if base := filepath.Base(dir); base == "*.conf" || base == "*" {
			dir = filepath.Dir(dir)
		}
		dirs = append(dirs, filepath.Join(root, dir))
	}

	if len(dirs) == 0 {
		dirs = append(dirs, filepath.Join(root, f.IncludeDir()))
	}
	return dirs, nil
}
