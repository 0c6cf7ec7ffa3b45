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
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/nvzbx/pkg/agent"
	"github.com/NVIDIA/nvzbx/pkg/defaults"
	"github.com/NVIDIA/nvzbx/pkg/directive"
	"github.com/NVIDIA/nvzbx/pkg/gpu"
	"github.com/NVIDIA/nvzbx/pkg/template"
)

// statusReport summarizes agent, GPU, and merged-directive state. Probe
// failures are reported as warnings rather than failing the command; status
// must stay usable on a half-configured host.
type statusReport struct {
	Flavor       agent.Flavor `json:"flavor" yaml:"flavor"`
	AgentVersion string       `json:"agent_version,omitempty" yaml:"agent_version,omitempty"`
	AgentActive  bool         `json:"agent_active" yaml:"agent_active"`

	GPUCount      int    `json:"gpu_count" yaml:"gpu_count"`
	DriverVersion string `json:"driver_version,omitempty" yaml:"driver_version,omitempty"`
	NVLink        bool   `json:"nvlink" yaml:"nvlink"`

	TargetPath  string   `json:"target_path,omitempty" yaml:"target_path,omitempty"`
	PresentKeys []string `json:"present_keys" yaml:"present_keys"`
	MissingKeys []string `json:"missing_keys" yaml:"missing_keys"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Report agent, GPU, and installed UserParameter state",
		Description: `Probe the host and report:
  - detected agent flavor, version, and service state
  - GPU count, driver version, and NVLink availability
  - which expected UserParameter keys are present in the agent's include dir

The independent probes run concurrently. Individual probe failures degrade
to warnings so status remains useful on partially configured hosts.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:   "root",
				Value:  "/",
				Hidden: true,
				Usage:  "Filesystem root for all agent paths",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ser, err := newReportWriter(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CLIStatusTimeout)
			defer cancel()

			report, err := collectStatus(ctx, cmd.String("root"), agent.NewSystemdManager())
			if err != nil {
				return err
			}

			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()
			return ser.Serialize(ctx, report)
		},
	}
}

// collectStatus runs the independent probes concurrently and assembles the
// report. Only a missing agent is fatal; every other probe failure becomes
// a warning.
func collectStatus(ctx context.Context, root string, mgr agent.ServiceManager) (*statusReport, error) {
	flavor, err := agent.Detect(root)
	if err != nil {
		return nil, err
	}

	report := &statusReport{
		Flavor:      flavor,
		PresentKeys: []string{},
		MissingKeys: []string{},
	}

	var mu sync.Mutex
	warn := func(msg string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Warnings = append(report.Warnings, msg+": "+err.Error())
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := agent.AgentVersion(ctx, flavor.Binary())
		if err != nil {
			warn("agent version probe failed", err)
			return nil
		}
		report.AgentVersion = v.String()
		return nil
	})

	g.Go(func() error {
		active, err := mgr.IsActive(ctx, flavor.Unit())
		if err != nil {
			warn("service probe failed", err)
			return nil
		}
		report.AgentActive = active
		return nil
	})

	g.Go(func() error {
		info, err := gpu.Probe(ctx)
		if err != nil {
			warn("GPU probe failed", err)
			return nil
		}
		report.GPUCount = info.Count
		report.DriverVersion = info.DriverVersion

		nvlink, err := gpu.HasNVLink(ctx)
		if err != nil {
			warn("NVLink probe failed", err)
			return nil
		}
		report.NVLink = nvlink
		return nil
	})

	g.Go(func() error {
		present, missing, target, err := directiveStatus(root, flavor)
		if err != nil {
			warn("directive probe failed", err)
			return nil
		}
		report.TargetPath = target
		report.PresentKeys = present
		report.MissingKeys = missing
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// directiveStatus compares the vendored template keys against the target
// conf in the agent's include directory. A missing target means every
// expected key is missing.
func directiveStatus(root string, flavor agent.Flavor) (present, missing []string, target string, err error) {
	dirs, err := agent.IncludeDirs(root, flavor)
	if err != nil {
		return nil, nil, "", err
	}

	// The NVLink template carries the full key set, generic ones included.
	data, err := template.Vendored(template.VariantNVLink)
	if err != nil {
		return nil, nil, "", err
	}
	expectedLines, _ := directive.SplitLines(string(data))
	expected, _ := directive.ScanDirectives(expectedLines)

	var targetLines []string
	for _, v := range []template.Variant{template.VariantNVLink, template.VariantGeneric} {
		path := filepath.Join(dirs[0], v.Filename())
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		target = path
		targetLines, _ = directive.SplitLines(string(content))
		break
	}

	present = []string{}
	missing = []string{}
	for _, d := range expected {
		if directive.ContainsKey(targetLines, d.Key) {
			present = append(present, d.Key.Name())
		} else {
			missing = append(missing, d.Key.Name())
		}
	}
	return present, missing, target, nil
}
