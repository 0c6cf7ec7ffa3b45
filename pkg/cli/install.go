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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nvzbx/pkg/agent"
	"github.com/NVIDIA/nvzbx/pkg/defaults"
	"github.com/NVIDIA/nvzbx/pkg/installer"
	"github.com/NVIDIA/nvzbx/pkg/template"
)

func installCmd() *cli.Command {
	return &cli.Command{
		Name:                  "install",
		EnableShellCompletion: true,
		Usage:                 "Install GPU monitoring UserParameter definitions into the Zabbix agent",
		Description: `Run the full idempotent install:
  1. Detect the installed agent flavor (zabbix-agent or zabbix-agent2)
  2. Probe GPUs with nvidia-smi and pick the template variant (NVLink or generic)
  3. Merge the template's UserParameter lines into the agent's include directory
  4. Install the GPU helper script
  5. Restart the agent and verify it comes back up

Existing UserParameter keys in the target file are never modified or
duplicated; only missing keys are appended. Running install twice in a row
is a no-op.

# Examples

Standard install:
  nvzbx install

Preview without changing anything:
  nvzbx install --dry-run --format json

Use a site-specific template and skip the restart:
  nvzbx install --template /srv/zbx/gpu.conf --no-restart`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "flavor",
				Usage: fmt.Sprintf("Agent flavor, skips detection (supported values: %s, %s)",
					agent.FlavorAgent, agent.FlavorAgent2),
			},
			&cli.StringFlag{
				Name: "variant",
				Usage: fmt.Sprintf("Template variant, skips the GPU probe (supported values: %s)",
					strings.Join(template.SupportedVariants(), ", ")),
			},
			&cli.StringFlag{
				Name:  "conf-dir",
				Usage: "Override the agent include directory to merge into",
			},
			&cli.StringFlag{
				Name:  "scripts-dir",
				Usage: "Override the helper script directory",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Path to a local base template file (wins over --template-url)",
			},
			&cli.StringFlag{
				Name:  "template-url",
				Usage: "URL of a remote base template",
			},
			&cli.BoolFlag{
				Name:  "strict-fetch",
				Usage: "Fail instead of falling back to the vendored template when the remote fetch fails",
			},
			&cli.BoolFlag{
				Name:  "no-restart",
				Usage: "Merge only, do not restart the agent service",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without touching files or the service",
			},
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

			opts := []installer.Option{
				installer.WithRoot(cmd.String("root")),
				installer.WithTemplatePath(cmd.String("template")),
				installer.WithTemplateURL(cmd.String("template-url")),
				installer.WithStrictFetch(cmd.Bool("strict-fetch")),
				installer.WithNoRestart(cmd.Bool("no-restart")),
				installer.WithIncludeDir(cmd.String("conf-dir")),
				installer.WithScriptsDir(cmd.String("scripts-dir")),
			}

			if fs := cmd.String("flavor"); fs != "" {
				flavor, err := agent.ParseFlavor(fs)
				if err != nil {
					return err
				}
				opts = append(opts, installer.WithFlavor(flavor))
			}
			if vs := cmd.String("variant"); vs != "" {
				variant := template.Variant(vs)
				if !variant.IsValid() {
					return fmt.Errorf("invalid variant: %q, supported values: %v",
						vs, template.SupportedVariants())
				}
				opts = append(opts, installer.WithVariant(variant))
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CLIInstallTimeout)
			defer cancel()

			inst := installer.New(opts...)

			var report *installer.InstallReport
			if cmd.Bool("dry-run") {
				report, err = inst.DryRun(ctx)
			} else {
				report, err = inst.Run(ctx)
			}
			if err != nil {
				return err
			}

			for _, w := range report.Warnings {
				slog.Warn(w, "run_id", report.RunID)
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
