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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nvzbx/pkg/directive"
)

// mergeReport is the merge command's serialized output.
type mergeReport struct {
	Base      string          `json:"base" yaml:"base"`
	Target    string          `json:"target" yaml:"target"`
	Merged    []directive.Key `json:"merged" yaml:"merged"`
	Present   []directive.Key `json:"present" yaml:"present"`
	Malformed []string        `json:"malformed,omitempty" yaml:"malformed,omitempty"`
}

func mergeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "merge",
		EnableShellCompletion: true,
		Usage:                 "Merge UserParameter directives from a base file into a target file",
		Description: `Apply the directive merge directly against explicit files, without agent
detection, GPU probing, or service control.

Every UserParameter line in the base file whose key is missing from the
target is appended to the target; keys already defined in the target keep
their existing commands. Non-directive base lines (comments, blanks) are
never copied. The operation is idempotent.

# Examples

Merge a template into an include file:
  nvzbx merge --base userparameter_gpu.conf --target /etc/zabbix/zabbix_agentd.d/gpu.conf

Create the target first when it may not exist:
  nvzbx merge --base gpu.conf --target /etc/zabbix/zabbix_agentd.d/gpu.conf --create-target`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "base",
				Aliases:  []string{"b"},
				Required: true,
				Usage:    "Base template file providing the directives",
			},
			&cli.StringFlag{
				Name:     "target",
				Required: true,
				Usage:    "Target configuration file to merge into",
			},
			&cli.BoolFlag{
				Name:  "create-target",
				Usage: "Create an empty target file when it does not exist",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ser, err := newReportWriter(cmd)
			if err != nil {
				return err
			}

			base := cmd.String("base")
			target := cmd.String("target")

			if cmd.Bool("create-target") {
				if err := directive.EnsureFile(target, ""); err != nil {
					return err
				}
			}

			report, err := directive.MergeFile(base, target)
			if err != nil {
				return err
			}

			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()
			return ser.Serialize(ctx, &mergeReport{
				Base:      base,
				Target:    target,
				Merged:    report.Merged,
				Present:   report.Present,
				Malformed: report.Malformed,
			})
		},
	}
}
