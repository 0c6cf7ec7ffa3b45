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

package installer

import (
	"time"

	"github.com/NVIDIA/nvzbx/pkg/agent"
	"github.com/NVIDIA/nvzbx/pkg/template"
)

// InstallReport is the machine-readable result of one installer run.
type InstallReport struct {
	// RunID uniquely identifies this run across logs and reports.
	RunID     string    `json:"run_id" yaml:"run_id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	DryRun    bool      `json:"dry_run" yaml:"dry_run"`

	Flavor       agent.Flavor `json:"flavor" yaml:"flavor"`
	AgentVersion string       `json:"agent_version,omitempty" yaml:"agent_version,omitempty"`

	Variant        template.Variant `json:"variant" yaml:"variant"`
	TemplateOrigin template.Origin  `json:"template_origin" yaml:"template_origin"`

	// TargetPath is the include-dir conf file the directives were merged into.
	TargetPath string `json:"target_path" yaml:"target_path"`

	// Merged lists keys appended by this run; Present lists keys that were
	// already defined. A fully idempotent re-run has an empty Merged list.
	Merged    []string `json:"merged" yaml:"merged"`
	Present   []string `json:"present" yaml:"present"`
	Malformed []string `json:"malformed,omitempty" yaml:"malformed,omitempty"`

	// HelperInstalled is true when this run created the helper script.
	HelperInstalled bool `json:"helper_installed" yaml:"helper_installed"`

	Restarted bool `json:"restarted" yaml:"restarted"`
	Verified  bool `json:"verified" yaml:"verified"`

	// Warnings collects non-fatal degradations (failed GPU probe, restart
	// failure, old agent version).
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Changed reports whether the run modified anything on disk.
func (r *InstallReport) Changed() bool {
	return len(r.Merged) > 0 || r.HelperInstalled
}

func (r *InstallReport) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
