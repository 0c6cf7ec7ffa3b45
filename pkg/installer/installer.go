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
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/nvzbx/pkg/agent"
	"github.com/NVIDIA/nvzbx/pkg/directive"
	"github.com/NVIDIA/nvzbx/pkg/errors"
	"github.com/NVIDIA/nvzbx/pkg/gpu"
	"github.com/NVIDIA/nvzbx/pkg/template"
)

// targetHeader seeds newly created target conf files.
const targetHeader = "NVIDIA GPU UserParameter definitions, maintained by nvzbx"

// helperScriptMode makes the helper executable by the agent.
const helperScriptMode fs.FileMode = 0o755

// NVLinkProber reports whether the host GPUs expose NVLink. Injectable so
// tests run without nvidia-smi.
type NVLinkProber func(ctx context.Context) (bool, error)

// Option defines a configuration option for the Installer.
type Option func(*Installer)

// WithRoot rebases all filesystem paths under dir. Production uses "/".
func WithRoot(dir string) Option {
	return func(i *Installer) { i.root = dir }
}

// WithFlavor skips detection and installs for the given flavor.
func WithFlavor(f agent.Flavor) Option {
	return func(i *Installer) { i.flavor = f }
}

// WithIncludeDir overrides the include directory read from the agent config.
func WithIncludeDir(dir string) Option {
	return func(i *Installer) { i.includeDir = dir }
}

// WithScriptsDir overrides the helper script directory.
func WithScriptsDir(dir string) Option {
	return func(i *Installer) { i.scriptsDir = dir }
}

// WithVariant skips the GPU probe and installs the given template variant.
func WithVariant(v template.Variant) Option {
	return func(i *Installer) { i.variant = v }
}

// WithTemplatePath uses an explicit local template file.
func WithTemplatePath(path string) Option {
	return func(i *Installer) { i.templatePath = path }
}

// WithTemplateURL fetches the template from a remote location.
func WithTemplateURL(url string) Option {
	return func(i *Installer) { i.templateURL = url }
}

// WithStrictFetch makes a failed remote fetch fatal instead of falling back
// to the vendored template.
func WithStrictFetch(strict bool) Option {
	return func(i *Installer) { i.strictFetch = strict }
}

// WithNoRestart leaves the agent service alone after merging.
func WithNoRestart(noRestart bool) Option {
	return func(i *Installer) { i.noRestart = noRestart }
}

// WithServiceManager substitutes the service backend.
func WithServiceManager(mgr agent.ServiceManager) Option {
	return func(i *Installer) { i.svc = mgr }
}

// WithNVLinkProber substitutes the NVLink probe.
func WithNVLinkProber(p NVLinkProber) Option {
	return func(i *Installer) { i.hasNVLink = p }
}

// Installer runs the idempotent GPU monitoring install.
type Installer struct {
	root         string
	flavor       agent.Flavor
	variant      template.Variant
	includeDir   string
	scriptsDir   string
	templatePath string
	templateURL  string
	strictFetch  bool
	noRestart    bool
	svc          agent.ServiceManager
	hasNVLink    NVLinkProber
}

// New creates an Installer. Defaults target the live system: root "/",
// systemd service control, nvidia-smi NVLink probe.
func New(opts ...Option) *Installer {
	i := &Installer{
		root:      "/",
		hasNVLink: gpu.HasNVLink,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.svc == nil {
		i.svc = agent.NewSystemdManager()
	}
	return i
}

// Run executes the full install and returns its report. File changes are
// never rolled back; restart and verification failures degrade to warnings.
func (i *Installer) Run(ctx context.Context) (*InstallReport, error) {
	report, basePath, targetPath, err := i.prepare(ctx, false)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(filepath.Dir(basePath))

	if err := i.installHelper(report); err != nil {
		return nil, err
	}

	if err := directive.EnsureFile(targetPath, targetHeader); err != nil {
		return nil, err
	}
	merge, err := directive.MergeFile(basePath, targetPath)
	if err != nil {
		return nil, err
	}
	fillMerge(report, merge)

	slog.Info("merge complete",
		"run_id", report.RunID,
		"target", targetPath,
		"merged", len(report.Merged),
		"present", len(report.Present))

	if i.noRestart {
		slog.Info("restart skipped", "unit", report.Flavor.Unit())
		return report, nil
	}

	if err := i.svc.Restart(ctx, report.Flavor.Unit()); err != nil {
		report.warn(fmt.Sprintf("restart failed: %v", err))
		slog.Warn("service restart failed, merged config takes effect on next start",
			"unit", report.Flavor.Unit(), "error", err)
		return report, nil
	}
	report.Restarted = true

	if err := agent.VerifyRunning(ctx, i.svc, report.Flavor); err != nil {
		report.warn(fmt.Sprintf("verification failed: %v", err))
		slog.Warn("agent verification failed", "unit", report.Flavor.Unit(), "error", err)
		return report, nil
	}
	report.Verified = true

	return report, nil
}

// DryRun computes the report a real run would produce without touching the
// target file, the helper script, or the service.
func (i *Installer) DryRun(ctx context.Context) (*InstallReport, error) {
	report, basePath, targetPath, err := i.prepare(ctx, true)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(filepath.Dir(basePath))
	report.DryRun = true

	if _, err := os.Stat(i.helperPath()); err != nil {
		report.HelperInstalled = true // would be created
	}

	baseLines, err := readLinesIfExists(basePath)
	if err != nil {
		return nil, err
	}
	targetLines, err := readLinesIfExists(targetPath)
	if err != nil {
		return nil, err
	}

	baseDirectives, malformed := directive.ScanDirectives(baseLines)
	missing := directive.Missing(targetLines, baseDirectives)

	merge := directive.Report{Malformed: malformed}
	for _, d := range missing {
		merge.Merged = append(merge.Merged, d.Key)
	}
	missingKeys := make(map[string]struct{}, len(missing))
	for _, d := range missing {
		missingKeys[d.Key.Name()] = struct{}{}
	}
	for _, d := range baseDirectives {
		if _, ok := missingKeys[d.Key.Name()]; !ok {
			merge.Present = append(merge.Present, d.Key)
		}
	}
	fillMerge(report, merge)

	return report, nil
}

// prepare runs the read-only steps shared by Run and DryRun: flavor
// detection, version gate, variant selection, and template materialization.
// It returns the report shell plus the base and target paths.
func (i *Installer) prepare(ctx context.Context, dryRun bool) (*InstallReport, string, string, error) {
	report := &InstallReport{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}

	flavor := i.flavor
	if flavor == "" {
		f, err := agent.Detect(i.root)
		if err != nil {
			return nil, "", "", err
		}
		flavor = f
	}
	report.Flavor = flavor
	slog.Info("starting install",
		"run_id", report.RunID,
		"flavor", flavor,
		"dry_run", dryRun)

	if v, err := agent.AgentVersion(ctx, flavor.Binary()); err != nil {
		report.warn(fmt.Sprintf("could not determine agent version: %v", err))
	} else {
		report.AgentVersion = v.String()
		if !v.EqualsOrNewer(agent.MinAgentVersion) {
			report.warn(fmt.Sprintf("agent version %s is older than supported minimum %s",
				v, agent.MinAgentVersion))
		}
	}

	variant := i.variant
	if variant == "" {
		nvlink, err := i.hasNVLink(ctx)
		if err != nil {
			report.warn(fmt.Sprintf("GPU probe failed, assuming no NVLink: %v", err))
			nvlink = false
		}
		variant = template.VariantGeneric
		if nvlink {
			variant = template.VariantNVLink
		}
	}
	report.Variant = variant

	src := template.Source{
		Path:    i.templatePath,
		URL:     i.templateURL,
		Variant: variant,
		Strict:  i.strictFetch,
	}

	stageDir, err := os.MkdirTemp("", "nvzbx-template-")
	if err != nil {
		return nil, "", "", errors.Wrap(errors.ErrCodeInternal, "failed to create staging dir", err)
	}
	basePath, origin, err := src.Materialize(ctx, stageDir)
	if err != nil {
		return nil, "", "", err
	}
	report.TemplateOrigin = origin

	targetDir := i.includeDir
	if targetDir == "" {
		dirs, err := agent.IncludeDirs(i.root, flavor)
		if err != nil {
			return nil, "", "", err
		}
		targetDir = dirs[0]
	}
	if !dryRun {
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return nil, "", "", errors.Wrap(errors.ErrCodePermissionDenied,
				"failed to create include dir: "+targetDir, err)
		}
	}
	targetPath := filepath.Join(targetDir, variant.Filename())
	report.TargetPath = targetPath

	return report, basePath, targetPath, nil
}

func (i *Installer) helperPath() string {
	dir := i.scriptsDir
	if dir == "" {
		dir = filepath.Join(i.root, agent.ScriptsDir)
	}
	return filepath.Join(dir, template.HelperScriptName)
}

// installHelper places the GPU helper script, creating it executable when
// missing and leaving any existing copy untouched.
func (i *Installer) installHelper(report *InstallReport) error {
	path := i.helperPath()
	if _, err := os.Stat(path); err == nil {
		slog.Debug("helper script already present", "path", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodePermissionDenied,
			"failed to create scripts dir: "+filepath.Dir(path), err)
	}

	script, err := template.HelperScript()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to load helper script", err)
	}
	if err := os.WriteFile(path, script, helperScriptMode); err != nil {
		return errors.Wrap(errors.ErrCodePermissionDenied,
			"failed to write helper script: "+path, err)
	}

	report.HelperInstalled = true
	slog.Info("installed helper script", "path", path, "mode", helperScriptMode)
	return nil
}

func fillMerge(report *InstallReport, merge directive.Report) {
	report.Merged = keyNames(merge.Merged)
	report.Present = keyNames(merge.Present)
	report.Malformed = merge.Malformed
}

func keyNames(keys []directive.Key) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name())
	}
	return names
}

// readLinesIfExists reads a file into lines, treating a missing file as
// empty. Used by DryRun, which must not create anything.
func readLinesIfExists(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read file: "+path, err)
	}
	lines, _ := directive.SplitLines(string(data))
	return lines, nil
}
