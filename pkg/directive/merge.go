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

package directive

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

// CreateMode is the permission mode for files the engine creates.
// Existing files keep whatever mode they already have.
const CreateMode fs.FileMode = 0o644

// Outcome reports what EnsureDirective did.
type Outcome string

const (
	// Present means the key was already defined; the file was not modified.
	Present Outcome = "present"
	// Appended means the directive line was appended to the file.
	Appended Outcome = "appended"
)

// Report summarizes a merge. Callers use it for logging only; no control
// flow depends on it.
type Report struct {
	// Merged lists keys newly appended to the target, in base-file order.
	Merged []Key `json:"merged" yaml:"merged"`
	// Present lists keys that were already defined in the target.
	Present []Key `json:"present" yaml:"present"`
	// Malformed lists base lines that start with the directive prefix but do
	// not parse; they were skipped with a warning.
	Malformed []string `json:"malformed,omitempty" yaml:"malformed,omitempty"`
}

// EnsureFile guarantees path exists. An existing file is left untouched,
// contents and permissions included. A missing file is created with
// CreateMode and, when header is non-empty, seeded with a single comment
// line. Safe to call repeatedly; it never truncates.
func EnsureFile(path, header string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, CreateMode)
	if err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			return nil
		}
		return wrapFileErr("cannot create file", path, err)
	}
	defer f.Close()

	if header != "" {
		if _, err := fmt.Fprintf(f, "# %s\n", header); err != nil {
			return wrapFileErr("cannot write header", path, err)
		}
	}

	slog.Debug("created file", "path", path, "mode", CreateMode)
	return nil
}

// EnsureDirective guarantees the target file defines d's key. The file is
// scanned for an anchored key match; when found the file is left untouched
// and the outcome is Present. Otherwise d's raw line is appended followed by
// one line terminator and the outcome is Appended.
//
// The target must already exist (see EnsureFile); a missing target is a hard
// NOT_FOUND error, never retried. The scan-append sequence is not
// transactional across crashes, but re-running it is always safe.
func EnsureDirective(path string, d Directive) (Outcome, error) {
	if d.Key.IsZero() {
		return "", errors.New(errors.ErrCodeInvalidRequest, "directive has no key")
	}

	lines, terminated, err := readLines(path)
	if err != nil {
		return "", err
	}

	if ContainsKey(lines, d.Key) {
		return Present, nil
	}

	if err := appendLines(path, []Directive{d}, terminated); err != nil {
		return "", err
	}
	return Appended, nil
}

// MergeFile applies every directive found in the base file against the
// target, appending the missing ones in base-file order. Both files must
// exist. Non-directive base lines are never copied; malformed directive
// lines are skipped and reported. Existing target directives keep their
// values even when the base defines the same key differently.
func MergeFile(basePath, targetPath string) (Report, error) {
	baseLines, _, err := readLines(basePath)
	if err != nil {
		return Report{}, err
	}

	targetLines, terminated, err := readLines(targetPath)
	if err != nil {
		return Report{}, err
	}

	baseDirectives, malformed := ScanDirectives(baseLines)
	missing := Missing(targetLines, baseDirectives)

	report := Report{
		Merged:    make([]Key, 0, len(missing)),
		Present:   make([]Key, 0, len(baseDirectives)),
		Malformed: malformed,
	}
	for _, d := range missing {
		report.Merged = append(report.Merged, d.Key)
	}
	merged := make(map[Key]struct{}, len(missing))
	for _, d := range missing {
		merged[d.Key] = struct{}{}
	}
	for _, d := range baseDirectives {
		if _, ok := merged[d.Key]; !ok {
			report.Present = append(report.Present, d.Key)
		}
	}

	if len(missing) == 0 {
		slog.Debug("merge is a no-op, all keys present", "base", basePath, "target", targetPath)
		return report, nil
	}

	if err := appendLines(targetPath, missing, terminated); err != nil {
		return Report{}, err
	}

	slog.Debug("merged directives",
		"base", basePath,
		"target", targetPath,
		"merged", len(report.Merged),
		"present", len(report.Present),
	)
	return report, nil
}

// readLines reads the whole file and splits it into lines, reporting whether
// the content ended with a line terminator.
func readLines(path string) ([]string, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, wrapFileErr("cannot read file", path, err)
	}
	lines, terminated := SplitLines(string(content))
	return lines, terminated, nil
}

// appendLines appends the given directive lines at the end of the file, one
// terminator each. When the existing content lacks a trailing terminator
// (partial line from a crash mid-append), a lone terminator is written first
// so the appended directives start on a fresh line.
func appendLines(path string, ds []Directive, terminated bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return wrapFileErr("cannot open file for append", path, err)
	}
	defer f.Close()

	var buf []byte
	if !terminated {
		slog.Warn("repairing missing trailing line terminator before append", "path", path)
		buf = append(buf, '\n')
	}
	for _, d := range ds {
		buf = append(buf, d.Raw...)
		buf = append(buf, '\n')
	}

	if _, err := f.Write(buf); err != nil {
		return wrapFileErr("cannot append to file", path, err)
	}
	return nil
}

// wrapFileErr maps OS errors onto the installer error taxonomy, preserving
// the original error in the chain.
func wrapFileErr(msg, path string, err error) error {
	code := errors.ErrCodeInternal
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		code = errors.ErrCodeNotFound
	case stderrors.Is(err, fs.ErrPermission):
		code = errors.ErrCodePermissionDenied
	}
	return errors.WrapWithContext(code, msg, err, map[string]any{"path": path})
}
