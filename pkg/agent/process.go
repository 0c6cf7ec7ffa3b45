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
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/NVIDIA/nvzbx/pkg/defaults"
	"github.com/NVIDIA/nvzbx/pkg/errors"
)

// ProcessRunning reports whether a process with the given executable name is
// currently running.
func ProcessRunning(ctx context.Context, name string) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeUnavailable, "failed to list processes", err)
	}
	for _, p := range procs {
		n, err := p.NameWithContext(ctx)
		if err != nil {
			// Processes exit between listing and inspection; skip them.
			continue
		}
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// VerifyRunning waits briefly after a restart and then confirms both the
// unit state and the agent process. The delay matters: systemd reports a
// unit active before a crash-looping agent has had time to fail.
func VerifyRunning(ctx context.Context, mgr ServiceManager, f Flavor) error {
	select {
	case <-time.After(defaults.ServiceVerifyDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.ServiceVerifyTimeout)
	defer cancel()

	active, err := mgr.IsActive(ctx, f.Unit())
	if err != nil {
		return err
	}
	if !active {
		return errors.New(errors.ErrCodeUnavailable,
			"unit is not active after restart: "+f.Unit())
	}

	running, err := ProcessRunning(ctx, f.Binary())
	if err != nil {
		// Unit state already confirmed; a process-listing failure alone is
		// not worth failing the install over.
		slog.Warn("could not verify agent process", "binary", f.Binary(), "error", err)
		return nil
	}
	if !running {
		return errors.New(errors.ErrCodeUnavailable,
			"unit is active but no agent process found: "+f.Binary())
	}

	slog.Debug("agent verified running", "unit", f.Unit(), "binary", f.Binary())
	return nil
}
