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
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/nvzbx/pkg/defaults"
	"github.com/NVIDIA/nvzbx/pkg/errors"
)

// ServiceManager controls the agent's service unit. The production
// implementation talks to systemd; tests substitute a fake.
type ServiceManager interface {
	// Restart restarts the unit and waits for the job to complete.
	Restart(ctx context.Context, unit string) error
	// IsActive reports whether the unit is currently active.
	IsActive(ctx context.Context, unit string) (bool, error)
}

// SystemdManager implements ServiceManager over the systemd D-Bus API.
// Connections are per-call: the installer issues at most a handful of
// service operations per run, so holding a connection open buys nothing.
type SystemdManager struct{}

// NewSystemdManager creates a systemd-backed ServiceManager.
func NewSystemdManager() *SystemdManager {
	return &SystemdManager{}
}

// Restart restarts the unit in "replace" mode and waits for the queued job
// to finish. A job result other than "done" is an error.
func (m *SystemdManager) Restart(ctx context.Context, unit string) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.ServiceRestartTimeout)
	defer cancel()

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to connect to systemd", err)
	}
	defer conn.Close()

	slog.Info("restarting service", "unit", unit)

	result := make(chan string, 1)
	if _, err := conn.RestartUnitContext(ctx, unit, "replace", result); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable,
			fmt.Sprintf("failed to restart unit: %s", unit), err)
	}

	select {
	case r := <-result:
		if r != "done" {
			return errors.New(errors.ErrCodeUnavailable,
				fmt.Sprintf("restart of %s finished with result %q", unit, r))
		}
		return nil
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout,
			fmt.Sprintf("timed out waiting for restart of %s", unit), ctx.Err())
	}
}

// IsActive reports whether the unit's ActiveState is "active".
func (m *SystemdManager) IsActive(ctx context.Context, unit string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ServiceQueryTimeout)
	defer cancel()

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeUnavailable, "failed to connect to systemd", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, []string{unit})
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeUnavailable,
			fmt.Sprintf("failed to query unit: %s", unit), err)
	}

	for _, u := range units {
		if u.Name == unit {
			slog.Debug("unit state", "unit", unit, "active", u.ActiveState, "sub", u.SubState)
			return u.ActiveState == "active", nil
		}
	}
	return false, errors.New(errors.ErrCodeNotFound,
		fmt.Sprintf("unit not known to systemd: %s", unit))
}
