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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nvzbx/pkg/errors"
)

type fakeServiceManager struct {
	active    bool
	activeErr error
	restarted []string
}

func (f *fakeServiceManager) Restart(_ context.Context, unit string) error {
	f.restarted = append(f.restarted, unit)
	return nil
}

func (f *fakeServiceManager) IsActive(_ context.Context, _ string) (bool, error) {
	return f.active, f.activeErr
}

func TestProcessRunningNotFound(t *testing.T) {
	running, err := ProcessRunning(context.Background(), "nvzbx-no-such-process")
	require.NoError(t, err)
	assert.False(t, running)
}

func TestVerifyRunningUnitInactive(t *testing.T) {
	mgr := &fakeServiceManager{active: false}
	err := VerifyRunning(context.Background(), mgr, FlavorAgent)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
}

func TestVerifyRunningUnitQueryFails(t *testing.T) {
	mgr := &fakeServiceManager{
		activeErr: errors.New(errors.ErrCodeUnavailable, "dbus down"),
	}
	err := VerifyRunning(context.Background(), mgr, FlavorAgent)
	require.Error(t, err)
}

func TestVerifyRunningNoProcess(t *testing.T) {
	// The unit claims active but no zabbix_agentd process exists on the
	// test machine, so verification must fail on the process check.
	mgr := &fakeServiceManager{active: true}
	err := VerifyRunning(context.Background(), mgr, FlavorAgent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no agent process")
}

func TestVerifyRunningCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := VerifyRunning(ctx, &fakeServiceManager{active: true}, FlavorAgent)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
