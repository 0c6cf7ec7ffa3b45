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

package version

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{
			name:  "full version",
			input: "6.0.21",
			want:  Version{Major: 6, Minor: 0, Patch: 21, Precision: 3},
		},
		{
			name:  "two components",
			input: "7.2",
			want:  Version{Major: 7, Minor: 2, Precision: 2},
		},
		{
			name:  "major only",
			input: "6",
			want:  Version{Major: 6, Precision: 1},
		},
		{
			name:  "v prefix stripped",
			input: "v6.4.0",
			want:  Version{Major: 6, Minor: 4, Precision: 3},
		},
		{
			name:  "rc suffix preserved",
			input: "7.0.0-rc1",
			want:  Version{Major: 7, Precision: 3, Extras: "-rc1"},
		},
		{
			name:  "build metadata preserved",
			input: "570.158+b01",
			want:  Version{Major: 570, Minor: 158, Precision: 2, Extras: "+b01"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrEmptyVersion,
		},
		{
			name:    "too many components",
			input:   "1.2.3.4",
			wantErr: ErrTooManyComponents,
		},
		{
			name:    "non numeric",
			input:   "six.oh",
			wantErr: ErrNonNumeric,
		},
		{
			name:    "trailing dot",
			input:   "6.0.",
			wantErr: ErrNonNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    Version
		want string
	}{
		{"precision 3", Version{Major: 6, Minor: 0, Patch: 21, Precision: 3}, "6.0.21"},
		{"precision 2", Version{Major: 7, Minor: 2, Precision: 2}, "7.2"},
		{"precision 1", Version{Major: 6, Precision: 1}, "6"},
		{"extras not rendered", Version{Major: 7, Precision: 3, Extras: "-rc1"}, "7.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqualsOrNewer(t *testing.T) {
	tests := []struct {
		name  string
		v     string
		other string
		want  bool
	}{
		{"equal", "6.0.21", "6.0.21", true},
		{"newer patch", "6.0.22", "6.0.21", true},
		{"older patch", "6.0.20", "6.0.21", false},
		{"newer major", "7.0.0", "6.4.9", true},
		{"older major", "5.0.30", "6.0.0", false},
		{"major precision matches any minor", "6", "6.4.0", true},
		{"minor precision matches any patch", "6.0", "6.0.21", true},
		{"minor precision older", "6.0", "6.2.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MustParseVersion(tt.v)
			other := MustParseVersion(tt.other)
			if got := v.EqualsOrNewer(other); got != tt.want {
				t.Errorf("%s.EqualsOrNewer(%s) = %v, want %v", tt.v, tt.other, got, tt.want)
			}
		})
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid version")
		}
	}()
	MustParseVersion("not-a-version")
}
