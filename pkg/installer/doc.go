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

// Package installer orchestrates the end-to-end GPU monitoring install:
// agent detection, GPU probe, template materialization, directive merge,
// and service restart. Every run is idempotent; running the installer twice
// in a row leaves the second run reporting all keys present and changes
// nothing on disk.
//
// File changes are never rolled back. A restart or verification failure
// after a successful merge degrades to warnings on the report, since the
// merged directives are valid on their own and the agent will pick them up
// on its next start.
package installer
