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

// Package agent locates the installed Zabbix agent and drives its lifecycle.
//
// Two agent flavors exist in the field: the classic C agent (zabbix_agentd)
// and the Go rewrite (zabbix-agent2). They use different unit names, config
// paths, and include directories, but share the UserParameter directive
// grammar, so the rest of the system only needs the Flavor to know where to
// write. Detection is a filesystem probe with an injectable root so tests
// never touch /etc.
//
// Service control goes through the ServiceManager interface; the production
// implementation talks to systemd over its D-Bus API. Post-restart
// verification checks both the unit state and the presence of the agent
// process itself, since a unit can report active while the agent is still
// crash-looping on a bad config.
package agent
