/*
Copyright (C) 2026  MemCP Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package storagekind

import (
	"encoding/json"
	"fmt"
	"plugin"
	"sync"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
)

// VirtualCreateParams selects which foreign implementation backs a
// Virtual storage: a handle to a dynamically-loaded implementation
// exposing the same Instance contract as the built-in kinds (the s3 and
// ceph backends do not implement RawIO).
//
//   - Backend names an entry pre-registered in BackendRegistry (e.g. "s3",
//     "ceph"), or
//   - PluginPath names a real Go plugin (.so built with
//     `go build -buildmode=plugin`) exporting a `NewInstance` symbol of
//     type `func(json.RawMessage) (storagekind.Instance, error)` — this is
//     the dlopen-equivalent escape hatch for a backend this binary was
//     never compiled against.
type VirtualCreateParams struct {
	Backend    string          `json:"backend"`
	PluginPath string          `json:"plugin_path"`
	Config     json.RawMessage `json:"config"`
}

// BackendRegistry maps a Virtual backend tag to its constructor. Entries
// are added by each backend's init(); backends with heavyweight cgo
// dependencies (ceph) register only under their build tag so a default
// build never needs the cgo toolchain.
var (
	backendRegistryMu sync.RWMutex
	BackendRegistry    = map[string]func(config json.RawMessage) (Instance, error){}
)

func RegisterBackend(name string, ctor func(config json.RawMessage) (Instance, error)) {
	backendRegistryMu.Lock()
	defer backendRegistryMu.Unlock()
	BackendRegistry[name] = ctor
}

func lookupBackend(name string) (func(config json.RawMessage) (Instance, error), bool) {
	backendRegistryMu.RLock()
	defer backendRegistryMu.RUnlock()
	ctor, ok := BackendRegistry[name]
	return ctor, ok
}

// VirtualFactory constructs a Virtual storage from either a registered
// backend tag or a dlopen'd plugin.
type VirtualFactory struct{}

func (VirtualFactory) Kind() core.Kind { return core.KindVirtual }

func (VirtualFactory) Create(p core.Parameter) (Instance, error) {
	var params VirtualCreateParams
	if err := json.Unmarshal(p, &params); err != nil {
		return nil, &errs.LoadFailed{Cause: err}
	}
	if params.Backend != "" {
		ctor, ok := lookupBackend(params.Backend)
		if !ok {
			return nil, fmt.Errorf("virtual: unknown backend %q", params.Backend)
		}
		return ctor(params.Config)
	}
	if params.PluginPath != "" {
		return loadPluginInstance(params.PluginPath, params.Config)
	}
	return nil, fmt.Errorf("virtual: Parameter.Create names neither backend nor plugin_path")
}

// loadPluginInstance dlopen's a Go plugin and trampolines into its
// exported NewInstance constructor — the escape hatch for a foreign
// implementation with no in-tree registration.
func loadPluginInstance(path string, config json.RawMessage) (Instance, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("virtual: dlopen %s: %w", path, err)
	}
	sym, err := p.Lookup("NewInstance")
	if err != nil {
		return nil, fmt.Errorf("virtual: %s: missing NewInstance: %w", path, err)
	}
	ctor, ok := sym.(func(json.RawMessage) (Instance, error))
	if !ok {
		return nil, fmt.Errorf("virtual: %s: NewInstance has the wrong signature", path)
	}
	return ctor(config)
}
