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
	"fmt"

	"github.com/mcsproject/mcs/core"
)

// Factories lists the four kind factories a provider dispatches
// storage.Create to.
func Factories() map[core.Kind]Factory {
	return map[core.Kind]Factory{
		core.KindFiles:   FilesFactory{},
		core.KindHeap:    HeapFactory{},
		core.KindSHMEM:   SHMEMFactory{},
		core.KindVirtual: VirtualFactory{},
	}
}

// Create dispatches to the factory for kind.
func Create(kind core.Kind, createParam core.Parameter) (Instance, error) {
	f, ok := Factories()[kind]
	if !ok {
		return nil, fmt.Errorf("storagekind: unknown kind %v", kind)
	}
	return f.Create(createParam)
}
