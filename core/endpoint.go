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

// Package core carries the data-model types shared by every provider and
// backend: network-reachable endpoints, the transferable Storage
// descriptor, and chunk descriptions tagged by access mode.
package core

import "github.com/mcsproject/mcs/archive"

// Endpoint names a network-reachable provider: the address a client
// dials to reach the RPC transport or the bulk transport exposed by a
// storage provider, block-device provider, IOV backend or share service.
type Endpoint struct {
	Network string // "tcp" or "ws"
	Address string // host:port
}

func (e Endpoint) String() string { return e.Network + "://" + e.Address }

func (e Endpoint) Save(o *archive.Output) {
	o.WriteTaggedString(e.Network)
	o.WriteTaggedString(e.Address)
}

func LoadEndpoint(in *archive.Input) (Endpoint, error) {
	network, err := in.ReadTaggedString()
	if err != nil {
		return Endpoint{}, err
	}
	address, err := in.ReadTaggedString()
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Network: network, Address: address}, nil
}
