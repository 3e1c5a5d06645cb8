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

// Package rpcdial is the common "dial a provider by endpoint string" step
// shared by every CLI utility in cmd/: parse "network://address", open
// the matching transport binding, and perform the client handshake
// against the full command registry.
package rpcdial

import (
	"fmt"
	"io"

	"github.com/mcsproject/mcs/accesspolicy"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/config"
	"github.com/mcsproject/mcs/rpc"
)

// Dial parses endpoint (e.g. "tcp://localhost:9000" or
// "ws://localhost:9000") and returns a handshaked Client against the
// default command registry.
func Dial(endpoint string) (*rpc.Client, error) {
	ep, err := config.ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	var rw io.ReadWriter
	switch ep.Network {
	case "tcp":
		rw, err = rpc.DialTCP(ep.Address)
	case "ws":
		rw, err = rpc.DialWS("ws://" + ep.Address)
	default:
		return nil, fmt.Errorf("rpcdial: unsupported network %q", ep.Network)
	}
	if err != nil {
		return nil, err
	}

	return rpc.NewClient(rw, command.Default(), accesspolicy.NewConcurrent())
}
