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

// Package server wires every core-control component (provider,
// blockdevice, iov, share) into one rpc.Dispatcher: a single process
// advertising all of a storage provider's command groups over one
// connection.
package server

import (
	"github.com/mcsproject/mcs/blockdevice"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/iov"
	"github.com/mcsproject/mcs/provider"
	"github.com/mcsproject/mcs/rpc"
	"github.com/mcsproject/mcs/share"
)

// Server bundles one of each backend this process advertises. A
// deployment only needing a subset (e.g. a bare storage provider with no
// block device) can construct its own Dispatcher and call the
// individual registerXxx functions instead of New.
type Server struct {
	Provider   *provider.Provider
	Blocks     *blockdevice.Blocks
	IOV        *iov.IOV
	Share      *share.Service
	Dispatcher *rpc.Dispatcher
}

// New constructs a Server with a fresh Provider, a block device
// parameterized by blockSize, an IOV backend whose collection deletes
// release segments through Provider, and a share service that mints its
// chunks on Provider under shareKind, advertised at endpoint. Every
// command group is registered on the returned Dispatcher.
func New(blockSize ids.BlockSize, endpoint core.Endpoint, shareKind core.Kind, tracer provider.Tracer) *Server {
	p := provider.New(tracer)
	blocks := blockdevice.New(blockSize)
	v := iov.New(providerSegmentRemover{p})
	sh := share.New(p, endpoint, shareKind)

	d := rpc.NewDispatcher(command.Default())
	registerBlockDevice(d, blocks)
	registerCoreControl(d, p)
	registerASIO(d, p)
	registerIOV(d, v)
	registerShare(d, sh)

	return &Server{Provider: p, Blocks: blocks, IOV: v, Share: sh, Dispatcher: d}
}

// providerSegmentRemover adapts provider.Provider to iov.SegmentRemover:
// a deleted collection asks every touched storage to release its
// segment.
type providerSegmentRemover struct{ p *provider.Provider }

func (r providerSegmentRemover) RemoveSegment(s core.Storage) error {
	return r.p.RemoveSegment(s.StorageID, s.Segment)
}
