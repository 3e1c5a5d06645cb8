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
package server

import (
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/provider"
	"github.com/mcsproject/mcs/rpc"
)

// registerASIO wires the control-plane half of the bulk transport (spec
// §4.E): Get/Put only announce an address and size here, the actual
// payload travels the separate bulk channel keyed by the same
// (StorageID, Segment, Offset) tuple. Put carries the payload inline
// only when the caller chose to fold a small write into the command
// frame instead of opening a bulk transfer.
func registerASIO(d *rpc.Dispatcher, p *provider.Provider) {
	rpc.HandleTyped(d, "Get", func(req command.GetReq) (command.GetResp, error) {
		if _, err := p.SizeMax(req.Storage); err != nil {
			return command.GetResp{}, err
		}
		return command.GetResp{Size: req.Size}, nil
	})
	rpc.HandleTyped(d, "Put", func(req command.PutReq) (command.PutResp, error) {
		if req.Inline != nil {
			n, err := p.BulkPut(req.Storage, req.Segment, req.Offset, req.Inline)
			if err != nil {
				return command.PutResp{}, err
			}
			return command.PutResp{Size: n}, nil
		}
		if _, err := p.SizeMax(req.Storage); err != nil {
			return command.PutResp{}, err
		}
		return command.PutResp{Size: req.Size}, nil
	})
}
