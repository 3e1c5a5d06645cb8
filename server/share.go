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
	"github.com/mcsproject/mcs/rpc"
	"github.com/mcsproject/mcs/share"
)

func registerShare(d *rpc.Dispatcher, sh *share.Service) {
	rpc.HandleTyped(d, "Attach<Const>", func(req command.AttachReq) (command.AttachConstResp, error) {
		c, err := sh.AttachConst(req.Descriptor)
		if err != nil {
			return command.AttachConstResp{}, err
		}
		return command.AttachConstResp{Chunk: c}, nil
	})
	rpc.HandleTyped(d, "Attach<Mutable>", func(req command.AttachReq) (command.AttachMutableResp, error) {
		c, err := sh.AttachMutable(req.Descriptor)
		if err != nil {
			return command.AttachMutableResp{}, err
		}
		return command.AttachMutableResp{Chunk: c}, nil
	})
	rpc.HandleTyped(d, "share.Create", func(req command.ShareCreateReq) (command.ShareCreateResp, error) {
		desc, err := sh.Create(req.Size, req.Parameter)
		if err != nil {
			return command.ShareCreateResp{}, err
		}
		return command.ShareCreateResp{Descriptor: desc}, nil
	})
	rpc.HandleTyped(d, "share.Remove", func(req command.ShareRemoveReq) (command.EmptyResp, error) {
		return command.EmptyResp{}, sh.Remove(req.Descriptor)
	})
}
