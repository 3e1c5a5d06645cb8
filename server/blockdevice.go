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
	"github.com/mcsproject/mcs/blockdevice"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/rpc"
)

func registerBlockDevice(d *rpc.Dispatcher, b *blockdevice.Blocks) {
	rpc.HandleTyped(d, "BlockSize", func(command.BlockSizeReq) (command.BlockSizeResp, error) {
		return command.BlockSizeResp{Value: b.BlockSize()}, nil
	})
	rpc.HandleTyped(d, "NumberOfBlocks", func(command.NumberOfBlocksReq) (command.NumberOfBlocksResp, error) {
		return command.NumberOfBlocksResp{Value: b.NumberOfBlocks()}, nil
	})
	rpc.HandleTyped(d, "Blocks", func(command.BlocksReq) (command.BlocksResp, error) {
		return command.BlocksResp{Ranges: b.BlockRanges()}, nil
	})
	rpc.HandleTyped(d, "blockdevice.Add", func(req command.AddReq) (command.AddResp, error) {
		res, err := b.Add(req.Storage)
		if err != nil {
			return command.AddResp{}, err
		}
		return command.AddResp{Range: res.Range}, nil
	})
	rpc.HandleTyped(d, "blockdevice.Remove", func(req command.RemoveReq) (command.RemoveResp, error) {
		res, err := b.Remove(req.Range)
		if err != nil {
			return command.RemoveResp{}, err
		}
		return command.RemoveResp{Storage: res.Storage}, nil
	})
	rpc.HandleTyped(d, "Location", func(req command.LocationReq) (command.LocationResp, error) {
		loc, err := b.Locate(req.Block)
		if err != nil {
			return command.LocationResp{}, err
		}
		return command.LocationResp{Storage: loc.Storage, Offset: loc.Offset}, nil
	})
}
