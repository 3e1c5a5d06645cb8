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

func registerCoreControl(d *rpc.Dispatcher, p *provider.Provider) {
	rpc.HandleTyped(d, "chunk.Description", func(req command.ChunkDescriptionReq) (command.ChunkDescriptionResp, error) {
		payload, err := p.ChunkDescription(req.Storage, req.Segment, req.Access, req.Range)
		if err != nil {
			return command.ChunkDescriptionResp{}, err
		}
		return command.ChunkDescriptionResp{Payload: payload}, nil
	})
	rpc.HandleTyped(d, "file.Read", func(req command.FileReadReq) (command.FileTransferResp, error) {
		n, err := p.FileRead(req.Storage, req.Segment, req.Offset, req.Path, req.Range)
		if err != nil {
			return command.FileTransferResp{}, err
		}
		return command.FileTransferResp{Bytes: n}, nil
	})
	rpc.HandleTyped(d, "file.Write", func(req command.FileWriteReq) (command.FileTransferResp, error) {
		n, err := p.FileWrite(req.Storage, req.Segment, req.Offset, req.Path, req.Range)
		if err != nil {
			return command.FileTransferResp{}, err
		}
		return command.FileTransferResp{Bytes: n}, nil
	})
	rpc.HandleTyped(d, "segment.Create", func(req command.SegmentCreateReq) (command.SegmentCreateResp, error) {
		seg, err := p.CreateSegment(req.Storage, req.Size, req.OnRemove)
		if err != nil {
			return command.SegmentCreateResp{}, err
		}
		return command.SegmentCreateResp{Segment: seg}, nil
	})
	rpc.HandleTyped(d, "segment.Remove", func(req command.SegmentRemoveReq) (command.EmptyResp, error) {
		return command.EmptyResp{}, p.RemoveSegment(req.Storage, req.Segment)
	})
	rpc.HandleTyped(d, "storage.Create", func(req command.StorageCreateReq) (command.StorageCreateResp, error) {
		id, err := p.Create(req.Kind, req.Parameter)
		if err != nil {
			return command.StorageCreateResp{}, err
		}
		return command.StorageCreateResp{Storage: id}, nil
	})
	rpc.HandleTyped(d, "storage.Remove", func(req command.StorageIDReq) (command.EmptyResp, error) {
		return command.EmptyResp{}, p.Destruct(req.Storage)
	})
	rpc.HandleTyped(d, "storage.Size", func(req command.StorageIDReq) (command.StorageSizeResp, error) {
		max, err := p.SizeMax(req.Storage)
		if err != nil {
			return command.StorageSizeResp{}, err
		}
		used, err := p.SizeUsed(req.Storage)
		if err != nil {
			return command.StorageSizeResp{}, err
		}
		return command.StorageSizeResp{Max: max, Used: used}, nil
	})
	rpc.HandleTyped(d, "storage.size.Max", func(req command.StorageIDReq) (command.StorageSizeMaxResp, error) {
		max, err := p.SizeMax(req.Storage)
		if err != nil {
			return command.StorageSizeMaxResp{}, err
		}
		return command.StorageSizeMaxResp{Max: max}, nil
	})
	rpc.HandleTyped(d, "storage.size.Used", func(req command.StorageIDReq) (command.StorageSizeUsedResp, error) {
		used, err := p.SizeUsed(req.Storage)
		if err != nil {
			return command.StorageSizeUsedResp{}, err
		}
		return command.StorageSizeUsedResp{Used: used}, nil
	})
}
