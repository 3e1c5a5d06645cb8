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
package command

import (
	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/ids"
)

// Block-device meta-data command group: BlockSize,
// NumberOfBlocks, Blocks, Add, Remove, Location.

type BlockSizeReq struct{}

func (BlockSizeReq) Save(*archive.Output) {}
func LoadBlockSizeReq(*archive.Input) (BlockSizeReq, error) { return BlockSizeReq{}, nil }

type BlockSizeResp struct{ Value ids.BlockSize }

func (r BlockSizeResp) Save(o *archive.Output) { r.Value.Save(o) }
func LoadBlockSizeResp(in *archive.Input) (BlockSizeResp, error) {
	v, err := ids.LoadBlockSize(in)
	return BlockSizeResp{v}, err
}

type NumberOfBlocksReq struct{}

func (NumberOfBlocksReq) Save(*archive.Output) {}
func LoadNumberOfBlocksReq(*archive.Input) (NumberOfBlocksReq, error) {
	return NumberOfBlocksReq{}, nil
}

type NumberOfBlocksResp struct{ Value ids.BlockCount }

func (r NumberOfBlocksResp) Save(o *archive.Output) { r.Value.Save(o) }
func LoadNumberOfBlocksResp(in *archive.Input) (NumberOfBlocksResp, error) {
	v, err := ids.LoadBlockCount(in)
	return NumberOfBlocksResp{v}, err
}

type BlocksReq struct{}

func (BlocksReq) Save(*archive.Output) {}
func LoadBlocksReq(*archive.Input) (BlocksReq, error) { return BlocksReq{}, nil }

type BlocksResp struct{ Ranges []ids.BlockRange }

func (r BlocksResp) Save(o *archive.Output) {
	archive.WriteVector(o, len(r.Ranges), func(i int) { r.Ranges[i].Save(o) })
}
func LoadBlocksResp(in *archive.Input) (BlocksResp, error) {
	var r BlocksResp
	n, err := archive.ReadVector(in, func(i int) error {
		br, err := ids.LoadBlockRange(in)
		if err != nil {
			return err
		}
		r.Ranges = append(r.Ranges, br)
		return nil
	})
	_ = n
	return r, err
}

type AddReq struct{ Storage core.Storage }

func (r AddReq) Save(o *archive.Output) { r.Storage.Save(o) }
func LoadAddReq(in *archive.Input) (AddReq, error) {
	s, err := core.LoadStorage(in)
	return AddReq{s}, err
}

type AddResp struct{ Range ids.BlockRange }

func (r AddResp) Save(o *archive.Output) { r.Range.Save(o) }
func LoadAddResp(in *archive.Input) (AddResp, error) {
	br, err := ids.LoadBlockRange(in)
	return AddResp{br}, err
}

type RemoveReq struct{ Range ids.BlockRange }

func (r RemoveReq) Save(o *archive.Output) { r.Range.Save(o) }
func LoadRemoveReq(in *archive.Input) (RemoveReq, error) {
	br, err := ids.LoadBlockRange(in)
	return RemoveReq{br}, err
}

type RemoveResp struct{ Storage core.Storage }

func (r RemoveResp) Save(o *archive.Output) { r.Storage.Save(o) }
func LoadRemoveResp(in *archive.Input) (RemoveResp, error) {
	s, err := core.LoadStorage(in)
	return RemoveResp{s}, err
}

type LocationReq struct{ Block ids.BlockID }

func (r LocationReq) Save(o *archive.Output) { r.Block.Save(o) }
func LoadLocationReq(in *archive.Input) (LocationReq, error) {
	b, err := ids.LoadBlockID(in)
	return LocationReq{b}, err
}

type LocationResp struct {
	Storage core.Storage
	Offset  ids.Offset
}

func (r LocationResp) Save(o *archive.Output) {
	r.Storage.Save(o)
	r.Offset.Save(o)
}
func LoadLocationResp(in *archive.Input) (LocationResp, error) {
	var r LocationResp
	var err error
	if r.Storage, err = core.LoadStorage(in); err != nil {
		return LocationResp{}, err
	}
	if r.Offset, err = ids.LoadOffset(in); err != nil {
		return LocationResp{}, err
	}
	return r, nil
}
