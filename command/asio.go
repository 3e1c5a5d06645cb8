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

// ASIO bulk transport command group: Get, Put.
// Addressed by (StorageID, StorageParameter, SegmentID, Offset). Get's
// frame carries only the address and size, with the bytes travelling the
// bulk channel (bulk package); Put's frame may also carry the bytes
// inline (PutReq.Inline).

type bulkAddress struct {
	Storage   ids.StorageID
	Parameter core.Parameter
	Segment   ids.SegmentID
	Offset    ids.Offset
}

func (a bulkAddress) save(o *archive.Output) {
	a.Storage.Save(o)
	a.Parameter.Save(o)
	a.Segment.Save(o)
	a.Offset.Save(o)
}
func loadBulkAddress(in *archive.Input) (bulkAddress, error) {
	var a bulkAddress
	var err error
	if a.Storage, err = ids.LoadStorageID(in); err != nil {
		return bulkAddress{}, err
	}
	if a.Parameter, err = core.LoadParameter(in); err != nil {
		return bulkAddress{}, err
	}
	if a.Segment, err = ids.LoadSegmentID(in); err != nil {
		return bulkAddress{}, err
	}
	if a.Offset, err = ids.LoadOffset(in); err != nil {
		return bulkAddress{}, err
	}
	return a, nil
}

type GetReq struct {
	bulkAddress
	Size ids.Size
}

func (r GetReq) Save(o *archive.Output) {
	r.save(o)
	r.Size.Save(o)
}
func LoadGetReq(in *archive.Input) (GetReq, error) {
	addr, err := loadBulkAddress(in)
	if err != nil {
		return GetReq{}, err
	}
	size, err := ids.LoadSize(in)
	if err != nil {
		return GetReq{}, err
	}
	return GetReq{addr, size}, nil
}

type GetResp struct{ Size ids.Size }

func (r GetResp) Save(o *archive.Output) { r.Size.Save(o) }
func LoadGetResp(in *archive.Input) (GetResp, error) {
	v, err := ids.LoadSize(in)
	return GetResp{v}, err
}

// PutReq reserves Size bytes; Inline carries the bytes when small enough
// to ride the command frame instead of a follow-up bulk channel write.
type PutReq struct {
	bulkAddress
	Size   ids.Size
	Inline []byte
}

func (r PutReq) Save(o *archive.Output) {
	r.save(o)
	r.Size.Save(o)
	o.WriteOptionalHeader(r.Inline != nil)
	if r.Inline != nil {
		o.WriteU32(uint32(len(r.Inline)))
		o.WriteBytes(r.Inline)
	}
}
func LoadPutReq(in *archive.Input) (PutReq, error) {
	addr, err := loadBulkAddress(in)
	if err != nil {
		return PutReq{}, err
	}
	size, err := ids.LoadSize(in)
	if err != nil {
		return PutReq{}, err
	}
	present, err := in.ReadOptionalHeader()
	if err != nil {
		return PutReq{}, err
	}
	var inline []byte
	if present {
		n, err := in.ReadU32()
		if err != nil {
			return PutReq{}, err
		}
		b, err := in.ReadBytes(int(n))
		if err != nil {
			return PutReq{}, err
		}
		inline = append([]byte(nil), b...)
	}
	return PutReq{addr, size, inline}, nil
}

type PutResp struct{ Size ids.Size }

func (r PutResp) Save(o *archive.Output) { r.Size.Save(o) }
func LoadPutResp(in *archive.Input) (PutResp, error) {
	v, err := ids.LoadSize(in)
	return PutResp{v}, err
}
