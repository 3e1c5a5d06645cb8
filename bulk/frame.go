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
package bulk

import (
	"fmt"

	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

// Request/response opcodes for the bulk channel's own tiny framing,
// independent of command/rpc's call-id multiplexing: a bulk operation
// is one request, one reply, no interleaving on a given connection.
const (
	opGet uint8 = iota
	opPut
)

const (
	statusOk uint8 = iota
	statusErr
)

func (a Address) save(o *archive.Output) {
	a.Storage.Save(o)
	a.Parameter.Save(o)
	a.Segment.Save(o)
	a.Offset.Save(o)
}

func loadAddress(in *archive.Input) (Address, error) {
	var a Address
	var err error
	if a.Storage, err = ids.LoadStorageID(in); err != nil {
		return Address{}, err
	}
	if a.Parameter, err = core.LoadParameter(in); err != nil {
		return Address{}, err
	}
	if a.Segment, err = ids.LoadSegmentID(in); err != nil {
		return Address{}, err
	}
	if a.Offset, err = ids.LoadOffset(in); err != nil {
		return Address{}, err
	}
	return a, nil
}

// encodeGetReq: op(1) address size(8).
func encodeGetReq(addr Address, size ids.Size) []byte {
	o := archive.NewOutput(32)
	o.WriteU8(opGet)
	addr.save(o)
	size.Save(o)
	return o.Bytes()
}

// encodePutReq: op(1) address size(8) data(size).
func encodePutReq(addr Address, data []byte) []byte {
	o := archive.NewOutput(32 + len(data))
	o.WriteU8(opPut)
	addr.save(o)
	ids.Size(len(data)).Save(o)
	o.WriteBytes(data)
	return o.Bytes()
}

type request struct {
	op   uint8
	addr Address
	size ids.Size
	data []byte
}

func decodeRequest(payload []byte) (request, error) {
	in := archive.NewInput(payload)
	op, err := in.ReadU8()
	if err != nil {
		return request{}, err
	}
	addr, err := loadAddress(in)
	if err != nil {
		return request{}, err
	}
	size, err := ids.LoadSize(in)
	if err != nil {
		return request{}, err
	}
	r := request{op: op, addr: addr, size: size}
	if op == opPut {
		data, err := in.ReadBytes(int(size))
		if err != nil {
			return request{}, err
		}
		r.data = append([]byte(nil), data...)
	}
	return r, nil
}

// encodeResult: status(1) [ok: size(8) data(size) | err: tagged string].
func encodeResult(size ids.Size, data []byte, err error) []byte {
	o := archive.NewOutput(16 + len(data))
	if err != nil {
		o.WriteU8(statusErr)
		o.WriteTaggedString(err.Error())
		return o.Bytes()
	}
	o.WriteU8(statusOk)
	size.Save(o)
	o.WriteBytes(data)
	return o.Bytes()
}

func decodeResult(payload []byte, wantData bool) (ids.Size, []byte, error) {
	in := archive.NewInput(payload)
	status, err := in.ReadU8()
	if err != nil {
		return 0, nil, err
	}
	if status == statusErr {
		msg, err := in.ReadTaggedString()
		if err != nil {
			return 0, nil, err
		}
		return 0, nil, &errs.HandlerError{Message: msg}
	}
	size, err := ids.LoadSize(in)
	if err != nil {
		return 0, nil, err
	}
	if !wantData {
		return size, nil, nil
	}
	data, err := in.ReadBytes(in.Remaining())
	if err != nil {
		return 0, nil, err
	}
	return size, append([]byte(nil), data...), nil
}

func unknownOpcode(op uint8) error {
	return fmt.Errorf("bulk: unknown opcode %d", op)
}
