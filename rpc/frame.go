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

// Package rpc implements the wire framing, handshake and dispatcher
// shared by two transport bindings (tcp, ws) atop one framing contract.
package rpc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/errs"
)

// Frame is one on-wire message: [u32 length][u64 call-id][u32 command-id]
// [payload of length bytes], little-endian.
type Frame struct {
	CallID    uint64
	CommandID uint32
	Payload   []byte
}

const frameHeaderSize = 4 + 8 + 4

// WriteFrame serializes f onto w in the exact wire order, as a single
// Write call so a message-oriented transport (ws) carries the whole
// frame as one message instead of fragmenting it.
func WriteFrame(w io.Writer, f Frame) error {
	buf := make([]byte, frameHeaderSize+len(f.Payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(f.Payload)))
	binary.LittleEndian.PutUint64(buf[4:12], f.CallID)
	binary.LittleEndian.PutUint32(buf[12:16], f.CommandID)
	copy(buf[frameHeaderSize:], f.Payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one frame from r, blocking until the full header and
// payload arrive.
func ReadFrame(r io.Reader) (Frame, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Frame{}, err
	}
	length := binary.LittleEndian.Uint32(header[0:4])
	f := Frame{
		CallID:    binary.LittleEndian.Uint64(header[4:12]),
		CommandID: binary.LittleEndian.Uint32(header[12:16]),
	}
	if length > 0 {
		f.Payload = make([]byte, length)
		if _, err := io.ReadFull(r, f.Payload); err != nil {
			return Frame{}, err
		}
	}
	return f, nil
}

// resultOk / resultErr tag the Ok(bytes) | Err(string) response sum.
const (
	resultOk uint32 = iota
	resultErr
)

// EncodeResult wraps a handler's outcome into the tagged response
// payload carried by a Frame.
func EncodeResult(payload []byte, handlerErr error) []byte {
	o := archive.NewOutput(len(payload) + 8)
	if handlerErr == nil {
		o.WriteVariantTag(resultOk)
		o.WriteU32(uint32(len(payload)))
		o.WriteBytes(payload)
		return o.Bytes()
	}
	o.WriteVariantTag(resultErr)
	o.WriteTaggedString(handlerErr.Error())
	return o.Bytes()
}

// DecodeResult is EncodeResult's inverse: a non-nil error is always
// *errs.HandlerError — the original error type is lost by design,
// since only its message crosses the wire.
func DecodeResult(data []byte) ([]byte, error) {
	in := archive.NewInput(data)
	tag, err := in.ReadVariantTag()
	if err != nil {
		return nil, err
	}
	switch tag {
	case resultOk:
		n, err := in.ReadU32()
		if err != nil {
			return nil, err
		}
		b, err := in.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	case resultErr:
		msg, err := in.ReadTaggedString()
		if err != nil {
			return nil, err
		}
		return nil, &errs.HandlerError{Message: msg}
	default:
		return nil, fmt.Errorf("rpc: unknown result tag %d", tag)
	}
}
