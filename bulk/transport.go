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
	"encoding/binary"
	"errors"
	"io"
	"log"

	"github.com/mcsproject/mcs/ids"
)

// writeMessage prefixes payload with its u32 length and writes both in a
// single Write call, the same single-write discipline rpc.WriteFrame
// uses so a message-oriented transport never fragments one logical
// message.
func writeMessage(w io.Writer, payload []byte) error {
	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(payload)))
	copy(buf[4:], payload)
	_, err := w.Write(buf)
	return err
}

func readMessage(r io.Reader) ([]byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(header)
	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// Server answers bulk requests against one Store. Unlike rpc.Dispatcher,
// one connection carries exactly one request/reply at a time — the
// bulk channel needs no call-id multiplexing, since ordering across
// operations is explicitly the caller's problem.
type Server struct {
	Store Store
}

// Serve runs the request/reply loop on conn until it closes.
func (s *Server) Serve(conn io.ReadWriter) error {
	for {
		payload, err := readMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		req, err := decodeRequest(payload)
		if err != nil {
			return err
		}
		var resp []byte
		switch req.op {
		case opGet:
			data, err := s.Store.Get(req.addr, req.size)
			resp = encodeResult(ids.Size(len(data)), data, err)
		case opPut:
			n, err := s.Store.Put(req.addr, req.data)
			resp = encodeResult(n, nil, err)
		default:
			return unknownOpcode(req.op)
		}
		if err := writeMessage(conn, resp); err != nil {
			return err
		}
	}
}

// ServeConn logs Serve's terminal error instead of propagating it, the
// idiom used for one doomed connection under a long-lived listener.
func ServeConn(s *Server, conn io.ReadWriter) {
	if err := s.Serve(conn); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("bulk: connection closed: %v", err)
	}
}

// Get issues a Get over conn and blocks for the reply.
func Get(conn io.ReadWriter, addr Address, size ids.Size) ([]byte, error) {
	if err := writeMessage(conn, encodeGetReq(addr, size)); err != nil {
		return nil, err
	}
	payload, err := readMessage(conn)
	if err != nil {
		return nil, err
	}
	_, data, err := decodeResult(payload, true)
	return data, err
}

// Put issues a Put over conn and blocks for the accepted size.
func Put(conn io.ReadWriter, addr Address, data []byte) (ids.Size, error) {
	if err := writeMessage(conn, encodePutReq(addr, data)); err != nil {
		return 0, err
	}
	payload, err := readMessage(conn)
	if err != nil {
		return 0, err
	}
	size, _, err := decodeResult(payload, false)
	return size, err
}
