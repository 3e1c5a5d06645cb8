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
package rpc

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"github.com/mcsproject/mcs/accesspolicy"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/errs"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := Frame{CallID: 42, CommandID: 7, Payload: []byte("hello")}
	if err := WriteFrame(&buf, want); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.CallID != want.CallID || got.CommandID != want.CommandID || !bytes.Equal(got.Payload, want.Payload) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestResultRoundTripOk(t *testing.T) {
	data := EncodeResult([]byte("payload"), nil)
	payload, err := DecodeResult(data)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if string(payload) != "payload" {
		t.Fatalf("payload = %q", payload)
	}
}

func TestResultRoundTripErr(t *testing.T) {
	data := EncodeResult(nil, errors.New("boom"))
	_, err := DecodeResult(data)
	var he *errs.HandlerError
	if !errors.As(err, &he) {
		t.Fatalf("expected *errs.HandlerError, got %v", err)
	}
	if he.Message != "boom" {
		t.Fatalf("message = %q", he.Message)
	}
}

func TestHandshakeAcceptsSupersetPrefix(t *testing.T) {
	client := []string{"A", "B"}
	server := []string{"A", "B", "C"}
	if !command.HandshakeMatches(server, client) {
		t.Fatal("expected superset handshake to match")
	}
}

func TestHandshakeRejectsReorder(t *testing.T) {
	client := []string{"A", "B"}
	server := []string{"B", "A", "C"}
	if command.HandshakeMatches(server, client) {
		t.Fatal("expected reordered handshake to fail")
	}
}

func TestClientServerRoundTrip(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	list := command.Default()
	d := NewDispatcher(list)
	HandleTyped(d, "BlockSize", func(req command.BlockSizeReq) (command.BlockSizeResp, error) {
		return command.BlockSizeResp{Value: 4096}, nil
	})
	go ServeConn(d, serverConn)

	policy := accesspolicy.NewConcurrent()
	client, err := NewClient(clientConn, list, policy)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := Call[command.BlockSizeReq, command.BlockSizeResp](client, "BlockSize", command.BlockSizeReq{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.Value != 4096 {
		t.Fatalf("resp.Value = %d, want 4096", resp.Value)
	}
}

func TestClientServerHandlerError(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	list := command.Default()
	d := NewDispatcher(list)
	HandleTyped(d, "BlockSize", func(req command.BlockSizeReq) (command.BlockSizeResp, error) {
		return command.BlockSizeResp{}, errors.New("no block device configured")
	})
	go ServeConn(d, serverConn)

	policy := accesspolicy.NewConcurrent()
	client, err := NewClient(clientConn, list, policy)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = Call[command.BlockSizeReq, command.BlockSizeResp](client, "BlockSize", command.BlockSizeReq{})
	var he *errs.HandlerError
	if !errors.As(err, &he) {
		t.Fatalf("expected *errs.HandlerError, got %v", err)
	}
}
