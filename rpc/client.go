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
	"fmt"
	"io"

	"github.com/mcsproject/mcs/accesspolicy"
	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/command"
)

// Client drives one connection's request/response cycle atop an
// accesspolicy.Policy that tracks outstanding calls. Client owns the
// read loop that demultiplexes replies back to their Completions by
// CallID.
type Client struct {
	rw     io.ReadWriter
	list   *command.List
	policy accesspolicy.Policy
}

// NewClient performs the client-side handshake and starts the
// background read loop. list is this client's command list — the
// Default() registry, or a smaller role-specific subset.
func NewClient(rw io.ReadWriter, list *command.List, policy accesspolicy.Policy) (*Client, error) {
	if err := ClientHandshake(rw, list); err != nil {
		return nil, err
	}
	c := &Client{rw: rw, list: list, policy: policy}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	for {
		f, err := ReadFrame(c.rw)
		if err != nil {
			c.policy.Error(err)
			return
		}
		completion, err := c.policy.Completion(accesspolicy.CallID(f.CallID))
		if err != nil {
			// Reply for an id we no longer track (e.g. racing Error()
			// teardown): drop it.
			continue
		}
		payload, resultErr := DecodeResult(f.Payload)
		completion <- accesspolicy.Result{Payload: payload, Err: resultErr}
	}
}

// Call issues a typed command and blocks for its reply. name must be a
// command registered in both parties' lists.
func Call[Req, Resp any](c *Client, name string, req Req) (Resp, error) {
	var zero Resp
	id, ok := c.list.ID(name)
	if !ok {
		return zero, fmt.Errorf("rpc: unknown command %q", name)
	}
	spec, _ := c.list.Spec(id)

	completion := make(accesspolicy.Completion, 1)
	callID, err := c.policy.StartCall(completion)
	if err != nil {
		return zero, err
	}

	o := archive.NewOutput(64)
	spec.EncodeReq(req, o)
	if err := WriteFrame(c.rw, Frame{CallID: uint64(callID), CommandID: id, Payload: o.Bytes()}); err != nil {
		return zero, err
	}

	result := <-completion
	if result.Err != nil {
		return zero, result.Err
	}
	respAny, err := spec.DecodeResp(archive.NewInput(result.Payload))
	if err != nil {
		return zero, err
	}
	return respAny.(Resp), nil
}
