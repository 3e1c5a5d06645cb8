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
	"errors"
	"io"
	"log"

	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/errs"
)

// Handler decodes a request, runs the command, and encodes a response —
// or returns an error that becomes the wire's Err(string) arm.
type Handler func(payload []byte) ([]byte, error)

// Dispatcher is the server side's table of handlers indexed by
// command-id.
type Dispatcher struct {
	list     *command.List
	handlers map[uint32]Handler
}

// NewDispatcher builds an empty Dispatcher bound to list; list also
// supplies the provider's handshake fingerprint.
func NewDispatcher(list *command.List) *Dispatcher {
	return &Dispatcher{list: list, handlers: make(map[uint32]Handler)}
}

// List returns the bound command list.
func (d *Dispatcher) List() *command.List { return d.list }

// Handle registers a raw Handler at name's wire id.
func (d *Dispatcher) Handle(name string, h Handler) {
	id, ok := d.list.ID(name)
	if !ok {
		panic("rpc: unknown command in list: " + name)
	}
	d.handlers[id] = h
}

// HandleTyped registers a type-safe handler using the Spec's own
// decode/encode codecs, sparing every call site from touching raw bytes.
func HandleTyped[Req, Resp any](d *Dispatcher, name string, fn func(Req) (Resp, error)) {
	spec, ok := func() (command.Spec, bool) {
		id, ok := d.list.ID(name)
		if !ok {
			return command.Spec{}, false
		}
		return d.list.Spec(id)
	}()
	if !ok {
		panic("rpc: unknown command in list: " + name)
	}
	d.Handle(name, func(payload []byte) ([]byte, error) {
		reqAny, err := spec.DecodeReq(archive.NewInput(payload))
		if err != nil {
			return nil, err
		}
		resp, err := fn(reqAny.(Req))
		if err != nil {
			return nil, err
		}
		o := archive.NewOutput(64)
		spec.EncodeResp(resp, o)
		return o.Bytes(), nil
	})
}

// Serve runs the server-side read/dispatch/reply loop on rw until the
// connection closes or a frame names an unregistered command-id
// (errs.ErrUnknownCommand is fatal for the connection).
func (d *Dispatcher) Serve(rw io.ReadWriter) error {
	if err := ServerHandshake(rw, d.list); err != nil {
		return err
	}
	for {
		f, err := ReadFrame(rw)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		h, ok := d.handlers[f.CommandID]
		if !ok {
			return errs.ErrUnknownCommand
		}
		respPayload, handlerErr := h(f.Payload)
		out := Frame{CallID: f.CallID, CommandID: f.CommandID, Payload: EncodeResult(respPayload, handlerErr)}
		if err := WriteFrame(rw, out); err != nil {
			return err
		}
	}
}

// ServeConn is a convenience wrapper logging Serve's terminal error so a
// single doomed connection doesn't bring down the listener.
func ServeConn(d *Dispatcher, rw io.ReadWriter) {
	if err := d.Serve(rw); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("rpc: connection closed: %v", err)
	}
}
