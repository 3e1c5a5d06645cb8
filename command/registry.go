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

// Package command is the typed command registry. A command
// list is an ordered sequence of Specs; a command's position in the list
// is its wire dispatch tag (id(C)), and the list's Names in order form
// the handshake(list) fingerprint.
package command

import "github.com/mcsproject/mcs/archive"

// Spec is one command type's codec glue, type-erased to `any` so
// heterogeneous commands share one List. Build one with NewSpec, which
// closes over the concrete request/response types so call sites stay
// statically typed.
type Spec struct {
	Name       string
	DecodeReq  func(*archive.Input) (any, error)
	EncodeReq  func(any, *archive.Output)
	DecodeResp func(*archive.Input) (any, error)
	EncodeResp func(any, *archive.Output)
}

// NewSpec builds a Spec from concrete request/response codecs, so each
// command type's Request/Response pair stays statically typed at its
// own call sites without requiring runtime type assertions there.
// encodeReq/encodeResp take the (receiver, *archive.Output) order so a
// command type's own Save method expression (T.Save) can be passed
// directly.
func NewSpec[Req, Resp any](
	name string,
	decodeReq func(*archive.Input) (Req, error),
	encodeReq func(Req, *archive.Output),
	decodeResp func(*archive.Input) (Resp, error),
	encodeResp func(Resp, *archive.Output),
) Spec {
	return Spec{
		Name: name,
		DecodeReq: func(in *archive.Input) (any, error) {
			return decodeReq(in)
		},
		EncodeReq: func(v any, o *archive.Output) {
			encodeReq(v.(Req), o)
		},
		DecodeResp: func(in *archive.Input) (any, error) {
			return decodeResp(in)
		},
		EncodeResp: func(v any, o *archive.Output) {
			encodeResp(v.(Resp), o)
		},
	}
}

// List is a compile-time-ordered sequence of command Specs for one
// protocol role, declaring which commands are supported and in what
// order.
type List struct {
	specs []Spec
	index map[string]uint32
}

// NewList builds a List, assigning each Spec its position as id(C).
func NewList(specs ...Spec) *List {
	l := &List{specs: specs, index: make(map[string]uint32, len(specs))}
	for i, s := range specs {
		l.index[s.Name] = uint32(i)
	}
	return l
}

// ID returns C's position in the list (the wire dispatch tag), per
// id(C).
func (l *List) ID(name string) (uint32, bool) {
	id, ok := l.index[name]
	return id, ok
}

// Spec returns the Spec registered at wire id.
func (l *List) Spec(id uint32) (Spec, bool) {
	if int(id) >= len(l.specs) {
		return Spec{}, false
	}
	return l.specs[id], true
}

// Len reports the number of commands in the list.
func (l *List) Len() int { return len(l.specs) }

// Handshake returns the canonical string-sequence fingerprint: the
// command type names, in order.
func (l *List) Handshake() []string {
	names := make([]string, len(l.specs))
	for i, s := range l.specs {
		names[i] = s.Name
	}
	return names
}

// HandshakeMatches reports whether serverFingerprint begins with
// clientFingerprint (a prefix match) — this permits a provider to expose
// a superset of commands but forbids reordering the shared prefix.
func HandshakeMatches(serverFingerprint, clientFingerprint []string) bool {
	if len(clientFingerprint) > len(serverFingerprint) {
		return false
	}
	for i, name := range clientFingerprint {
		if serverFingerprint[i] != name {
			return false
		}
	}
	return true
}
