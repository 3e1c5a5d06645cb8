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

// Package accesspolicy mediates how a client handle tracks its own
// outstanding RPC calls: Exclusive, Sequential, Concurrent, MultiClient.
// Every policy exposes start_call/completion/error.
package accesspolicy

import (
	"fmt"
	"sync"

	"github.com/mcsproject/mcs/errs"
)

// CallID is the monotonically increasing identifier the wire frame
// carries as call-id.
type CallID uint64

// Completion is the channel a call's caller blocks on; it receives
// exactly one result.
type Completion chan Result

// Result is what a Completion receives: the raw response payload, or an
// error (HandlerError, CompletionFailure, ...).
type Result struct {
	Payload []byte
	Err     error
}

// Policy is the contract every access discipline implements.
type Policy interface {
	// StartCall allocates a CallID for a fresh outstanding call and
	// registers completion to receive its result.
	StartCall(completion Completion) (CallID, error)

	// Completion looks up and removes the pending completion for id,
	// for the dispatch loop to deliver a result into.
	Completion(id CallID) (Completion, error)

	// Error fails every pending completion with a CompletionFailure,
	// e.g. after the underlying connection is lost.
	Error(reason error)
}

// Exclusive permits at most one outstanding call per handle. A second
// StartCall before the first's Completion is a caller logic error —
// panics, rather than returning a recoverable error.
type Exclusive struct {
	mu      sync.Mutex
	nextID  CallID
	pending Completion
	id      CallID
	active  bool
}

func NewExclusive() *Exclusive { return &Exclusive{} }

func (e *Exclusive) StartCall(c Completion) (CallID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active {
		panic("accesspolicy: Exclusive.StartCall called with a call already outstanding")
	}
	e.nextID++
	e.id = e.nextID
	e.pending = c
	e.active = true
	return e.id, nil
}

func (e *Exclusive) Completion(id CallID) (Completion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || id != e.id {
		return nil, fmt.Errorf("accesspolicy: no outstanding call %d", id)
	}
	c := e.pending
	e.pending = nil
	e.active = false
	return c, nil
}

func (e *Exclusive) Error(reason error) {
	e.mu.Lock()
	c := e.pending
	e.pending = nil
	e.active = false
	e.mu.Unlock()
	if c != nil {
		c <- Result{Err: &errs.CompletionFailure{Reason: reason}}
	}
}

// Sequential behaves like Exclusive but additionally serializes sends:
// the caller acquires Lock on StartCall and must Unlock after the send
// completes (before waiting on the Completion channel), so multiple
// threads issuing calls on one handle never interleave their frame
// writes, while reply concurrency itself stays unbounded.
type Sequential struct {
	Exclusive
	sendMu sync.Mutex
}

func NewSequential() *Sequential { return &Sequential{} }

// Lock acquires the send-side mutex; call before writing the request
// frame.
func (s *Sequential) Lock() { s.sendMu.Lock() }

// Unlock releases the send-side mutex; call once the frame is fully
// written, before awaiting the reply.
func (s *Sequential) Unlock() { s.sendMu.Unlock() }

// Concurrent tracks an unbounded map CallID -> Completion. Callers
// reading from the shared socket must hold ReadLock for the duration of
// one frame read so reads from different goroutines never interleave.
type Concurrent struct {
	mu      sync.Mutex
	readMu  sync.Mutex
	nextID  CallID
	pending map[CallID]Completion
}

func NewConcurrent() *Concurrent {
	return &Concurrent{pending: make(map[CallID]Completion)}
}

func (c *Concurrent) StartCall(completion Completion) (CallID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.pending[id] = completion
	return id, nil
}

func (c *Concurrent) Completion(id CallID) (Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	completion, ok := c.pending[id]
	if !ok {
		return nil, fmt.Errorf("accesspolicy: no outstanding call %d", id)
	}
	delete(c.pending, id)
	return completion, nil
}

func (c *Concurrent) Error(reason error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[CallID]Completion)
	c.mu.Unlock()
	for _, completion := range pending {
		completion <- Result{Err: &errs.CompletionFailure{Reason: reason}}
	}
}

// ReadLock/ReadUnlock bracket one socket read, the dedicated read lock
// held for the duration of each frame read.
func (c *Concurrent) ReadLock()   { c.readMu.Lock() }
func (c *Concurrent) ReadUnlock() { c.readMu.Unlock() }
