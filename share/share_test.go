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
package share

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/provider"
	"github.com/mcsproject/mcs/storagekind"
)

func newService(t *testing.T) *Service {
	t.Helper()
	p := provider.New(nil)
	return New(p, core.Endpoint{Network: "tcp", Address: "localhost:9000"}, core.KindHeap)
}

func heapParam(t *testing.T) core.Parameter {
	t.Helper()
	b, err := json.Marshal(storagekind.HeapCreateParams{MaxSize: ""})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return core.Parameter(b)
}

func TestCreateReturnsSelfContainedDescriptor(t *testing.T) {
	s := newService(t)
	d, err := s.Create(64, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Size != 64 {
		t.Fatalf("descriptor size = %d, want 64", d.Size)
	}
	if d.Kind != core.KindHeap {
		t.Fatalf("descriptor kind = %v, want Heap", d.Kind)
	}
	if d.Endpoint.Address != "localhost:9000" {
		t.Fatalf("descriptor endpoint = %+v, want localhost:9000", d.Endpoint)
	}
}

func TestAttachConstYieldsPayload(t *testing.T) {
	s := newService(t)
	d, err := s.Create(32, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	chunk, err := s.AttachConst(d)
	if err != nil {
		t.Fatalf("AttachConst: %v", err)
	}
	if chunk.StorageID != d.StorageID || chunk.Segment != d.Segment {
		t.Fatalf("attached chunk identity mismatch: %+v vs descriptor %+v", chunk, d)
	}
	if chunk.Access() != core.AccessConst {
		t.Fatalf("chunk access = %v, want const", chunk.Access())
	}
}

func TestAttachMutableYieldsPayload(t *testing.T) {
	s := newService(t)
	d, err := s.Create(32, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	chunk, err := s.AttachMutable(d)
	if err != nil {
		t.Fatalf("AttachMutable: %v", err)
	}
	if chunk.Access() != core.AccessMutable {
		t.Fatalf("chunk access = %v, want mutable", chunk.Access())
	}
}

// Remove fails StillAttached while refcount > 0, and only succeeds once
// every attach has been dropped.
func TestRemoveFailsStillAttachedWhileRefcountPositive(t *testing.T) {
	s := newService(t)
	d, err := s.Create(16, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.AttachConst(d); err != nil {
		t.Fatalf("AttachConst: %v", err)
	}
	if err := s.Remove(d); !errors.Is(err, errs.ErrStillAttached) {
		t.Fatalf("Remove while attached = %v, want ErrStillAttached", err)
	}
	if err := s.Drop(d); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if err := s.Remove(d); err != nil {
		t.Fatalf("Remove after drop: %v", err)
	}
}

func TestDoubleRemoveFailsSegmentGone(t *testing.T) {
	s := newService(t)
	d, err := s.Create(16, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Remove(d); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := s.Remove(d); !errors.Is(err, errs.ErrSegmentGone) {
		t.Fatalf("second Remove = %v, want ErrSegmentGone", err)
	}
}

func TestAttachAfterRemoveFailsSegmentGone(t *testing.T) {
	s := newService(t)
	d, err := s.Create(16, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Remove(d); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.AttachConst(d); !errors.Is(err, errs.ErrSegmentGone) {
		t.Fatalf("AttachConst after Remove = %v, want ErrSegmentGone", err)
	}
}

func TestMultipleAttachesAllMustDropBeforeRemove(t *testing.T) {
	s := newService(t)
	d, err := s.Create(16, heapParam(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.AttachConst(d); err != nil {
		t.Fatalf("AttachConst 1: %v", err)
	}
	if _, err := s.AttachMutable(d); err != nil {
		t.Fatalf("AttachMutable 2: %v", err)
	}
	if err := s.Drop(d); err != nil {
		t.Fatalf("Drop 1: %v", err)
	}
	if err := s.Remove(d); !errors.Is(err, errs.ErrStillAttached) {
		t.Fatalf("Remove with one outstanding attach = %v, want ErrStillAttached", err)
	}
	if err := s.Drop(d); err != nil {
		t.Fatalf("Drop 2: %v", err)
	}
	if err := s.Remove(d); err != nil {
		t.Fatalf("Remove after both dropped: %v", err)
	}
}
