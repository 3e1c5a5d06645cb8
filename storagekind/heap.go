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
package storagekind

import (
	"encoding/json"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

// HeapCreateParams is the Heap kind's Parameter.Create bundle.
type HeapCreateParams struct {
	MaxSize string `json:"max_size"`
}

type heapSegment struct {
	mem      []byte
	mlocked  bool
	refCount int
}

// HeapInstance is in-process anonymous memory, optionally mlock'd per
// segment.
type HeapInstance struct {
	maxSize ids.MaxSize

	mu       sync.Mutex
	nextSeg  ids.SegmentID
	segments map[ids.SegmentID]*heapSegment
	used     ids.Size
}

type HeapFactory struct{}

func (HeapFactory) Kind() core.Kind { return core.KindHeap }

func (HeapFactory) Create(p core.Parameter) (Instance, error) {
	var params HeapCreateParams
	if len(p) > 0 {
		if err := json.Unmarshal(p, &params); err != nil {
			return nil, &errs.LoadFailed{Cause: err}
		}
	}
	maxSize, err := parseMaxSize(params.MaxSize)
	if err != nil {
		return nil, err
	}
	return &HeapInstance{maxSize: maxSize, segments: make(map[ids.SegmentID]*heapSegment)}, nil
}

func (h *HeapInstance) Kind() core.Kind      { return core.KindHeap }
func (h *HeapInstance) SizeMax() ids.MaxSize { return h.maxSize }

func (h *HeapInstance) SizeUsed() ids.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

// CreateSegment allocates anonymous mmap'd memory so it can optionally be
// mlock'd; onRemove has no effect for Heap (memory is always released on
// Remove or storage destruct).
func (h *HeapInstance) CreateSegment(size ids.Size, onRemove OnRemove) (ids.SegmentID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.maxSize.Allows(h.used, size) {
		return 0, errs.ErrOutOfQuota
	}
	n := int(size)
	if n == 0 {
		n = 1
	}
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, err
	}
	h.nextSeg++
	seg := h.nextSeg
	h.segments[seg] = &heapSegment{mem: mem}
	h.used += size
	return seg, nil
}

// Mlock pins a segment's pages in RAM.
func (h *HeapInstance) Mlock(seg ids.SegmentID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.segments[seg]
	if !ok {
		return errs.ErrSegmentGone
	}
	if s.mlocked {
		return nil
	}
	if err := unix.Mlock(s.mem); err != nil {
		return err
	}
	s.mlocked = true
	return nil
}

func (h *HeapInstance) RemoveSegment(seg ids.SegmentID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.segments[seg]
	if !ok {
		return errs.ErrSegmentGone
	}
	if s.refCount > 0 {
		return errs.ErrSegmentBusy
	}
	h.destroySegmentLocked(seg, s)
	return nil
}

func (h *HeapInstance) destroySegmentLocked(seg ids.SegmentID, s *heapSegment) {
	if s.mlocked {
		unix.Munlock(s.mem)
	}
	unix.Munmap(s.mem)
	delete(h.segments, seg)
	h.used -= ids.Size(len(s.mem))
}

func (h *HeapInstance) lookup(seg ids.SegmentID) (*heapSegment, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.segments[seg]
	if !ok {
		return nil, errs.ErrSegmentGone
	}
	return s, nil
}

func (h *HeapInstance) Description(seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error) {
	h.mu.Lock()
	s, ok := h.segments[seg]
	if !ok {
		h.mu.Unlock()
		return nil, errs.ErrSegmentGone
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(len(s.mem))}).Contains(r.Begin, r.Length()) {
		h.mu.Unlock()
		return nil, errs.ErrOutOfRange
	}
	s.refCount++
	h.mu.Unlock()
	begin := uintptr(unsafe.Pointer(&s.mem[r.Begin]))
	return core.HeapPayload{Begin: begin, Size: ids.Size(len(s.mem)), Range: r}, nil
}

func (h *HeapInstance) ReadFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	s, err := h.lookup(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(len(s.mem))}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	return readFileInto(s.mem[offset:], path, r)
}

func (h *HeapInstance) WriteFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	s, err := h.lookup(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(len(s.mem))}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	return writeFileFrom(s.mem[offset:], path, r)
}

// ReadAt implements RawIO directly against the mapped pages.
func (h *HeapInstance) ReadAt(seg ids.SegmentID, offset ids.Offset, size ids.Size) ([]byte, error) {
	s, err := h.lookup(seg)
	if err != nil {
		return nil, err
	}
	if int(offset) > len(s.mem) {
		return nil, errs.ErrOutOfRange
	}
	end := int(offset) + int(size)
	if end > len(s.mem) {
		end = len(s.mem)
	}
	return append([]byte(nil), s.mem[offset:end]...), nil
}

// WriteAt implements RawIO directly against the mapped pages.
func (h *HeapInstance) WriteAt(seg ids.SegmentID, offset ids.Offset, data []byte) (ids.Size, error) {
	s, err := h.lookup(seg)
	if err != nil {
		return 0, err
	}
	if int(offset) > len(s.mem) {
		return 0, errs.ErrOutOfRange
	}
	n := copy(s.mem[offset:], data)
	return ids.Size(n), nil
}

// ReleaseDescription drops one outstanding reference previously granted by
// Description, so RemoveSegment can succeed once all readers/writers are
// done: Heap and SHMEM track references, and Remove fails with
// ErrSegmentBusy while any are outstanding.
func (h *HeapInstance) ReleaseDescription(seg ids.SegmentID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.segments[seg]; ok && s.refCount > 0 {
		s.refCount--
	}
}

func (h *HeapInstance) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for seg, s := range h.segments {
		if s.mlocked {
			unix.Munlock(s.mem)
		}
		unix.Munmap(s.mem)
		delete(h.segments, seg)
	}
	h.used = 0
}
