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
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

// SHMEMCreateParams is the SHMEM kind's Parameter.Create bundle:
// {Prefix, MaxSize}.
type SHMEMCreateParams struct {
	Prefix   string `json:"prefix"`
	MaxSize  string `json:"max_size"`
	ReadOnly bool   `json:"read_only"`
}

type shmemSegment struct {
	name     string
	mem      []byte
	fd       int
	mlocked  bool
	readOnly bool
	refCount int
}

// SHMEMInstance is POSIX shared memory segments shm_open'd under
// Prefix+segment-id, optionally mlock'd. The read_only create parameter
// is decoded but not applied: every segment is opened and mapped
// read-write.
type SHMEMInstance struct {
	prefix  string
	maxSize ids.MaxSize

	mu       sync.Mutex
	nextSeg  ids.SegmentID
	segments map[ids.SegmentID]*shmemSegment
	used     ids.Size
}

type SHMEMFactory struct{}

func (SHMEMFactory) Kind() core.Kind { return core.KindSHMEM }

func (SHMEMFactory) Create(p core.Parameter) (Instance, error) {
	var params SHMEMCreateParams
	if err := json.Unmarshal(p, &params); err != nil {
		return nil, &errs.LoadFailed{Cause: err}
	}
	maxSize, err := parseMaxSize(params.MaxSize)
	if err != nil {
		return nil, err
	}
	return &SHMEMInstance{prefix: params.Prefix, maxSize: maxSize, segments: make(map[ids.SegmentID]*shmemSegment)}, nil
}

func (s *SHMEMInstance) Kind() core.Kind      { return core.KindSHMEM }
func (s *SHMEMInstance) SizeMax() ids.MaxSize { return s.maxSize }

func (s *SHMEMInstance) SizeUsed() ids.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

func (s *SHMEMInstance) shmName(seg ids.SegmentID) string {
	return fmt.Sprintf("/%s-%d", s.prefix, seg)
}

// shmOpen approximates POSIX shm_open(name, O_CREAT|O_RDWR, 0600) via the
// /dev/shm tmpfs mount, which is how glibc itself implements shm_open on
// Linux.
func shmOpen(name string, readOnly bool) (int, error) {
	flags := unix.O_CREAT
	if readOnly {
		flags |= unix.O_RDONLY
	} else {
		flags |= unix.O_RDWR
	}
	return unix.Open("/dev/shm"+name, flags, 0600)
}

func shmUnlink(name string) error {
	return unix.Unlink("/dev/shm" + name)
}

func (s *SHMEMInstance) CreateSegment(size ids.Size, onRemove OnRemove) (ids.SegmentID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.maxSize.Allows(s.used, size) {
		return 0, errs.ErrOutOfQuota
	}
	s.nextSeg++
	seg := s.nextSeg
	name := s.shmName(seg)
	fd, err := shmOpen(name, false)
	if err != nil {
		return 0, err
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		shmUnlink(name)
		return 0, err
	}
	n := int(size)
	if n == 0 {
		n = 1
	}
	mem, err := unix.Mmap(fd, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		shmUnlink(name)
		return 0, err
	}
	s.segments[seg] = &shmemSegment{name: name, mem: mem, fd: fd}
	s.used += size
	return seg, nil
}

func (s *SHMEMInstance) RemoveSegment(seg ids.SegmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seginfo, ok := s.segments[seg]
	if !ok {
		return errs.ErrSegmentGone
	}
	if seginfo.refCount > 0 {
		return errs.ErrSegmentBusy
	}
	s.destroyLocked(seg, seginfo)
	return nil
}

func (s *SHMEMInstance) destroyLocked(seg ids.SegmentID, seginfo *shmemSegment) {
	if seginfo.mlocked {
		unix.Munlock(seginfo.mem)
	}
	unix.Munmap(seginfo.mem)
	unix.Close(seginfo.fd)
	shmUnlink(seginfo.name)
	delete(s.segments, seg)
	s.used -= ids.Size(len(seginfo.mem))
}

func (s *SHMEMInstance) lookup(seg ids.SegmentID) (*shmemSegment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seginfo, ok := s.segments[seg]
	if !ok {
		return nil, errs.ErrSegmentGone
	}
	return seginfo, nil
}

func (s *SHMEMInstance) Description(seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error) {
	s.mu.Lock()
	seginfo, ok := s.segments[seg]
	if !ok {
		s.mu.Unlock()
		return nil, errs.ErrSegmentGone
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(len(seginfo.mem))}).Contains(r.Begin, r.Length()) {
		s.mu.Unlock()
		return nil, errs.ErrOutOfRange
	}
	seginfo.refCount++
	s.mu.Unlock()
	return core.ShmemPayload{Prefix: s.prefix, Segment: seg, Size: ids.Size(len(seginfo.mem)), Range: r}, nil
}

// ReadAt implements RawIO directly against the mapped shared pages.
func (s *SHMEMInstance) ReadAt(seg ids.SegmentID, offset ids.Offset, size ids.Size) ([]byte, error) {
	seginfo, err := s.lookup(seg)
	if err != nil {
		return nil, err
	}
	if int(offset) > len(seginfo.mem) {
		return nil, errs.ErrOutOfRange
	}
	end := int(offset) + int(size)
	if end > len(seginfo.mem) {
		end = len(seginfo.mem)
	}
	return append([]byte(nil), seginfo.mem[offset:end]...), nil
}

// WriteAt implements RawIO directly against the mapped shared pages.
func (s *SHMEMInstance) WriteAt(seg ids.SegmentID, offset ids.Offset, data []byte) (ids.Size, error) {
	seginfo, err := s.lookup(seg)
	if err != nil {
		return 0, err
	}
	if seginfo.readOnly {
		return 0, errs.ErrUnsupportedOperation
	}
	if int(offset) > len(seginfo.mem) {
		return 0, errs.ErrOutOfRange
	}
	n := copy(seginfo.mem[offset:], data)
	return ids.Size(n), nil
}

// ReleaseDescription mirrors HeapInstance.ReleaseDescription.
func (s *SHMEMInstance) ReleaseDescription(seg ids.SegmentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seginfo, ok := s.segments[seg]; ok && seginfo.refCount > 0 {
		seginfo.refCount--
	}
}

// Mlock pins a segment's pages in RAM.
func (s *SHMEMInstance) Mlock(seg ids.SegmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seginfo, ok := s.segments[seg]
	if !ok {
		return errs.ErrSegmentGone
	}
	if seginfo.mlocked {
		return nil
	}
	if err := unix.Mlock(seginfo.mem); err != nil {
		return err
	}
	seginfo.mlocked = true
	return nil
}

func (s *SHMEMInstance) ReadFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	seginfo, err := s.lookup(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(len(seginfo.mem))}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	return readFileInto(seginfo.mem[offset:], path, r)
}

func (s *SHMEMInstance) WriteFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	seginfo, err := s.lookup(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(len(seginfo.mem))}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	return writeFileFrom(seginfo.mem[offset:], path, r)
}

func (s *SHMEMInstance) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for seg, seginfo := range s.segments {
		if seginfo.mlocked {
			unix.Munlock(seginfo.mem)
		}
		unix.Munmap(seginfo.mem)
		unix.Close(seginfo.fd)
		shmUnlink(seginfo.name)
		delete(s.segments, seg)
	}
	s.used = 0
}
