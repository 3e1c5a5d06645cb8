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

// Package share implements the share service: a process advertises its
// chunks so peers can attach. Create makes a fresh chunk and hands back
// a self-contained core.ShareDescriptor; Attach<Access> resolves a
// descriptor into a local handle and bumps its refcount; Remove
// destroys the chunk once nothing still holds it attached.
package share

import (
	"sync"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/provider"
	"github.com/mcsproject/mcs/storagekind"
)

type key struct {
	storageID ids.StorageID
	segment   ids.SegmentID
}

type entry struct {
	size     ids.Size
	refcount int
}

// Service owns the table of chunks this process has advertised for
// peers to attach, delegating the actual storage/segment lifecycle to
// a provider.Provider.
type Service struct {
	provider *provider.Provider
	endpoint core.Endpoint
	kind     core.Kind

	mu     sync.Mutex
	shares map[key]*entry
}

// New constructs a share Service that creates its chunks on p using
// storage kind k, advertised under the given endpoint.
func New(p *provider.Provider, endpoint core.Endpoint, k core.Kind) *Service {
	return &Service{
		provider: p,
		endpoint: endpoint,
		kind:     k,
		shares:   make(map[key]*entry),
	}
}

// Create allocates a fresh storage and a single segment of size bytes
// from parameter, and returns the self-contained descriptor a peer
// needs to Attach without contacting anything but this service's
// endpoint.
func (s *Service) Create(size ids.Size, parameter core.Parameter) (core.ShareDescriptor, error) {
	storageID, err := s.provider.Create(s.kind, parameter)
	if err != nil {
		return core.ShareDescriptor{}, err
	}
	seg, err := s.provider.CreateSegment(storageID, size, storagekind.OnRemoveDefault)
	if err != nil {
		return core.ShareDescriptor{}, err
	}

	s.mu.Lock()
	s.shares[key{storageID, seg}] = &entry{size: size}
	s.mu.Unlock()

	return core.ShareDescriptor{
		Endpoint:  s.endpoint,
		StorageID: storageID,
		Kind:      s.kind,
		Segment:   seg,
		Size:      size,
	}, nil
}

// attach resolves d against the shares table, bumping its refcount, and
// asks the provider for the payload at the requested access mode. A
// failed Description call rolls back the refcount bump.
func attach[A core.AccessTag](s *Service, d core.ShareDescriptor, access core.Access) (core.Chunk[A], error) {
	s.mu.Lock()
	e, ok := s.shares[key{d.StorageID, d.Segment}]
	if !ok {
		s.mu.Unlock()
		return core.Chunk[A]{}, errs.ErrSegmentGone
	}
	e.refcount++
	s.mu.Unlock()

	payload, err := s.provider.ChunkDescription(d.StorageID, d.Segment, access, ids.Range{Begin: 0, End: ids.Offset(d.Size)})
	if err != nil {
		s.mu.Lock()
		e.refcount--
		s.mu.Unlock()
		return core.Chunk[A]{}, err
	}

	return core.Chunk[A]{
		Endpoint:  d.Endpoint,
		StorageID: d.StorageID,
		Kind:      d.Kind,
		Segment:   d.Segment,
		Payload:   payload,
	}, nil
}

// AttachConst resolves d into a read-only Chunk handle, incrementing
// its refcount.
func (s *Service) AttachConst(d core.ShareDescriptor) (core.ConstChunk, error) {
	return attach[core.Const](s, d, core.AccessConst)
}

// AttachMutable resolves d into a read-write Chunk handle, incrementing
// its refcount.
func (s *Service) AttachMutable(d core.ShareDescriptor) (core.MutableChunk, error) {
	return attach[core.Mutable](s, d, core.AccessMutable)
}

// Drop releases one attachment obtained from AttachConst/AttachMutable,
// decrementing the refcount. Dropping more times than attached is a
// caller bug; it is reported as errs.ErrSegmentGone rather than
// silently underflowing the counter.
func (s *Service) Drop(d core.ShareDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.shares[key{d.StorageID, d.Segment}]
	if !ok || e.refcount == 0 {
		return errs.ErrSegmentGone
	}
	e.refcount--
	return nil
}

// Remove destroys a shared chunk together with the storage Create made
// for it, failing errs.ErrStillAttached while its refcount is above zero.
func (s *Service) Remove(d core.ShareDescriptor) error {
	s.mu.Lock()
	e, ok := s.shares[key{d.StorageID, d.Segment}]
	if !ok {
		s.mu.Unlock()
		return errs.ErrSegmentGone
	}
	if e.refcount > 0 {
		s.mu.Unlock()
		return errs.ErrStillAttached
	}
	delete(s.shares, key{d.StorageID, d.Segment})
	s.mu.Unlock()

	return s.provider.Destruct(d.StorageID)
}
