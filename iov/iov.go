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

// Package iov implements the IOV backend: a registry of backing
// storages and collections composed from them by first-fit greedy
// allocation.
package iov

import (
	"sync"
	"sync/atomic"
	"unsafe"

	readmap "github.com/launix-de/NonLockingReadMap"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

// registration is one entry of the storages table: a backing core.Storage
// plus its capacity envelope, immutable once added.
type registration struct {
	id      ids.StorageID
	storage core.Storage
}

func (r registration) GetKey() ids.StorageID { return r.id }
func (r registration) ComputeSize() uint      { return uint(unsafe.Sizeof(r)) }

// allocation is one slice of a registered storage's capacity handed to a
// collection, in the order it was allocated.
type allocation struct {
	storageID ids.StorageID
	storage   core.Storage
	used      ids.Range // sub-range within storage.Range allocated to this slot
}

// SegmentRemover is asked to release the backing segment of a storage a
// deleted collection no longer needs. A nil remover is a documented
// no-op, matching provider.NoopTracer's pattern for an optional side
// effect.
type SegmentRemover interface {
	RemoveSegment(storage core.Storage) error
}

type noopRemover struct{}

func (noopRemover) RemoveSegment(core.Storage) error { return nil }

// IOV owns the storages/collections tables. storages is read
// far more often (every Locations call) than written (storage.Add), so
// it is backed by NonLockingReadMap's optimistic read path; collections
// is write-heavy (Append/Delete) and stays behind a plain mutex, which
// also guards the per-storage "used" bookkeeping shared by allocation.
type IOV struct {
	storages   readmap.NonLockingReadMap[registration, ids.StorageID]
	nextID     uint64
	remover    SegmentRemover

	mu          sync.Mutex
	used        map[ids.StorageID]ids.Size
	collections map[ids.CollectionID][]allocation
}

// New constructs an empty IOV. A nil remover defaults to a no-op.
func New(remover SegmentRemover) *IOV {
	if remover == nil {
		remover = noopRemover{}
	}
	return &IOV{
		storages:    readmap.New[registration, ids.StorageID](),
		remover:     remover,
		used:        make(map[ids.StorageID]ids.Size),
		collections: make(map[ids.CollectionID][]allocation),
	}
}

// StorageAdd registers storage's capacity for future allocation and
// returns a new IOV-local StorageID.
func (iov *IOV) StorageAdd(storage core.Storage) ids.StorageID {
	id := ids.StorageID(atomic.AddUint64(&iov.nextID, 1))
	iov.storages.Set(&registration{id: id, storage: storage})
	return id
}

// remainingLocked reports how many bytes of cap are left unallocated. Caller
// holds iov.mu.
func (iov *IOV) remainingLocked(r registration) ids.Size {
	cap := r.storage.Range.Length()
	used := iov.used[r.id]
	if used >= cap {
		return 0
	}
	return cap - used
}

// allocateLocked performs first-fit greedy allocation of size bytes
// across the registered storages in registration order, returning the
// allocations made. Caller holds iov.mu and has already verified enough
// total capacity exists.
func (iov *IOV) allocateLocked(size ids.Size) []allocation {
	var out []allocation
	remaining := size
	for _, r := range iov.storages.GetAll() {
		if remaining == 0 {
			break
		}
		avail := iov.remainingLocked(*r)
		if avail == 0 {
			continue
		}
		take := avail
		if take > remaining {
			take = remaining
		}
		begin := ids.Offset(iov.used[r.id])
		out = append(out, allocation{
			storageID: r.id,
			storage:   r.storage,
			used:      ids.Range{Begin: begin, End: begin + ids.Offset(take)},
		})
		iov.used[r.id] += take
		remaining -= take
	}
	return out
}

func (iov *IOV) totalCapacityLocked() ids.Size {
	var total ids.Size
	for _, r := range iov.storages.GetAll() {
		total += iov.remainingLocked(*r)
	}
	return total
}

func allocationsToUsedStorage(allocs []allocation) []core.UsedStorage {
	out := make([]core.UsedStorage, len(allocs))
	for i, a := range allocs {
		out[i] = core.UsedStorage{Storage: a.storage, Range: a.used}
	}
	return out
}

// CollectionCreate allocates size bytes from available storages using
// first-fit greedy across storages in registration order, failing
// errs.ErrOutOfCapacity (leaving state unchanged) if it cannot.
func (iov *IOV) CollectionCreate(id ids.CollectionID, size ids.Size) ([]core.UsedStorage, error) {
	iov.mu.Lock()
	defer iov.mu.Unlock()
	if iov.totalCapacityLocked() < size {
		return nil, errs.ErrOutOfCapacity
	}
	allocs := iov.allocateLocked(size)
	iov.collections[id] = allocs
	return allocationsToUsedStorage(allocs), nil
}

// CollectionAppend extends an existing collection by allocating
// additional bytes, again first-fit greedy, failing
// errs.ErrOutOfCapacity (leaving state unchanged) if it cannot.
func (iov *IOV) CollectionAppend(id ids.CollectionID, additional ids.Size) (ids.Size, error) {
	iov.mu.Lock()
	defer iov.mu.Unlock()
	if _, ok := iov.collections[id]; !ok {
		return 0, errs.ErrUnknownCollection
	}
	if iov.totalCapacityLocked() < additional {
		return 0, errs.ErrOutOfCapacity
	}
	allocs := iov.allocateLocked(additional)
	iov.collections[id] = append(iov.collections[id], allocs...)
	return additional, nil
}

// CollectionDelete releases the collection's allocations and asks each
// touched storage to remove its segment. A second delete of the same id
// fails errs.ErrUnknownCollection.
func (iov *IOV) CollectionDelete(id ids.CollectionID) error {
	iov.mu.Lock()
	allocs, ok := iov.collections[id]
	if !ok {
		iov.mu.Unlock()
		return errs.ErrUnknownCollection
	}
	delete(iov.collections, id)
	for _, a := range allocs {
		iov.used[a.storageID] -= a.used.Length()
	}
	iov.mu.Unlock()

	for _, a := range allocs {
		if err := iov.remover.RemoveSegment(a.storage); err != nil {
			return err
		}
	}
	return nil
}

// Range reports the total byte range currently mapped by a collection.
func (iov *IOV) Range(id ids.CollectionID) (ids.Range, error) {
	iov.mu.Lock()
	defer iov.mu.Unlock()
	allocs, ok := iov.collections[id]
	if !ok {
		return ids.Range{}, errs.ErrUnknownCollection
	}
	var total ids.Offset
	for _, a := range allocs {
		total += ids.Offset(a.used.Length())
	}
	return ids.Range{Begin: 0, End: total}, nil
}

// Location is one resolved span of a Locations query: the
// global range it covers, the provider endpoint for file I/O and for
// bulk transport, the storage-kind tag, the file.read/write parameter
// bundle, and the bulk-transport address.
type Location struct {
	Range        ids.Range
	Endpoint     core.Endpoint
	Kind         core.Kind
	FileParam    core.Parameter
	BulkEndpoint core.Endpoint
	BulkAddress  core.Storage
}

// Locations resolves a requested global byte range into an ordered list
// of Location items tiling it exactly; an empty result means the
// requested range lies outside the collection.
func (iov *IOV) Locations(id ids.CollectionID, want ids.Range) ([]Location, error) {
	iov.mu.Lock()
	allocs, ok := iov.collections[id]
	iov.mu.Unlock()
	if !ok {
		return nil, errs.ErrUnknownCollection
	}

	var out []Location
	var cursor ids.Offset
	for _, a := range allocs {
		length := ids.Offset(a.used.Length())
		span := ids.Range{Begin: cursor, End: cursor + length}
		cursor += length

		clipBegin := maxOffset(span.Begin, want.Begin)
		clipEnd := minOffset(span.End, want.End)
		if clipBegin >= clipEnd {
			continue
		}
		deltaBegin := ids.Offset(clipBegin - span.Begin)
		deltaEnd := ids.Offset(span.End - clipEnd)
		localRange := ids.Range{Begin: a.used.Begin + deltaBegin, End: a.used.End - deltaEnd}

		out = append(out, Location{
			Range:        ids.Range{Begin: clipBegin, End: clipEnd},
			Endpoint:     a.storage.Endpoint,
			Kind:         a.storage.Kind,
			FileParam:    a.storage.Parameter,
			BulkEndpoint: a.storage.Endpoint,
			BulkAddress: core.Storage{
				Endpoint:  a.storage.Endpoint,
				StorageID: a.storage.StorageID,
				Kind:      a.storage.Kind,
				Parameter: a.storage.Parameter,
				Segment:   a.storage.Segment,
				Range:     localRange,
			},
		})
	}
	return out, nil
}

func maxOffset(a, b ids.Offset) ids.Offset {
	if a > b {
		return a
	}
	return b
}

func minOffset(a, b ids.Offset) ids.Offset {
	if a < b {
		return a
	}
	return b
}

// State is a diagnostic snapshot of every registered storage and
// collection id.
type State struct {
	Storages    []core.Storage
	Collections []ids.CollectionID
}

func (iov *IOV) State() State {
	var s State
	for _, r := range iov.storages.GetAll() {
		s.Storages = append(s.Storages, r.storage)
	}
	iov.mu.Lock()
	for id := range iov.collections {
		s.Collections = append(s.Collections, id)
	}
	iov.mu.Unlock()
	return s
}
