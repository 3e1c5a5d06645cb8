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
package iov

import (
	"errors"
	"testing"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

func backingStorage(capacity uint64) core.Storage {
	return core.Storage{Range: ids.Range{Begin: 0, End: ids.Offset(capacity)}}
}

// Scenario 4: two backing storages with capacities {1000, 2500}.
// collection.Create("C", 3000) succeeds; Locations("C", [0,3000)) returns
// two entries: [0,1000) on storage 1, [1000,3000) (2000 bytes) on
// storage 2.
func TestScenarioCollectionTile(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	v.StorageAdd(backingStorage(2500))

	used, err := v.CollectionCreate("C", 3000)
	if err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	if len(used) != 2 {
		t.Fatalf("CollectionCreate returned %d UsedStorage, want 2", len(used))
	}

	locs, err := v.Locations("C", ids.Range{Begin: 0, End: 3000})
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("Locations returned %d entries, want 2", len(locs))
	}
	if locs[0].Range != (ids.Range{Begin: 0, End: 1000}) {
		t.Fatalf("first location range = %+v, want [0,1000)", locs[0].Range)
	}
	if locs[1].Range != (ids.Range{Begin: 1000, End: 3000}) {
		t.Fatalf("second location range = %+v, want [1000,3000)", locs[1].Range)
	}
	if locs[1].Range.Length() != 2000 {
		t.Fatalf("second location length = %d, want 2000", locs[1].Range.Length())
	}
}

func TestCollectionCreateOutOfCapacityLeavesStateUnchanged(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(100))

	if _, err := v.CollectionCreate("C", 200); !errors.Is(err, errs.ErrOutOfCapacity) {
		t.Fatalf("CollectionCreate over capacity = %v, want ErrOutOfCapacity", err)
	}
	// A subsequent Create that fits must still succeed: the failed
	// attempt must not have reserved any capacity.
	if _, err := v.CollectionCreate("C", 100); err != nil {
		t.Fatalf("CollectionCreate after failed attempt: %v", err)
	}
}

func TestLocationsCoverExactlyPIovCover(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	v.StorageAdd(backingStorage(2500))
	if _, err := v.CollectionCreate("C", 3000); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}

	locs, err := v.Locations("C", ids.Range{Begin: 0, End: 3000})
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	var cursor ids.Offset
	for _, l := range locs {
		if l.Range.Begin != cursor {
			t.Fatalf("gap/overlap in tiling at %+v, expected begin %d", l.Range, cursor)
		}
		cursor = l.Range.End
	}
	if cursor != 3000 {
		t.Fatalf("tiling covered up to %d, want 3000", cursor)
	}
}

func TestLocationsOutsideCollectionIsEmpty(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	if _, err := v.CollectionCreate("C", 500); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	locs, err := v.Locations("C", ids.Range{Begin: 900, End: 1200})
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if len(locs) != 0 {
		t.Fatalf("expected no entries for a range entirely outside the collection, got %d", len(locs))
	}
}

func TestLocationsClipsPartialOverlap(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	if _, err := v.CollectionCreate("C", 500); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	locs, err := v.Locations("C", ids.Range{Begin: 300, End: 1200})
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if len(locs) != 1 {
		t.Fatalf("expected one clipped entry, got %d", len(locs))
	}
	if locs[0].Range != (ids.Range{Begin: 300, End: 500}) {
		t.Fatalf("clipped range = %+v, want [300,500)", locs[0].Range)
	}
}

func TestCollectionAppendExtendsRange(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	if _, err := v.CollectionCreate("C", 400); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	added, err := v.CollectionAppend("C", 200)
	if err != nil {
		t.Fatalf("CollectionAppend: %v", err)
	}
	if added != 200 {
		t.Fatalf("Added = %d, want 200", added)
	}
	r, err := v.Range("C")
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if r.End != 600 {
		t.Fatalf("Range after append = %+v, want End=600", r)
	}
}

// P-IdempotentDelete: collection.Delete(id); collection.Delete(id) fails
// only on the second call.
func TestCollectionDeleteIdempotency(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	if _, err := v.CollectionCreate("C", 100); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	if err := v.CollectionDelete("C"); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := v.CollectionDelete("C"); !errors.Is(err, errs.ErrUnknownCollection) {
		t.Fatalf("second Delete = %v, want ErrUnknownCollection", err)
	}
}

func TestCollectionDeleteFreesCapacityForReuse(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(100))
	if _, err := v.CollectionCreate("A", 100); err != nil {
		t.Fatalf("CollectionCreate A: %v", err)
	}
	if _, err := v.CollectionCreate("B", 1); !errors.Is(err, errs.ErrOutOfCapacity) {
		t.Fatalf("CollectionCreate B before delete = %v, want ErrOutOfCapacity", err)
	}
	if err := v.CollectionDelete("A"); err != nil {
		t.Fatalf("Delete A: %v", err)
	}
	if _, err := v.CollectionCreate("B", 100); err != nil {
		t.Fatalf("CollectionCreate B after delete: %v", err)
	}
}

type recordingRemover struct {
	removed []core.Storage
}

func (r *recordingRemover) RemoveSegment(s core.Storage) error {
	r.removed = append(r.removed, s)
	return nil
}

func TestCollectionDeleteAsksRemoverForEachTouchedStorage(t *testing.T) {
	rem := &recordingRemover{}
	v := New(rem)
	v.StorageAdd(backingStorage(1000))
	v.StorageAdd(backingStorage(2500))
	if _, err := v.CollectionCreate("C", 3000); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	if err := v.CollectionDelete("C"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(rem.removed) != 2 {
		t.Fatalf("remover called %d times, want 2", len(rem.removed))
	}
}

func TestStateReportsStoragesAndCollections(t *testing.T) {
	v := New(nil)
	v.StorageAdd(backingStorage(1000))
	if _, err := v.CollectionCreate("C", 100); err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	s := v.State()
	if len(s.Storages) != 1 {
		t.Fatalf("State.Storages = %d, want 1", len(s.Storages))
	}
	if len(s.Collections) != 1 || s.Collections[0] != "C" {
		t.Fatalf("State.Collections = %+v, want [C]", s.Collections)
	}
}
