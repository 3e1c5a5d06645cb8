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

// Package blockdevice implements the block-device meta-data algebra: a
// Blocks instance parameterized by BlockSize, storing a sorted disjoint
// set of (BlockRange -> core.Storage). Allocation is first-fit over the
// sorted live ranges.
package blockdevice

import (
	"sync"

	"github.com/google/btree"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

type entry struct {
	blockRange ids.BlockRange
	storage    core.Storage
}

func (e entry) less(o entry) bool { return e.blockRange.Less(o.blockRange) }

// Blocks is a sorted set of disjoint BlockRanges backed by
// github.com/google/btree, an ordered tree giving in-order enumeration
// and first-fit gap search without a manual balanced-tree implementation.
type Blocks struct {
	blockSize ids.BlockSize

	mu    sync.Mutex
	tree  *btree.BTreeG[entry]
	count ids.BlockCount
}

// New constructs an empty Blocks instance parameterized by blockSize.
// New does not validate blockSize; with a zero blockSize every Add fails
// with errs.ErrNotAligned.
func New(blockSize ids.BlockSize) *Blocks {
	return &Blocks{
		blockSize: blockSize,
		tree:      btree.NewG(8, entry.less),
	}
}

// BlockSize returns the configured block size.
func (b *Blocks) BlockSize() ids.BlockSize { return b.blockSize }

// NumberOfBlocks sums the block counts of all live ranges.
func (b *Blocks) NumberOfBlocks() ids.BlockCount {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// BlockRanges enumerates the live ranges in ascending order.
func (b *Blocks) BlockRanges() []ids.BlockRange {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ids.BlockRange, 0, b.tree.Len())
	b.tree.Ascend(func(e entry) bool {
		out = append(out, e.blockRange)
		return true
	})
	return out
}

// AddResult is what Add returns on success.
type AddResult struct {
	Range ids.BlockRange
}

// Add computes n = storage.Range.Length()/BlockSize, fails
// errs.ErrNotAligned if the division isn't exact, then finds the lowest
// BlockID b such that [b, b+n) is disjoint from every live range
// (first-fit: walks the sorted live ranges and places at the first gap
// that fits, else at the end) and inserts it.
func (b *Blocks) Add(storage core.Storage) (AddResult, error) {
	length := uint64(storage.Range.Length())
	bs := uint64(b.blockSize)
	if bs == 0 || length%bs != 0 {
		return AddResult{}, errs.ErrNotAligned
	}
	n := ids.BlockCount(length / bs)

	b.mu.Lock()
	defer b.mu.Unlock()

	begin := b.firstFitLocked(n)
	r := ids.BlockRange{Begin: begin, End: begin + ids.BlockID(n)}
	b.tree.ReplaceOrInsert(entry{blockRange: r, storage: storage})
	b.count += n
	return AddResult{Range: r}, nil
}

// firstFitLocked finds the lowest BlockID at which a run of n blocks fits
// disjointly from every live range, walking ranges in ascending order and
// placing at the first sufficient gap; falls back to the end of the last
// range.
func (b *Blocks) firstFitLocked(n ids.BlockCount) ids.BlockID {
	var cursor ids.BlockID
	var found ids.BlockID
	have := false
	b.tree.Ascend(func(e entry) bool {
		if !have && e.blockRange.Begin-cursor >= ids.BlockID(n) {
			found = cursor
			have = true
			return false
		}
		cursor = e.blockRange.End
		return true
	})
	if have {
		return found
	}
	return cursor
}

// RemoveResult is what Remove returns on success.
type RemoveResult struct {
	Storage core.Storage
}

// Remove requires an exact match with an existing range; otherwise fails
// errs.ErrUnknownRange.
func (b *Blocks) Remove(r ids.BlockRange) (RemoveResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.tree.Get(entry{blockRange: r})
	if !ok || e.blockRange != r {
		return RemoveResult{}, errs.ErrUnknownRange
	}
	b.tree.Delete(entry{blockRange: r})
	b.count -= r.Length()
	return RemoveResult{Storage: e.storage}, nil
}

// Location is what location() returns: the storage covering a BlockID and
// the byte offset within it.
type Location struct {
	Storage core.Storage
	Offset  ids.Offset
}

// Locate returns {storage, offset-within-storage} where
// offset = (blockID - range.Begin) * BlockSize; fails errs.ErrUnmapped if
// blockID isn't covered by any live range.
func (b *Blocks) Locate(blockID ids.BlockID) (Location, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var found entry
	have := false
	b.tree.Ascend(func(e entry) bool {
		if blockID >= e.blockRange.Begin && blockID < e.blockRange.End {
			found = e
			have = true
			return false
		}
		return true
	})
	if !have {
		return Location{}, errs.ErrUnmapped
	}
	offset := ids.Offset(uint64(blockID-found.blockRange.Begin) * uint64(b.blockSize))
	return Location{Storage: found.storage, Offset: offset}, nil
}
