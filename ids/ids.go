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

// Package ids holds the identity and measurement types shared across every
// component: StorageID, SegmentID, BlockID, Offset, Size, Range, BlockRange
// and CollectionID.
package ids

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mcsproject/mcs/errs"
)

// StorageID is opaque, unique within a provider and stable across the
// storage's lifetime.
type StorageID uint64

// SegmentID is opaque and unique within a storage; monotonically allocated.
type SegmentID uint64

// BlockID is a 64-bit block count.
type BlockID uint64

// Offset is a byte offset.
type Offset uint64

// Size is a byte count.
type Size uint64

// BlockCount counts blocks.
type BlockCount uint64

// BlockSize is a nonzero byte size of one block.
type BlockSize uint64

// Range is a half-open byte range [Begin, End).
type Range struct {
	Begin Offset
	End   Offset
}

// NewRange constructs a Range, failing with ErrRangeInverted if begin > end.
func NewRange(begin, end Offset) (Range, error) {
	if begin > end {
		return Range{}, errs.ErrRangeInverted
	}
	return Range{Begin: begin, End: end}, nil
}

// Length returns End-Begin in bytes.
func (r Range) Length() Size { return Size(r.End - r.Begin) }

// Contains reports whether [offset, offset+length) is fully covered by r.
func (r Range) Contains(offset Offset, length Size) bool {
	return offset >= r.Begin && Offset(uint64(offset)+uint64(length)) <= r.End
}

// BlockRange is a half-open block range [Begin, End) with Begin < End.
type BlockRange struct {
	Begin BlockID
	End   BlockID
}

// NewBlockRange constructs a BlockRange, failing with ErrBlockRangeEmpty if
// begin >= end.
func NewBlockRange(begin, end BlockID) (BlockRange, error) {
	if begin >= end {
		return BlockRange{}, errs.ErrBlockRangeEmpty
	}
	return BlockRange{Begin: begin, End: end}, nil
}

// Length returns the number of blocks covered.
func (r BlockRange) Length() BlockCount { return BlockCount(r.End - r.Begin) }

// Overlaps reports whether r and o share any block.
func (r BlockRange) Overlaps(o BlockRange) bool {
	return r.Begin < o.End && o.Begin < r.End
}

// Less orders BlockRanges by their Begin, matching the sorted-set
// enumeration order the block-device meta-data algebra requires.
func (r BlockRange) Less(o BlockRange) bool { return r.Begin < o.Begin }

// MaxSize is either Unlimited or a byte Limit.
type MaxSize struct {
	limited bool
	bytes   Size
}

// Unlimited returns the MaxSize value that disables quota checks.
func Unlimited() MaxSize { return MaxSize{} }

// Limit returns a MaxSize capping usage at bytes.
func Limit(bytes Size) MaxSize { return MaxSize{limited: true, bytes: bytes} }

// IsUnlimited reports whether this MaxSize has no cap.
func (m MaxSize) IsUnlimited() bool { return !m.limited }

// Bytes returns the cap; only meaningful when !IsUnlimited().
func (m MaxSize) Bytes() Size { return m.bytes }

// Allows reports whether used+additional stays within the cap.
func (m MaxSize) Allows(used, additional Size) bool {
	if m.IsUnlimited() {
		return true
	}
	return used+additional <= m.bytes
}

// CollectionID is an opaque UUID-like string naming an IOV collection.
type CollectionID string

var uuidCounter = uint64(time.Now().UnixNano())

// newFastUUID returns a UUIDv4-shaped value from a monotonic counter mixed
// with wall-clock entropy, avoiding crypto/rand startup stalls on
// low-entropy systems.
func newFastUUID() uuid.UUID {
	ctr := atomic.AddUint64(&uuidCounter, 1)
	now := uint64(time.Now().UnixNano())
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], ctr)
	binary.LittleEndian.PutUint64(b[8:16], ctr^now^(now<<17))
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}

// NewCollectionID allocates a fresh CollectionID.
func NewCollectionID() CollectionID {
	return CollectionID(newFastUUID().String())
}
