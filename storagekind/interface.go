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

// Package storagekind implements the four storage kinds — Files, Heap,
// SHMEM and Virtual — behind one uniform Instance contract.
// Every creating operation observes MaxSize; a segment create that would
// make used+size exceed the cap fails with errs.ErrOutOfQuota.
package storagekind

import (
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/ids"
)

// OnRemove governs what segment.Remove does to the backing bytes: Keep
// leaves them (file kind only), Remove deletes them.
type OnRemove uint8

const (
	OnRemoveDefault OnRemove = iota
	OnRemoveKeep
	OnRemoveRemove
)

// Instance is one storage of a given kind, owning a segment table.
type Instance interface {
	Kind() core.Kind

	// SizeMax returns the configured MaxSize for this storage.
	SizeMax() ids.MaxSize

	// SizeUsed returns bytes currently reserved by live segments.
	SizeUsed() ids.Size

	// CreateSegment allocates a segment of the given size. Fails with
	// errs.ErrOutOfQuota if it would exceed SizeMax.
	CreateSegment(size ids.Size, onRemove OnRemove) (ids.SegmentID, error)

	// RemoveSegment destroys a segment. Fails with errs.ErrSegmentBusy if
	// the kind tracks outstanding references and some are live (Heap,
	// SHMEM); Files removes immediately regardless — the per-kind
	// divergence is preserved deliberately.
	RemoveSegment(seg ids.SegmentID) error

	// Description returns the kind-specific chunk payload for a byte
	// range within a live segment. Fails with errs.ErrSegmentGone if the
	// segment does not exist, or errs.ErrOutOfRange if the range exceeds
	// the segment.
	Description(seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error)

	// ReadFile copies range.Length() bytes from the external path
	// starting at range.Begin into the segment at offset. Returns the
	// number of bytes actually transferred (may be short).
	ReadFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error)

	// WriteFile is the reverse transfer: segment[offset:offset+len] to
	// external path at r.Begin.
	WriteFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error)

	// Destroy removes every live segment (storage destruct).
	Destroy()
}

// RawIO is the optional bulk-transport surface: direct byte access into
// a segment at an offset, independent of any external filesystem path.
// Kinds without a flat addressable byte range (Virtual, when the
// foreign implementation opts out) need not implement it; the bulk
// package falls back to errs.ErrUnsupportedOperation.
type RawIO interface {
	// ReadAt returns up to size bytes starting at offset within seg. A
	// short read (fewer than size, without error) is possible only at
	// end-of-segment; callers compare against the requested size.
	ReadAt(seg ids.SegmentID, offset ids.Offset, size ids.Size) ([]byte, error)

	// WriteAt writes data into seg at offset, returning the number of
	// bytes accepted.
	WriteAt(seg ids.SegmentID, offset ids.Offset, data []byte) (ids.Size, error)
}

// Factory constructs a fresh Instance from a storage.Parameter.Create
// bundle: each storage kind defines its own Create bundle format. The
// bundle bytes are opaque outside the owning kind.
type Factory interface {
	Kind() core.Kind
	Create(createParam core.Parameter) (Instance, error)
}
