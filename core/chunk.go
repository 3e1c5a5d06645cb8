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
package core

import (
	"fmt"

	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/ids"
)

// Access is the runtime value behind a chunk's compile-time access tag.
type Access uint8

const (
	AccessConst Access = iota
	AccessMutable
)

func (a Access) String() string {
	if a == AccessMutable {
		return "mutable"
	}
	return "const"
}

// AccessTag is implemented by the two zero-size marker types Const and
// Mutable, carried as Chunk's type parameter so a Mutable chunk is a
// distinct Go type from a Const chunk at the call site: a Mutable chunk
// may not coexist with any other concurrent handle to the same bytes.
type AccessTag interface {
	tag() Access
}

type Const struct{}

func (Const) tag() Access { return AccessConst }

type Mutable struct{}

func (Mutable) tag() Access { return AccessMutable }

// Payload is the per-kind chunk body: Files yields
// {path, file-size, range}; Heap yields {begin pointer, size, range};
// SHMEM yields {prefix, segment-id, size, range}; Virtual yields an
// opaque handle trampolined through the foreign implementation.
type Payload interface {
	Kind() Kind
	Save(*archive.Output)
}

type FilesPayload struct {
	Path     string
	FileSize ids.Size
	Range    ids.Range
}

func (FilesPayload) Kind() Kind { return KindFiles }
func (p FilesPayload) Save(o *archive.Output) {
	o.WriteTaggedString(p.Path)
	p.FileSize.Save(o)
	p.Range.Save(o)
}

type HeapPayload struct {
	Begin uintptr
	Size  ids.Size
	Range ids.Range
}

func (HeapPayload) Kind() Kind { return KindHeap }
func (p HeapPayload) Save(o *archive.Output) {
	o.WriteU64(uint64(p.Begin))
	p.Size.Save(o)
	p.Range.Save(o)
}

type ShmemPayload struct {
	Prefix  string
	Segment ids.SegmentID
	Size    ids.Size
	Range   ids.Range
}

func (ShmemPayload) Kind() Kind { return KindSHMEM }
func (p ShmemPayload) Save(o *archive.Output) {
	o.WriteTaggedString(p.Prefix)
	p.Segment.Save(o)
	p.Size.Save(o)
	p.Range.Save(o)
}

type VirtualPayload struct {
	Handle []byte
}

func (VirtualPayload) Kind() Kind { return KindVirtual }
func (p VirtualPayload) Save(o *archive.Output) {
	o.WriteU32(uint32(len(p.Handle)))
	o.WriteBytes(p.Handle)
}

// Chunk is a view of a byte range inside a segment: storage endpoint,
// StorageID, storage-implementation tag, SegmentID, size, and the
// kind-specific Payload. A Chunk is a borrowed view — it names its
// segment but does not keep it alive.
type Chunk[A AccessTag] struct {
	Endpoint  Endpoint
	StorageID ids.StorageID
	Kind      Kind
	Segment   ids.SegmentID
	Payload   Payload
}

// Access returns the runtime access mode carried by this Chunk's type
// parameter.
func (c Chunk[A]) Access() Access {
	var a A
	return a.tag()
}

func (c Chunk[A]) String() string {
	return fmt.Sprintf("Chunk<%s>{storage=%d segment=%d kind=%s}", c.Access(), c.StorageID, c.Segment, c.Kind)
}

// ConstChunk and MutableChunk are the two concrete chunk handles
// consumers receive from chunk.Description / share.Attach.
type ConstChunk = Chunk[Const]
type MutableChunk = Chunk[Mutable]

func LoadFilesPayload(in *archive.Input) (FilesPayload, error) {
	var p FilesPayload
	var err error
	if p.Path, err = in.ReadTaggedString(); err != nil {
		return FilesPayload{}, err
	}
	if p.FileSize, err = ids.LoadSize(in); err != nil {
		return FilesPayload{}, err
	}
	if p.Range, err = ids.LoadRange(in); err != nil {
		return FilesPayload{}, err
	}
	return p, nil
}

func LoadHeapPayload(in *archive.Input) (HeapPayload, error) {
	var p HeapPayload
	v, err := in.ReadU64()
	if err != nil {
		return HeapPayload{}, err
	}
	p.Begin = uintptr(v)
	if p.Size, err = ids.LoadSize(in); err != nil {
		return HeapPayload{}, err
	}
	if p.Range, err = ids.LoadRange(in); err != nil {
		return HeapPayload{}, err
	}
	return p, nil
}

func LoadShmemPayload(in *archive.Input) (ShmemPayload, error) {
	var p ShmemPayload
	var err error
	if p.Prefix, err = in.ReadTaggedString(); err != nil {
		return ShmemPayload{}, err
	}
	if p.Segment, err = ids.LoadSegmentID(in); err != nil {
		return ShmemPayload{}, err
	}
	if p.Size, err = ids.LoadSize(in); err != nil {
		return ShmemPayload{}, err
	}
	if p.Range, err = ids.LoadRange(in); err != nil {
		return ShmemPayload{}, err
	}
	return p, nil
}

func LoadVirtualPayload(in *archive.Input) (VirtualPayload, error) {
	n, err := in.ReadU32()
	if err != nil {
		return VirtualPayload{}, err
	}
	b, err := in.ReadBytes(int(n))
	if err != nil {
		return VirtualPayload{}, err
	}
	handle := make([]byte, len(b))
	copy(handle, b)
	return VirtualPayload{Handle: handle}, nil
}

// LoadPayload dispatches to the per-kind loader matching kind. It reads
// no Kind tag itself: the enclosing response (chunk.Description, share
// Attach) carries the kind and its decoder reads it before calling here.
func LoadPayload(in *archive.Input, kind Kind) (Payload, error) {
	switch kind {
	case KindFiles:
		return LoadFilesPayload(in)
	case KindHeap:
		return LoadHeapPayload(in)
	case KindSHMEM:
		return LoadShmemPayload(in)
	case KindVirtual:
		return LoadVirtualPayload(in)
	default:
		return nil, fmt.Errorf("core: unknown payload kind %v", kind)
	}
}
