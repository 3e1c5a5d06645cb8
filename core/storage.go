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
	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/ids"
)

// Kind tags which of the four storage implementations a Storage or Chunk
// belongs to.
type Kind uint8

const (
	KindFiles Kind = iota
	KindHeap
	KindSHMEM
	KindVirtual
)

func (k Kind) String() string {
	switch k {
	case KindFiles:
		return "files"
	case KindHeap:
		return "heap"
	case KindSHMEM:
		return "shmem"
	case KindVirtual:
		return "virtual"
	default:
		return "unknown"
	}
}

func (k Kind) Save(o *archive.Output) { o.WriteU8(uint8(k)) }
func LoadKind(in *archive.Input) (Kind, error) {
	v, err := in.ReadU8()
	return Kind(v), err
}

// ParseKind maps a kind's String() form back to its Kind value, for CLI
// flags and configuration files that name a storage kind by word.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "files":
		return KindFiles, true
	case "heap":
		return KindHeap, true
	case "shmem":
		return KindSHMEM, true
	case "virtual":
		return KindVirtual, true
	default:
		return 0, false
	}
}

// Parameter is an implementation-private byte string understood only by
// the owning storage kind. Every other component forwards it verbatim
// without parsing it.
type Parameter []byte

func (p Parameter) Save(o *archive.Output) {
	o.WriteU32(uint32(len(p)))
	o.WriteBytes(p)
}

func LoadParameter(in *archive.Input) (Parameter, error) {
	n, err := in.ReadU32()
	if err != nil {
		return nil, err
	}
	b, err := in.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	out := make(Parameter, len(b))
	copy(out, b)
	return out, nil
}

// Storage is the transferable descriptor: everything a consumer needs to
// perform a bulk transfer or file I/O through a given storage, without
// being a member of the provider process.
type Storage struct {
	Endpoint  Endpoint
	StorageID ids.StorageID
	Kind      Kind
	Parameter Parameter
	Segment   ids.SegmentID
	Range     ids.Range
}

func (s Storage) Save(o *archive.Output) {
	s.Endpoint.Save(o)
	s.StorageID.Save(o)
	s.Kind.Save(o)
	s.Parameter.Save(o)
	s.Segment.Save(o)
	s.Range.Save(o)
}

func LoadStorage(in *archive.Input) (Storage, error) {
	var s Storage
	var err error
	if s.Endpoint, err = LoadEndpoint(in); err != nil {
		return Storage{}, err
	}
	if s.StorageID, err = ids.LoadStorageID(in); err != nil {
		return Storage{}, err
	}
	if s.Kind, err = LoadKind(in); err != nil {
		return Storage{}, err
	}
	if s.Parameter, err = LoadParameter(in); err != nil {
		return Storage{}, err
	}
	if s.Segment, err = ids.LoadSegmentID(in); err != nil {
		return Storage{}, err
	}
	if s.Range, err = ids.LoadRange(in); err != nil {
		return Storage{}, err
	}
	return s, nil
}

// UsedStorage is one storage's contribution to an IOV collection: the
// backing Storage plus the byte range of it this collection occupies.
type UsedStorage struct {
	Storage Storage
	Range   ids.Range
}

func (u UsedStorage) Save(o *archive.Output) {
	u.Storage.Save(o)
	u.Range.Save(o)
}

func LoadUsedStorage(in *archive.Input) (UsedStorage, error) {
	var u UsedStorage
	var err error
	if u.Storage, err = LoadStorage(in); err != nil {
		return UsedStorage{}, err
	}
	if u.Range, err = ids.LoadRange(in); err != nil {
		return UsedStorage{}, err
	}
	return u, nil
}

// ShareDescriptor is the self-contained handle a share service's Create
// hands back: everything a peer needs to Attach without contacting
// anything but the named endpoint.
type ShareDescriptor struct {
	Endpoint  Endpoint
	StorageID ids.StorageID
	Kind      Kind
	Segment   ids.SegmentID
	Size      ids.Size
}

func (d ShareDescriptor) Save(o *archive.Output) {
	d.Endpoint.Save(o)
	d.StorageID.Save(o)
	d.Kind.Save(o)
	d.Segment.Save(o)
	d.Size.Save(o)
}

func LoadShareDescriptor(in *archive.Input) (ShareDescriptor, error) {
	var d ShareDescriptor
	var err error
	if d.Endpoint, err = LoadEndpoint(in); err != nil {
		return ShareDescriptor{}, err
	}
	if d.StorageID, err = ids.LoadStorageID(in); err != nil {
		return ShareDescriptor{}, err
	}
	if d.Kind, err = LoadKind(in); err != nil {
		return ShareDescriptor{}, err
	}
	if d.Segment, err = ids.LoadSegmentID(in); err != nil {
		return ShareDescriptor{}, err
	}
	if d.Size, err = ids.LoadSize(in); err != nil {
		return ShareDescriptor{}, err
	}
	return d, nil
}
