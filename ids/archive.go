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
package ids

import "github.com/mcsproject/mcs/archive"

// Every trivially-copyable id/measurement type saves as its raw
// little-endian 8-byte form, untagged.

func (s StorageID) Save(o *archive.Output) { o.WriteU64(uint64(s)) }
func LoadStorageID(in *archive.Input) (StorageID, error) {
	v, err := in.ReadU64()
	return StorageID(v), err
}

func (s SegmentID) Save(o *archive.Output) { o.WriteU64(uint64(s)) }
func LoadSegmentID(in *archive.Input) (SegmentID, error) {
	v, err := in.ReadU64()
	return SegmentID(v), err
}

func (b BlockID) Save(o *archive.Output) { o.WriteU64(uint64(b)) }
func LoadBlockID(in *archive.Input) (BlockID, error) {
	v, err := in.ReadU64()
	return BlockID(v), err
}

func (s Size) Save(o *archive.Output) { o.WriteU64(uint64(s)) }
func LoadSize(in *archive.Input) (Size, error) {
	v, err := in.ReadU64()
	return Size(v), err
}

func (o_ Offset) Save(o *archive.Output) { o.WriteU64(uint64(o_)) }
func LoadOffset(in *archive.Input) (Offset, error) {
	v, err := in.ReadU64()
	return Offset(v), err
}

func (c BlockCount) Save(o *archive.Output) { o.WriteU64(uint64(c)) }
func LoadBlockCount(in *archive.Input) (BlockCount, error) {
	v, err := in.ReadU64()
	return BlockCount(v), err
}

func (b BlockSize) Save(o *archive.Output) { o.WriteU64(uint64(b)) }
func LoadBlockSize(in *archive.Input) (BlockSize, error) {
	v, err := in.ReadU64()
	return BlockSize(v), err
}

func (r Range) Save(o *archive.Output) {
	o.WriteU64(uint64(r.Begin))
	o.WriteU64(uint64(r.End))
}
func LoadRange(in *archive.Input) (Range, error) {
	begin, err := in.ReadU64()
	if err != nil {
		return Range{}, err
	}
	end, err := in.ReadU64()
	if err != nil {
		return Range{}, err
	}
	return NewRange(Offset(begin), Offset(end))
}

func (r BlockRange) Save(o *archive.Output) {
	o.WriteU64(uint64(r.Begin))
	o.WriteU64(uint64(r.End))
}
func LoadBlockRange(in *archive.Input) (BlockRange, error) {
	begin, err := in.ReadU64()
	if err != nil {
		return BlockRange{}, err
	}
	end, err := in.ReadU64()
	if err != nil {
		return BlockRange{}, err
	}
	return NewBlockRange(BlockID(begin), BlockID(end))
}

// MaxSize is a tagged Variant: 0 = Unlimited, 1 = Limit(bytes).
func (m MaxSize) Save(o *archive.Output) {
	if m.IsUnlimited() {
		o.WriteVariantTag(0)
		return
	}
	o.WriteVariantTag(1)
	o.WriteU64(uint64(m.bytes))
}
func LoadMaxSize(in *archive.Input) (MaxSize, error) {
	tag, err := in.ReadVariantTag()
	if err != nil {
		return MaxSize{}, err
	}
	if tag == 0 {
		return Unlimited(), nil
	}
	v, err := in.ReadU64()
	if err != nil {
		return MaxSize{}, err
	}
	return Limit(Size(v)), nil
}

func (c CollectionID) Save(o *archive.Output) { o.WriteTaggedString(string(c)) }
func LoadCollectionID(in *archive.Input) (CollectionID, error) {
	s, err := in.ReadTaggedString()
	return CollectionID(s), err
}
