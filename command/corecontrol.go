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
package command

import (
	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/storagekind"
)

// Core control command group: chunk.Description,
// file.Read, file.Write, segment.Create, segment.Remove, storage.Create,
// storage.Remove, storage.Size, storage.size.Max, storage.size.Used.

type ChunkDescriptionReq struct {
	Storage ids.StorageID
	Segment ids.SegmentID
	Access  core.Access
	Range   ids.Range
}

func (r ChunkDescriptionReq) Save(o *archive.Output) {
	r.Storage.Save(o)
	r.Segment.Save(o)
	o.WriteU8(uint8(r.Access))
	r.Range.Save(o)
}
func LoadChunkDescriptionReq(in *archive.Input) (ChunkDescriptionReq, error) {
	var r ChunkDescriptionReq
	var err error
	if r.Storage, err = ids.LoadStorageID(in); err != nil {
		return ChunkDescriptionReq{}, err
	}
	if r.Segment, err = ids.LoadSegmentID(in); err != nil {
		return ChunkDescriptionReq{}, err
	}
	a, err := in.ReadU8()
	if err != nil {
		return ChunkDescriptionReq{}, err
	}
	r.Access = core.Access(a)
	if r.Range, err = ids.LoadRange(in); err != nil {
		return ChunkDescriptionReq{}, err
	}
	return r, nil
}

type ChunkDescriptionResp struct{ Payload core.Payload }

func (r ChunkDescriptionResp) Save(o *archive.Output) {
	r.Payload.Kind().Save(o)
	r.Payload.Save(o)
}
func LoadChunkDescriptionResp(in *archive.Input) (ChunkDescriptionResp, error) {
	kind, err := core.LoadKind(in)
	if err != nil {
		return ChunkDescriptionResp{}, err
	}
	p, err := core.LoadPayload(in, kind)
	return ChunkDescriptionResp{p}, err
}

type fileTransferReq struct {
	Storage ids.StorageID
	Segment ids.SegmentID
	Offset  ids.Offset
	Path    string
	Range   ids.Range
}

func (r fileTransferReq) save(o *archive.Output) {
	r.Storage.Save(o)
	r.Segment.Save(o)
	r.Offset.Save(o)
	o.WriteTaggedString(r.Path)
	r.Range.Save(o)
}
func loadFileTransferReq(in *archive.Input) (fileTransferReq, error) {
	var r fileTransferReq
	var err error
	if r.Storage, err = ids.LoadStorageID(in); err != nil {
		return fileTransferReq{}, err
	}
	if r.Segment, err = ids.LoadSegmentID(in); err != nil {
		return fileTransferReq{}, err
	}
	if r.Offset, err = ids.LoadOffset(in); err != nil {
		return fileTransferReq{}, err
	}
	if r.Path, err = in.ReadTaggedString(); err != nil {
		return fileTransferReq{}, err
	}
	if r.Range, err = ids.LoadRange(in); err != nil {
		return fileTransferReq{}, err
	}
	return r, nil
}

type FileReadReq struct{ fileTransferReq }

func (r FileReadReq) Save(o *archive.Output) { r.save(o) }
func LoadFileReadReq(in *archive.Input) (FileReadReq, error) {
	r, err := loadFileTransferReq(in)
	return FileReadReq{r}, err
}

type FileWriteReq struct{ fileTransferReq }

func (r FileWriteReq) Save(o *archive.Output) { r.save(o) }
func LoadFileWriteReq(in *archive.Input) (FileWriteReq, error) {
	r, err := loadFileTransferReq(in)
	return FileWriteReq{r}, err
}

type FileTransferResp struct{ Bytes ids.Size }

func (r FileTransferResp) Save(o *archive.Output) { r.Bytes.Save(o) }
func LoadFileTransferResp(in *archive.Input) (FileTransferResp, error) {
	v, err := ids.LoadSize(in)
	return FileTransferResp{v}, err
}

type SegmentCreateReq struct {
	Storage  ids.StorageID
	Size     ids.Size
	OnRemove storagekind.OnRemove
}

func (r SegmentCreateReq) Save(o *archive.Output) {
	r.Storage.Save(o)
	r.Size.Save(o)
	o.WriteU8(uint8(r.OnRemove))
}
func LoadSegmentCreateReq(in *archive.Input) (SegmentCreateReq, error) {
	var r SegmentCreateReq
	var err error
	if r.Storage, err = ids.LoadStorageID(in); err != nil {
		return SegmentCreateReq{}, err
	}
	if r.Size, err = ids.LoadSize(in); err != nil {
		return SegmentCreateReq{}, err
	}
	v, err := in.ReadU8()
	if err != nil {
		return SegmentCreateReq{}, err
	}
	r.OnRemove = storagekind.OnRemove(v)
	return r, nil
}

type SegmentCreateResp struct{ Segment ids.SegmentID }

func (r SegmentCreateResp) Save(o *archive.Output) { r.Segment.Save(o) }
func LoadSegmentCreateResp(in *archive.Input) (SegmentCreateResp, error) {
	v, err := ids.LoadSegmentID(in)
	return SegmentCreateResp{v}, err
}

type SegmentRemoveReq struct {
	Storage ids.StorageID
	Segment ids.SegmentID
}

func (r SegmentRemoveReq) Save(o *archive.Output) {
	r.Storage.Save(o)
	r.Segment.Save(o)
}
func LoadSegmentRemoveReq(in *archive.Input) (SegmentRemoveReq, error) {
	var r SegmentRemoveReq
	var err error
	if r.Storage, err = ids.LoadStorageID(in); err != nil {
		return SegmentRemoveReq{}, err
	}
	if r.Segment, err = ids.LoadSegmentID(in); err != nil {
		return SegmentRemoveReq{}, err
	}
	return r, nil
}

type EmptyResp struct{}

func (EmptyResp) Save(*archive.Output) {}
func LoadEmptyResp(*archive.Input) (EmptyResp, error) { return EmptyResp{}, nil }

type StorageCreateReq struct {
	Kind      core.Kind
	Parameter core.Parameter
}

func (r StorageCreateReq) Save(o *archive.Output) {
	r.Kind.Save(o)
	r.Parameter.Save(o)
}
func LoadStorageCreateReq(in *archive.Input) (StorageCreateReq, error) {
	var r StorageCreateReq
	var err error
	if r.Kind, err = core.LoadKind(in); err != nil {
		return StorageCreateReq{}, err
	}
	if r.Parameter, err = core.LoadParameter(in); err != nil {
		return StorageCreateReq{}, err
	}
	return r, nil
}

type StorageCreateResp struct{ Storage ids.StorageID }

func (r StorageCreateResp) Save(o *archive.Output) { r.Storage.Save(o) }
func LoadStorageCreateResp(in *archive.Input) (StorageCreateResp, error) {
	v, err := ids.LoadStorageID(in)
	return StorageCreateResp{v}, err
}

type StorageIDReq struct{ Storage ids.StorageID }

func (r StorageIDReq) Save(o *archive.Output) { r.Storage.Save(o) }
func LoadStorageIDReq(in *archive.Input) (StorageIDReq, error) {
	v, err := ids.LoadStorageID(in)
	return StorageIDReq{v}, err
}

// StorageSizeResp answers storage.Size: both the configured cap and
// current usage in one round trip, a convenience the provider offers
// atop the separate size.Max/size.Used commands.
type StorageSizeResp struct {
	Max  ids.MaxSize
	Used ids.Size
}

func (r StorageSizeResp) Save(o *archive.Output) {
	r.Max.Save(o)
	r.Used.Save(o)
}
func LoadStorageSizeResp(in *archive.Input) (StorageSizeResp, error) {
	var r StorageSizeResp
	var err error
	if r.Max, err = ids.LoadMaxSize(in); err != nil {
		return StorageSizeResp{}, err
	}
	if r.Used, err = ids.LoadSize(in); err != nil {
		return StorageSizeResp{}, err
	}
	return r, nil
}

type StorageSizeMaxResp struct{ Max ids.MaxSize }

func (r StorageSizeMaxResp) Save(o *archive.Output) { r.Max.Save(o) }
func LoadStorageSizeMaxResp(in *archive.Input) (StorageSizeMaxResp, error) {
	v, err := ids.LoadMaxSize(in)
	return StorageSizeMaxResp{v}, err
}

type StorageSizeUsedResp struct{ Used ids.Size }

func (r StorageSizeUsedResp) Save(o *archive.Output) { r.Used.Save(o) }
func LoadStorageSizeUsedResp(in *archive.Input) (StorageSizeUsedResp, error) {
	v, err := ids.LoadSize(in)
	return StorageSizeUsedResp{v}, err
}
