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
)

// Share service command group: Attach<Const>,
// Attach<Mutable>, Create, Remove.

type AttachReq struct{ Descriptor core.ShareDescriptor }

func (r AttachReq) Save(o *archive.Output) { r.Descriptor.Save(o) }
func LoadAttachReq(in *archive.Input) (AttachReq, error) {
	d, err := core.LoadShareDescriptor(in)
	return AttachReq{d}, err
}

type AttachConstResp struct{ Chunk core.ConstChunk }

func (r AttachConstResp) Save(o *archive.Output) { saveChunk(o, r.Chunk) }
func LoadAttachConstResp(in *archive.Input) (AttachConstResp, error) {
	c, err := loadConstChunk(in)
	return AttachConstResp{c}, err
}

type AttachMutableResp struct{ Chunk core.MutableChunk }

func (r AttachMutableResp) Save(o *archive.Output) { saveChunk(o, r.Chunk) }
func LoadAttachMutableResp(in *archive.Input) (AttachMutableResp, error) {
	c, err := loadMutableChunk(in)
	return AttachMutableResp{c}, err
}

func saveChunk[A core.AccessTag](o *archive.Output, c core.Chunk[A]) {
	c.Endpoint.Save(o)
	c.StorageID.Save(o)
	c.Kind.Save(o)
	c.Segment.Save(o)
	c.Payload.Kind().Save(o)
	c.Payload.Save(o)
}

func loadConstChunk(in *archive.Input) (core.ConstChunk, error) {
	var c core.ConstChunk
	var err error
	if c.Endpoint, err = core.LoadEndpoint(in); err != nil {
		return core.ConstChunk{}, err
	}
	if c.StorageID, err = ids.LoadStorageID(in); err != nil {
		return core.ConstChunk{}, err
	}
	if c.Kind, err = core.LoadKind(in); err != nil {
		return core.ConstChunk{}, err
	}
	if c.Segment, err = ids.LoadSegmentID(in); err != nil {
		return core.ConstChunk{}, err
	}
	payloadKind, err := core.LoadKind(in)
	if err != nil {
		return core.ConstChunk{}, err
	}
	if c.Payload, err = core.LoadPayload(in, payloadKind); err != nil {
		return core.ConstChunk{}, err
	}
	return c, nil
}

func loadMutableChunk(in *archive.Input) (core.MutableChunk, error) {
	c, err := loadConstChunk(in)
	if err != nil {
		return core.MutableChunk{}, err
	}
	return core.MutableChunk{
		Endpoint:  c.Endpoint,
		StorageID: c.StorageID,
		Kind:      c.Kind,
		Segment:   c.Segment,
		Payload:   c.Payload,
	}, nil
}

type ShareCreateReq struct {
	Size      ids.Size
	Parameter core.Parameter
}

func (r ShareCreateReq) Save(o *archive.Output) {
	r.Size.Save(o)
	r.Parameter.Save(o)
}
func LoadShareCreateReq(in *archive.Input) (ShareCreateReq, error) {
	var r ShareCreateReq
	var err error
	if r.Size, err = ids.LoadSize(in); err != nil {
		return ShareCreateReq{}, err
	}
	if r.Parameter, err = core.LoadParameter(in); err != nil {
		return ShareCreateReq{}, err
	}
	return r, nil
}

type ShareCreateResp struct{ Descriptor core.ShareDescriptor }

func (r ShareCreateResp) Save(o *archive.Output) { r.Descriptor.Save(o) }
func LoadShareCreateResp(in *archive.Input) (ShareCreateResp, error) {
	d, err := core.LoadShareDescriptor(in)
	return ShareCreateResp{d}, err
}

type ShareRemoveReq struct{ Descriptor core.ShareDescriptor }

func (r ShareRemoveReq) Save(o *archive.Output) { r.Descriptor.Save(o) }
func LoadShareRemoveReq(in *archive.Input) (ShareRemoveReq, error) {
	d, err := core.LoadShareDescriptor(in)
	return ShareRemoveReq{d}, err
}
