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

// Package provider owns the storage table a core-control dispatcher serves
// out of: StorageID -> storagekind.Instance. The Provider traces every
// call itself; quota enforcement is left to the owning Instance.
package provider

import (
	"sync"
	"sync/atomic"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/storagekind"
)

type storageEntry struct {
	instance storagekind.Instance
	kind     core.Kind
	param    core.Parameter
}

// Provider is the process-wide storage table. One Provider serves every
// core-control command a connected client issues.
type Provider struct {
	mu      sync.RWMutex
	next    uint64
	storage map[ids.StorageID]*storageEntry
	tracer  Tracer
}

// New constructs an empty Provider. A nil tracer is replaced with
// NoopTracer so callers never nil-check.
func New(tracer Tracer) *Provider {
	if tracer == nil {
		tracer = NoopTracer{}
	}
	return &Provider{
		storage: make(map[ids.StorageID]*storageEntry),
		tracer:  tracer,
	}
}

func (p *Provider) trace(op, tag string, data interface{}) {
	p.tracer.Trace(Event{Op: op, Tag: tag, Data: data})
}

// Create allocates a fresh storage of the given kind from createParam,
// trace-logged as "Create".
func (p *Provider) Create(kind core.Kind, createParam core.Parameter) (ids.StorageID, error) {
	p.trace("Create", "call", map[string]interface{}{"kind": kind.String()})
	inst, err := storagekind.Create(kind, createParam)
	if err != nil {
		p.trace("Create", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}

	id := ids.StorageID(atomic.AddUint64(&p.next, 1))
	p.mu.Lock()
	p.storage[id] = &storageEntry{instance: inst, kind: kind, param: createParam}
	p.mu.Unlock()

	p.trace("Create", "result", map[string]interface{}{"storage_id": uint64(id)})
	return id, nil
}

func (p *Provider) lookup(id ids.StorageID) (*storageEntry, error) {
	p.mu.RLock()
	e, ok := p.storage[id]
	p.mu.RUnlock()
	if !ok {
		return nil, errs.ErrUnknownStorage
	}
	return e, nil
}

// Destruct tears down a storage and removes it from the table. Every
// live segment is released via Instance.Destroy.
func (p *Provider) Destruct(id ids.StorageID) error {
	p.trace("Destruct", "call", map[string]interface{}{"storage_id": uint64(id)})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("Destruct", "result", map[string]interface{}{"error": err.Error()})
		return err
	}
	e.instance.Destroy()
	p.mu.Lock()
	delete(p.storage, id)
	p.mu.Unlock()
	p.trace("Destruct", "result", nil)
	return nil
}

// SizeMax reports the storage's configured quota.
func (p *Provider) SizeMax(id ids.StorageID) (ids.MaxSize, error) {
	e, err := p.lookup(id)
	if err != nil {
		return ids.MaxSize{}, err
	}
	m := e.instance.SizeMax()
	p.trace("size.Max", "result", map[string]interface{}{"storage_id": uint64(id), "unlimited": m.IsUnlimited()})
	return m, nil
}

// SizeUsed reports bytes currently reserved by live segments.
func (p *Provider) SizeUsed(id ids.StorageID) (ids.Size, error) {
	e, err := p.lookup(id)
	if err != nil {
		return 0, err
	}
	u := e.instance.SizeUsed()
	p.trace("size.Used", "result", map[string]interface{}{"storage_id": uint64(id), "used": uint64(u)})
	return u, nil
}

// CreateSegment allocates a segment within storage id.
func (p *Provider) CreateSegment(id ids.StorageID, size ids.Size, onRemove storagekind.OnRemove) (ids.SegmentID, error) {
	p.trace("segment.Create", "call", map[string]interface{}{"storage_id": uint64(id), "size": uint64(size)})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("segment.Create", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}
	seg, err := e.instance.CreateSegment(size, onRemove)
	if err != nil {
		p.trace("segment.Create", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}
	p.trace("segment.Create", "result", map[string]interface{}{"segment_id": uint64(seg)})
	return seg, nil
}

// RemoveSegment destroys a segment within storage id.
func (p *Provider) RemoveSegment(id ids.StorageID, seg ids.SegmentID) error {
	p.trace("segment.Remove", "call", map[string]interface{}{"storage_id": uint64(id), "segment_id": uint64(seg)})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("segment.Remove", "result", map[string]interface{}{"error": err.Error()})
		return err
	}
	err = e.instance.RemoveSegment(seg)
	if err != nil {
		p.trace("segment.Remove", "result", map[string]interface{}{"error": err.Error()})
		return err
	}
	p.trace("segment.Remove", "result", nil)
	return nil
}

// ChunkDescription resolves the kind-specific payload for a byte range in a
// live segment.
func (p *Provider) ChunkDescription(id ids.StorageID, seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error) {
	p.trace("chunk.Description", "call", map[string]interface{}{"storage_id": uint64(id), "segment_id": uint64(seg), "access": access.String()})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("chunk.Description", "result", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	payload, err := e.instance.Description(seg, access, r)
	if err != nil {
		p.trace("chunk.Description", "result", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	p.trace("chunk.Description", "result", nil)
	return payload, nil
}

// FileRead copies bytes from an external path into a segment.
func (p *Provider) FileRead(id ids.StorageID, seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	p.trace("file.Read", "call", map[string]interface{}{"storage_id": uint64(id), "segment_id": uint64(seg), "path": path})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("file.Read", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}
	n, err := e.instance.ReadFile(seg, offset, path, r)
	if err != nil {
		p.trace("file.Read", "result", map[string]interface{}{"error": err.Error()})
		return n, err
	}
	p.trace("file.Read", "result", map[string]interface{}{"bytes": uint64(n)})
	return n, nil
}

// FileWrite copies bytes from a segment out to an external path.
func (p *Provider) FileWrite(id ids.StorageID, seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	p.trace("file.Write", "call", map[string]interface{}{"storage_id": uint64(id), "segment_id": uint64(seg), "path": path})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("file.Write", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}
	n, err := e.instance.WriteFile(seg, offset, path, r)
	if err != nil {
		p.trace("file.Write", "result", map[string]interface{}{"error": err.Error()})
		return n, err
	}
	p.trace("file.Write", "result", map[string]interface{}{"bytes": uint64(n)})
	return n, nil
}

// BulkGet reads size bytes at offset within segment seg of storage id,
// for the bulk/ASIO transport's Get. Fails with
// errs.ErrUnsupportedOperation if the storage kind has no flat
// addressable byte range (storagekind.RawIO).
func (p *Provider) BulkGet(id ids.StorageID, seg ids.SegmentID, offset ids.Offset, size ids.Size) ([]byte, error) {
	p.trace("bulk.Get", "call", map[string]interface{}{"storage_id": uint64(id), "segment_id": uint64(seg), "size": uint64(size)})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("bulk.Get", "result", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	raw, ok := e.instance.(storagekind.RawIO)
	if !ok {
		p.trace("bulk.Get", "result", map[string]interface{}{"error": errs.ErrUnsupportedOperation.Error()})
		return nil, errs.ErrUnsupportedOperation
	}
	data, err := raw.ReadAt(seg, offset, size)
	if err != nil {
		p.trace("bulk.Get", "result", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	p.trace("bulk.Get", "result", map[string]interface{}{"bytes": uint64(len(data))})
	return data, nil
}

// BulkPut writes data at offset within segment seg of storage id, for
// the bulk/ASIO transport's Put.
func (p *Provider) BulkPut(id ids.StorageID, seg ids.SegmentID, offset ids.Offset, data []byte) (ids.Size, error) {
	p.trace("bulk.Put", "call", map[string]interface{}{"storage_id": uint64(id), "segment_id": uint64(seg), "size": uint64(len(data))})
	e, err := p.lookup(id)
	if err != nil {
		p.trace("bulk.Put", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}
	raw, ok := e.instance.(storagekind.RawIO)
	if !ok {
		p.trace("bulk.Put", "result", map[string]interface{}{"error": errs.ErrUnsupportedOperation.Error()})
		return 0, errs.ErrUnsupportedOperation
	}
	n, err := raw.WriteAt(seg, offset, data)
	if err != nil {
		p.trace("bulk.Put", "result", map[string]interface{}{"error": err.Error()})
		return 0, err
	}
	p.trace("bulk.Put", "result", map[string]interface{}{"bytes": uint64(n)})
	return n, nil
}

// Descriptor returns the transferable core.Storage for id (used by the
// bulk/ASIO path and by share.Create).
func (p *Provider) Descriptor(id ids.StorageID, endpoint core.Endpoint, seg ids.SegmentID, r ids.Range) (core.Storage, error) {
	e, err := p.lookup(id)
	if err != nil {
		return core.Storage{}, err
	}
	return core.Storage{
		Endpoint:  endpoint,
		StorageID: id,
		Kind:      e.kind,
		Parameter: e.param,
		Segment:   seg,
		Range:     r,
	}, nil
}
