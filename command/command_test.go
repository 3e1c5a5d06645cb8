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
	"reflect"
	"testing"

	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/ids"
)

func TestDefaultListAssignsStableSequentialIDs(t *testing.T) {
	list := Default()
	names := list.Handshake()
	if len(names) != list.Len() {
		t.Fatalf("Handshake length %d != Len() %d", len(names), list.Len())
	}
	for i, name := range names {
		id, ok := list.ID(name)
		if !ok {
			t.Fatalf("ID(%q) not found", name)
		}
		if int(id) != i {
			t.Fatalf("ID(%q) = %d, want %d (its position)", name, id, i)
		}
		spec, ok := list.Spec(id)
		if !ok || spec.Name != name {
			t.Fatalf("Spec(%d) = %+v, want name %q", id, spec, name)
		}
	}
}

func TestDefaultListNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range Default().Handshake() {
		if seen[name] {
			t.Fatalf("duplicate command name %q", name)
		}
		seen[name] = true
	}
}

func TestHandshakeMatchesIsOwnSupersetOfItself(t *testing.T) {
	fp := Default().Handshake()
	if !HandshakeMatches(fp, fp) {
		t.Fatal("a list's own handshake must match itself")
	}
}

func TestSpecEncodeDecodeRoundTripsThroughTheList(t *testing.T) {
	list := Default()
	id, ok := list.ID("storage.Create")
	if !ok {
		t.Fatal("storage.Create not registered")
	}
	spec, ok := list.Spec(id)
	if !ok {
		t.Fatal("Spec lookup failed")
	}

	req := StorageCreateReq{Kind: core.KindHeap, Parameter: core.Parameter("max_size=")}
	o := archive.NewOutput(32)
	spec.EncodeReq(req, o)
	got, err := spec.DecodeReq(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("DecodeReq: %v", err)
	}
	if !reflect.DeepEqual(got.(StorageCreateReq), req) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
}

func TestChunkDescriptionReqRoundTrip(t *testing.T) {
	want := ChunkDescriptionReq{
		Storage: 7,
		Segment: 9,
		Access:  core.AccessMutable,
		Range:   ids.Range{Begin: 0, End: 128},
	}
	o := archive.NewOutput(32)
	want.Save(o)
	got, err := LoadChunkDescriptionReq(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadChunkDescriptionReq: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestPutReqRoundTripWithInlinePayload(t *testing.T) {
	want := PutReq{
		bulkAddress: bulkAddress{Storage: 1, Parameter: core.Parameter("p"), Segment: 2, Offset: 3},
		Size:        4,
		Inline:      []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	o := archive.NewOutput(32)
	want.Save(o)
	got, err := LoadPutReq(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadPutReq: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestPutReqRoundTripWithoutInlinePayload(t *testing.T) {
	want := PutReq{
		bulkAddress: bulkAddress{Storage: 1, Parameter: core.Parameter("p"), Segment: 2, Offset: 3},
		Size:        4,
	}
	o := archive.NewOutput(32)
	want.Save(o)
	got, err := LoadPutReq(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadPutReq: %v", err)
	}
	if got.Inline != nil {
		t.Fatalf("Inline = %v, want nil for a non-inline Put", got.Inline)
	}
}

func TestLocationsRespRoundTripWithMultipleSpans(t *testing.T) {
	want := LocationsResp{Locations: []Location{
		{Range: ids.Range{Begin: 0, End: 16}, Endpoint: core.Endpoint{Network: "tcp", Address: "a:1"}, Kind: core.KindHeap},
		{Range: ids.Range{Begin: 16, End: 32}, Endpoint: core.Endpoint{Network: "tcp", Address: "b:2"}, Kind: core.KindFiles},
	}}
	o := archive.NewOutput(64)
	want.Save(o)
	got, err := LoadLocationsResp(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadLocationsResp: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLocationsRespRoundTripEmpty(t *testing.T) {
	want := LocationsResp{}
	o := archive.NewOutput(8)
	want.Save(o)
	got, err := LoadLocationsResp(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadLocationsResp: %v", err)
	}
	if len(got.Locations) != 0 {
		t.Fatalf("Locations = %v, want empty", got.Locations)
	}
}

func TestStateRespRoundTrip(t *testing.T) {
	want := StateResp{
		Storages:    []core.Storage{{StorageID: 1, Kind: core.KindHeap}},
		Collections: []ids.CollectionID{"a", "b"},
	}
	o := archive.NewOutput(32)
	want.Save(o)
	got, err := LoadStateResp(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadStateResp: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestAttachConstRespRoundTrip(t *testing.T) {
	want := AttachConstResp{Chunk: core.ConstChunk{
		Endpoint:  core.Endpoint{Network: "tcp", Address: "x:1"},
		StorageID: 5,
		Kind:      core.KindHeap,
		Segment:   6,
		Payload:   core.HeapPayload{},
	}}
	o := archive.NewOutput(32)
	want.Save(o)
	got, err := LoadAttachConstResp(archive.NewInput(o.Bytes()))
	if err != nil {
		t.Fatalf("LoadAttachConstResp: %v", err)
	}
	if got.Chunk.StorageID != want.Chunk.StorageID || got.Chunk.Segment != want.Chunk.Segment {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
