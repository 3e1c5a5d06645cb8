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
package server

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/mcsproject/mcs/accesspolicy"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/rpc"
	"github.com/mcsproject/mcs/storagekind"
)

func dial(t *testing.T) (*Server, *rpc.Client) {
	t.Helper()
	srv := New(4096, core.Endpoint{Network: "tcp", Address: "localhost:9100"}, core.KindHeap, nil)

	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { serverConn.Close(); clientConn.Close() })
	go rpc.ServeConn(srv.Dispatcher, serverConn)

	client, err := rpc.NewClient(clientConn, command.Default(), accesspolicy.NewConcurrent())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return srv, client
}

func heapParam(t *testing.T) core.Parameter {
	t.Helper()
	b, err := json.Marshal(storagekind.HeapCreateParams{MaxSize: ""})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return core.Parameter(b)
}

func TestBlockSizeEchoesConfiguredSize(t *testing.T) {
	_, client := dial(t)
	resp, err := rpc.Call[command.BlockSizeReq, command.BlockSizeResp](client, "BlockSize", command.BlockSizeReq{})
	if err != nil {
		t.Fatalf("Call BlockSize: %v", err)
	}
	if resp.Value != 4096 {
		t.Fatalf("BlockSize = %d, want 4096", resp.Value)
	}
}

func TestStorageCreateSegmentAndChunkDescription(t *testing.T) {
	_, client := dial(t)

	createResp, err := rpc.Call[command.StorageCreateReq, command.StorageCreateResp](
		client, "storage.Create", command.StorageCreateReq{Kind: core.KindHeap, Parameter: heapParam(t)})
	if err != nil {
		t.Fatalf("Call storage.Create: %v", err)
	}

	segResp, err := rpc.Call[command.SegmentCreateReq, command.SegmentCreateResp](
		client, "segment.Create", command.SegmentCreateReq{Storage: createResp.Storage, Size: 64})
	if err != nil {
		t.Fatalf("Call segment.Create: %v", err)
	}

	descResp, err := rpc.Call[command.ChunkDescriptionReq, command.ChunkDescriptionResp](
		client, "chunk.Description", command.ChunkDescriptionReq{
			Storage: createResp.Storage,
			Segment: segResp.Segment,
			Access:  core.AccessMutable,
			Range:   ids.Range{Begin: 0, End: 64},
		})
	if err != nil {
		t.Fatalf("Call chunk.Description: %v", err)
	}
	if descResp.Payload == nil {
		t.Fatalf("chunk.Description returned nil payload")
	}
}

func TestShareCreateAttachAndRemoveLifecycle(t *testing.T) {
	_, client := dial(t)

	createResp, err := rpc.Call[command.ShareCreateReq, command.ShareCreateResp](
		client, "share.Create", command.ShareCreateReq{Size: 32, Parameter: heapParam(t)})
	if err != nil {
		t.Fatalf("Call share.Create: %v", err)
	}

	attachResp, err := rpc.Call[command.AttachReq, command.AttachConstResp](
		client, "Attach<Const>", command.AttachReq{Descriptor: createResp.Descriptor})
	if err != nil {
		t.Fatalf("Call Attach<Const>: %v", err)
	}
	if attachResp.Chunk.StorageID != createResp.Descriptor.StorageID {
		t.Fatalf("attached chunk storage = %v, want %v", attachResp.Chunk.StorageID, createResp.Descriptor.StorageID)
	}

	if _, err := rpc.Call[command.ShareRemoveReq, command.EmptyResp](
		client, "share.Remove", command.ShareRemoveReq{Descriptor: createResp.Descriptor}); err == nil {
		t.Fatalf("share.Remove while attached succeeded, want StillAttached failure")
	}
}

func TestBlockDeviceAddAndLocate(t *testing.T) {
	_, client := dial(t)

	createResp, err := rpc.Call[command.StorageCreateReq, command.StorageCreateResp](
		client, "storage.Create", command.StorageCreateReq{Kind: core.KindHeap, Parameter: heapParam(t)})
	if err != nil {
		t.Fatalf("Call storage.Create: %v", err)
	}

	storage := core.Storage{
		Endpoint:  core.Endpoint{Network: "tcp", Address: "localhost:9100"},
		StorageID: createResp.Storage,
		Kind:      core.KindHeap,
		Range:     ids.Range{Begin: 0, End: 4096 * 8},
	}
	addResp, err := rpc.Call[command.AddReq, command.AddResp](client, "blockdevice.Add", command.AddReq{Storage: storage})
	if err != nil {
		t.Fatalf("Call blockdevice.Add: %v", err)
	}
	if addResp.Range.Length() != 8 {
		t.Fatalf("added block range length = %d, want 8", addResp.Range.Length())
	}

	locResp, err := rpc.Call[command.LocationReq, command.LocationResp](
		client, "Location", command.LocationReq{Block: addResp.Range.Begin})
	if err != nil {
		t.Fatalf("Call Location: %v", err)
	}
	if locResp.Storage.StorageID != createResp.Storage {
		t.Fatalf("located storage = %v, want %v", locResp.Storage.StorageID, createResp.Storage)
	}
}

func TestIOVCollectionLifecycle(t *testing.T) {
	_, client := dial(t)

	createResp, err := rpc.Call[command.StorageCreateReq, command.StorageCreateResp](
		client, "storage.Create", command.StorageCreateReq{Kind: core.KindHeap, Parameter: heapParam(t)})
	if err != nil {
		t.Fatalf("Call storage.Create: %v", err)
	}

	storage := core.Storage{
		Endpoint:  core.Endpoint{Network: "tcp", Address: "localhost:9100"},
		StorageID: createResp.Storage,
		Kind:      core.KindHeap,
		Range:     ids.Range{Begin: 0, End: 128},
	}
	addResp, err := rpc.Call[command.StorageAddReq, command.StorageAddResp](client, "iov.storage.Add", command.StorageAddReq{Storage: storage})
	if err != nil {
		t.Fatalf("Call iov.storage.Add: %v", err)
	}
	_ = addResp

	collID := ids.CollectionID("1")
	if _, err := rpc.Call[command.CollectionCreateReq, command.CollectionCreateResp](
		client, "collection.Create", command.CollectionCreateReq{Collection: collID, Size: 64}); err != nil {
		t.Fatalf("Call collection.Create: %v", err)
	}

	locsResp, err := rpc.Call[command.LocationsReq, command.LocationsResp](
		client, "iov.Locations", command.LocationsReq{Collection: collID, Range: ids.Range{Begin: 0, End: 64}})
	if err != nil {
		t.Fatalf("Call iov.Locations: %v", err)
	}
	if len(locsResp.Locations) == 0 {
		t.Fatalf("iov.Locations returned no spans for a freshly created collection")
	}

	if _, err := rpc.Call[command.CollectionDeleteReq, command.EmptyResp](
		client, "collection.Delete", command.CollectionDeleteReq{Collection: collID}); err != nil {
		t.Fatalf("Call collection.Delete: %v", err)
	}

	stateResp, err := rpc.Call[command.StateReq, command.StateResp](client, "iov.State", command.StateReq{})
	if err != nil {
		t.Fatalf("Call iov.State: %v", err)
	}
	for _, c := range stateResp.Collections {
		if c == collID {
			t.Fatalf("deleted collection %v still present in State", collID)
		}
	}
}
