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
package bulk

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"testing"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/provider"
	"github.com/mcsproject/mcs/storagekind"
)

func heapStorage(t *testing.T, p *provider.Provider, size ids.Size) (ids.StorageID, ids.SegmentID) {
	t.Helper()
	params, err := json.Marshal(storagekind.HeapCreateParams{MaxSize: ""})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	id, err := p.Create(core.KindHeap, core.Parameter(params))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	seg, err := p.CreateSegment(id, size, storagekind.OnRemoveDefault)
	if err != nil {
		t.Fatalf("CreateSegment: %v", err)
	}
	return id, seg
}

func TestPutThenGetRoundTrip(t *testing.T) {
	p := provider.New(nil)
	id, seg := heapStorage(t, p, 64)

	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	srv := &Server{Store: ProviderStore{Provider: p}}
	go ServeConn(srv, serverConn)

	addr := Address{Storage: id, Segment: seg, Offset: 0}
	payload := []byte("hello, bulk transport")
	n, err := Put(clientConn, addr, payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if int(n) != len(payload) {
		t.Fatalf("Put accepted %d bytes, want %d", n, len(payload))
	}

	got, err := Get(clientConn, addr, ids.Size(len(payload)))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Get = %q, want %q", got, payload)
	}
}

func TestGetShortReadFailsWithCouldNotReadAllData(t *testing.T) {
	p := provider.New(nil)
	id, seg := heapStorage(t, p, 8)

	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	srv := &Server{Store: ProviderStore{Provider: p}}
	go ServeConn(srv, serverConn)

	addr := Address{Storage: id, Segment: seg, Offset: 0}
	_, err := Get(clientConn, addr, 64)
	var he *errs.HandlerError
	if !errors.As(err, &he) {
		t.Fatalf("expected *errs.HandlerError wrapping CouldNotReadAllData, got %v", err)
	}
}

func TestGetUnknownStorageFails(t *testing.T) {
	p := provider.New(nil)

	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	srv := &Server{Store: ProviderStore{Provider: p}}
	go ServeConn(srv, serverConn)

	addr := Address{Storage: 999, Segment: 1, Offset: 0}
	_, err := Get(clientConn, addr, 16)
	if err == nil {
		t.Fatal("expected error for unknown storage")
	}
}

func TestProviderBulkGetUnknownStorageFails(t *testing.T) {
	// Provider-level BulkGet on a storage id that was never created fails
	// with ErrUnknownStorage before any RawIO type assertion is made.
	p := provider.New(nil)
	_, err := p.BulkGet(999, 1, 0, 16)
	if !errors.Is(err, errs.ErrUnknownStorage) {
		t.Fatalf("BulkGet on unknown storage = %v, want ErrUnknownStorage", err)
	}
}
