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

// Package bulk implements the ASIO bulk transport: Get/Put against a
// (StorageID, StorageParameter, SegmentID, Offset) address, carried on a
// channel separate from command/rpc's control frames — the caller
// supplies a destination buffer as a pre-arranged side channel,
// out-of-band with the command. Multiple operations on the same address
// are not mutually ordered by this package; serialize them at the
// caller if ordering matters.
package bulk

import (
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/provider"
)

// Address identifies one byte range for Get/Put.
type Address struct {
	Storage   ids.StorageID
	Parameter core.Parameter
	Segment   ids.SegmentID
	Offset    ids.Offset
}

// Store is what one bulk endpoint reads and writes against.
type Store interface {
	// Get returns up to size bytes at the address. Fewer bytes than size
	// is reported via *errs.CouldNotReadAllData, alongside the bytes
	// actually read.
	Get(addr Address, size ids.Size) ([]byte, error)

	// Put writes data at the address, returning the number of bytes
	// accepted.
	Put(addr Address, data []byte) (ids.Size, error)
}

// ProviderStore adapts a provider.Provider's storage table to Store, the
// backend every in-process bulk.Server serves.
type ProviderStore struct {
	Provider *provider.Provider
}

func (s ProviderStore) Get(addr Address, size ids.Size) ([]byte, error) {
	data, err := s.Provider.BulkGet(addr.Storage, addr.Segment, addr.Offset, size)
	if err != nil {
		return nil, err
	}
	if ids.Size(len(data)) < size {
		return data, &errs.CouldNotReadAllData{Wanted: int64(size), Got: int64(len(data))}
	}
	return data, nil
}

func (s ProviderStore) Put(addr Address, data []byte) (ids.Size, error) {
	return s.Provider.BulkPut(addr.Storage, addr.Segment, addr.Offset, data)
}
