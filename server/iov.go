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
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/iov"
	"github.com/mcsproject/mcs/rpc"
)

func registerIOV(d *rpc.Dispatcher, v *iov.IOV) {
	rpc.HandleTyped(d, "iov.Range", func(req command.CollectionIDReq) (command.RangeResp, error) {
		r, err := v.Range(req.Collection)
		if err != nil {
			return command.RangeResp{}, err
		}
		return command.RangeResp{Range: r}, nil
	})
	rpc.HandleTyped(d, "iov.Locations", func(req command.LocationsReq) (command.LocationsResp, error) {
		locs, err := v.Locations(req.Collection, req.Range)
		if err != nil {
			return command.LocationsResp{}, err
		}
		return command.LocationsResp{Locations: toCommandLocations(locs)}, nil
	})
	rpc.HandleTyped(d, "iov.State", func(command.StateReq) (command.StateResp, error) {
		return toCommandState(v.State()), nil
	})
	rpc.HandleTyped(d, "collection.Append", func(req command.CollectionAppendReq) (command.CollectionAppendResp, error) {
		added, err := v.CollectionAppend(req.Collection, req.Length)
		if err != nil {
			return command.CollectionAppendResp{}, err
		}
		return command.CollectionAppendResp{Added: added}, nil
	})
	rpc.HandleTyped(d, "collection.Create", func(req command.CollectionCreateReq) (command.CollectionCreateResp, error) {
		used, err := v.CollectionCreate(req.Collection, req.Size)
		if err != nil {
			return command.CollectionCreateResp{}, err
		}
		return command.CollectionCreateResp{Used: used}, nil
	})
	rpc.HandleTyped(d, "collection.Delete", func(req command.CollectionDeleteReq) (command.EmptyResp, error) {
		return command.EmptyResp{}, v.CollectionDelete(req.Collection)
	})
	rpc.HandleTyped(d, "iov.storage.Add", func(req command.StorageAddReq) (command.StorageAddResp, error) {
		return command.StorageAddResp{ID: v.StorageAdd(req.Storage)}, nil
	})
}

// toCommandLocations converts the iov backend's resolved spans into the
// wire-level command.Location shape: same fields, distinct type so iov
// stays free of the archive-serialization concern.
func toCommandLocations(locs []iov.Location) []command.Location {
	out := make([]command.Location, len(locs))
	for i, l := range locs {
		out[i] = command.Location{
			Range:        l.Range,
			Endpoint:     l.Endpoint,
			Kind:         l.Kind,
			FileParam:    l.FileParam,
			BulkEndpoint: l.BulkEndpoint,
			BulkAddress:  l.BulkAddress,
		}
	}
	return out
}

func toCommandState(s iov.State) command.StateResp {
	return command.StateResp{
		Storages:    append([]core.Storage(nil), s.Storages...),
		Collections: s.Collections,
	}
}
