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

// IOV backend command group: Range, Locations, State,
// collection.Append, collection.Create, collection.Delete, storage.Add.

type CollectionIDReq struct{ Collection ids.CollectionID }

func (r CollectionIDReq) Save(o *archive.Output) { r.Collection.Save(o) }
func LoadCollectionIDReq(in *archive.Input) (CollectionIDReq, error) {
	v, err := ids.LoadCollectionID(in)
	return CollectionIDReq{v}, err
}

type RangeResp struct{ Range ids.Range }

func (r RangeResp) Save(o *archive.Output) { r.Range.Save(o) }
func LoadRangeResp(in *archive.Input) (RangeResp, error) {
	v, err := ids.LoadRange(in)
	return RangeResp{v}, err
}

type LocationsReq struct {
	Collection ids.CollectionID
	Range      ids.Range
}

func (r LocationsReq) Save(o *archive.Output) {
	r.Collection.Save(o)
	r.Range.Save(o)
}
func LoadLocationsReq(in *archive.Input) (LocationsReq, error) {
	var r LocationsReq
	var err error
	if r.Collection, err = ids.LoadCollectionID(in); err != nil {
		return LocationsReq{}, err
	}
	if r.Range, err = ids.LoadRange(in); err != nil {
		return LocationsReq{}, err
	}
	return r, nil
}

// Location is one segment of a Locations response: the byte
// range it covers, the provider endpoint for file I/O and for bulk
// transport, the storage-implementation tag, and the file.read/write
// parameter bundle for that range's backing storage.
type Location struct {
	Range        ids.Range
	Endpoint     core.Endpoint
	Kind         core.Kind
	FileParam    core.Parameter
	BulkEndpoint core.Endpoint
	BulkAddress  core.Storage
}

func (l Location) save(o *archive.Output) {
	l.Range.Save(o)
	l.Endpoint.Save(o)
	l.Kind.Save(o)
	l.FileParam.Save(o)
	l.BulkEndpoint.Save(o)
	l.BulkAddress.Save(o)
}

func loadLocation(in *archive.Input) (Location, error) {
	var l Location
	var err error
	if l.Range, err = ids.LoadRange(in); err != nil {
		return Location{}, err
	}
	if l.Endpoint, err = core.LoadEndpoint(in); err != nil {
		return Location{}, err
	}
	if l.Kind, err = core.LoadKind(in); err != nil {
		return Location{}, err
	}
	if l.FileParam, err = core.LoadParameter(in); err != nil {
		return Location{}, err
	}
	if l.BulkEndpoint, err = core.LoadEndpoint(in); err != nil {
		return Location{}, err
	}
	if l.BulkAddress, err = core.LoadStorage(in); err != nil {
		return Location{}, err
	}
	return l, nil
}

// LocationsResp is empty when the requested range lies outside the
// collection.
type LocationsResp struct{ Locations []Location }

func (r LocationsResp) Save(o *archive.Output) {
	archive.WriteVector(o, len(r.Locations), func(i int) { r.Locations[i].save(o) })
}
func LoadLocationsResp(in *archive.Input) (LocationsResp, error) {
	var r LocationsResp
	_, err := archive.ReadVector(in, func(i int) error {
		l, err := loadLocation(in)
		if err != nil {
			return err
		}
		r.Locations = append(r.Locations, l)
		return nil
	})
	return r, err
}

type StateReq struct{}

func (StateReq) Save(*archive.Output) {}
func LoadStateReq(*archive.Input) (StateReq, error) { return StateReq{}, nil }

// StateResp is the diagnostic snapshot {storages, collections}.
type StateResp struct {
	Storages    []core.Storage
	Collections []ids.CollectionID
}

func (r StateResp) Save(o *archive.Output) {
	archive.WriteVector(o, len(r.Storages), func(i int) { r.Storages[i].Save(o) })
	archive.WriteVector(o, len(r.Collections), func(i int) { r.Collections[i].Save(o) })
}
func LoadStateResp(in *archive.Input) (StateResp, error) {
	var r StateResp
	if _, err := archive.ReadVector(in, func(i int) error {
		s, err := core.LoadStorage(in)
		if err != nil {
			return err
		}
		r.Storages = append(r.Storages, s)
		return nil
	}); err != nil {
		return StateResp{}, err
	}
	if _, err := archive.ReadVector(in, func(i int) error {
		c, err := ids.LoadCollectionID(in)
		if err != nil {
			return err
		}
		r.Collections = append(r.Collections, c)
		return nil
	}); err != nil {
		return StateResp{}, err
	}
	return r, nil
}

type CollectionAppendReq struct {
	Collection ids.CollectionID
	Length     ids.Size
}

func (r CollectionAppendReq) Save(o *archive.Output) {
	r.Collection.Save(o)
	r.Length.Save(o)
}
func LoadCollectionAppendReq(in *archive.Input) (CollectionAppendReq, error) {
	var r CollectionAppendReq
	var err error
	if r.Collection, err = ids.LoadCollectionID(in); err != nil {
		return CollectionAppendReq{}, err
	}
	if r.Length, err = ids.LoadSize(in); err != nil {
		return CollectionAppendReq{}, err
	}
	return r, nil
}

type CollectionAppendResp struct{ Added ids.Size }

func (r CollectionAppendResp) Save(o *archive.Output) { r.Added.Save(o) }
func LoadCollectionAppendResp(in *archive.Input) (CollectionAppendResp, error) {
	v, err := ids.LoadSize(in)
	return CollectionAppendResp{v}, err
}

type CollectionCreateReq struct {
	Collection ids.CollectionID
	Size       ids.Size
}

func (r CollectionCreateReq) Save(o *archive.Output) {
	r.Collection.Save(o)
	r.Size.Save(o)
}
func LoadCollectionCreateReq(in *archive.Input) (CollectionCreateReq, error) {
	var r CollectionCreateReq
	var err error
	if r.Collection, err = ids.LoadCollectionID(in); err != nil {
		return CollectionCreateReq{}, err
	}
	if r.Size, err = ids.LoadSize(in); err != nil {
		return CollectionCreateReq{}, err
	}
	return r, nil
}

type CollectionCreateResp struct{ Used []core.UsedStorage }

func (r CollectionCreateResp) Save(o *archive.Output) {
	archive.WriteVector(o, len(r.Used), func(i int) { r.Used[i].Save(o) })
}
func LoadCollectionCreateResp(in *archive.Input) (CollectionCreateResp, error) {
	var r CollectionCreateResp
	_, err := archive.ReadVector(in, func(i int) error {
		u, err := core.LoadUsedStorage(in)
		if err != nil {
			return err
		}
		r.Used = append(r.Used, u)
		return nil
	})
	return r, err
}

type CollectionDeleteReq struct{ Collection ids.CollectionID }

func (r CollectionDeleteReq) Save(o *archive.Output) { r.Collection.Save(o) }
func LoadCollectionDeleteReq(in *archive.Input) (CollectionDeleteReq, error) {
	v, err := ids.LoadCollectionID(in)
	return CollectionDeleteReq{v}, err
}

type StorageAddReq struct{ Storage core.Storage }

func (r StorageAddReq) Save(o *archive.Output) { r.Storage.Save(o) }
func LoadStorageAddReq(in *archive.Input) (StorageAddReq, error) {
	s, err := core.LoadStorage(in)
	return StorageAddReq{s}, err
}

type StorageAddResp struct{ ID ids.StorageID }

func (r StorageAddResp) Save(o *archive.Output) { r.ID.Save(o) }
func LoadStorageAddResp(in *archive.Input) (StorageAddResp, error) {
	v, err := ids.LoadStorageID(in)
	return StorageAddResp{v}, err
}
