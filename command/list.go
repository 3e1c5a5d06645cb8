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

// Default assembles the canonical command list, grouped by concern:
// block-device meta-data, core control, ASIO transport, IOV backend,
// share service. A provider that exposes a superset keeps this same
// prefix so clients can still verify handshake(list) as a prefix match.
func Default() *List {
	return NewList(
		// block-device meta-data
		NewSpec("BlockSize", LoadBlockSizeReq, BlockSizeReq.Save, LoadBlockSizeResp, BlockSizeResp.Save),
		NewSpec("NumberOfBlocks", LoadNumberOfBlocksReq, NumberOfBlocksReq.Save, LoadNumberOfBlocksResp, NumberOfBlocksResp.Save),
		NewSpec("Blocks", LoadBlocksReq, BlocksReq.Save, LoadBlocksResp, BlocksResp.Save),
		NewSpec("blockdevice.Add", LoadAddReq, AddReq.Save, LoadAddResp, AddResp.Save),
		NewSpec("blockdevice.Remove", LoadRemoveReq, RemoveReq.Save, LoadRemoveResp, RemoveResp.Save),
		NewSpec("Location", LoadLocationReq, LocationReq.Save, LoadLocationResp, LocationResp.Save),

		// core control
		NewSpec("chunk.Description", LoadChunkDescriptionReq, ChunkDescriptionReq.Save, LoadChunkDescriptionResp, ChunkDescriptionResp.Save),
		NewSpec("file.Read", LoadFileReadReq, FileReadReq.Save, LoadFileTransferResp, FileTransferResp.Save),
		NewSpec("file.Write", LoadFileWriteReq, FileWriteReq.Save, LoadFileTransferResp, FileTransferResp.Save),
		NewSpec("segment.Create", LoadSegmentCreateReq, SegmentCreateReq.Save, LoadSegmentCreateResp, SegmentCreateResp.Save),
		NewSpec("segment.Remove", LoadSegmentRemoveReq, SegmentRemoveReq.Save, LoadEmptyResp, EmptyResp.Save),
		NewSpec("storage.Create", LoadStorageCreateReq, StorageCreateReq.Save, LoadStorageCreateResp, StorageCreateResp.Save),
		NewSpec("storage.Remove", LoadStorageIDReq, StorageIDReq.Save, LoadEmptyResp, EmptyResp.Save),
		NewSpec("storage.Size", LoadStorageIDReq, StorageIDReq.Save, LoadStorageSizeResp, StorageSizeResp.Save),
		NewSpec("storage.size.Max", LoadStorageIDReq, StorageIDReq.Save, LoadStorageSizeMaxResp, StorageSizeMaxResp.Save),
		NewSpec("storage.size.Used", LoadStorageIDReq, StorageIDReq.Save, LoadStorageSizeUsedResp, StorageSizeUsedResp.Save),

		// ASIO transport
		NewSpec("Get", LoadGetReq, GetReq.Save, LoadGetResp, GetResp.Save),
		NewSpec("Put", LoadPutReq, PutReq.Save, LoadPutResp, PutResp.Save),

		// IOV backend
		NewSpec("iov.Range", LoadCollectionIDReq, CollectionIDReq.Save, LoadRangeResp, RangeResp.Save),
		NewSpec("iov.Locations", LoadLocationsReq, LocationsReq.Save, LoadLocationsResp, LocationsResp.Save),
		NewSpec("iov.State", LoadStateReq, StateReq.Save, LoadStateResp, StateResp.Save),
		NewSpec("collection.Append", LoadCollectionAppendReq, CollectionAppendReq.Save, LoadCollectionAppendResp, CollectionAppendResp.Save),
		NewSpec("collection.Create", LoadCollectionCreateReq, CollectionCreateReq.Save, LoadCollectionCreateResp, CollectionCreateResp.Save),
		NewSpec("collection.Delete", LoadCollectionDeleteReq, CollectionDeleteReq.Save, LoadEmptyResp, EmptyResp.Save),
		NewSpec("iov.storage.Add", LoadStorageAddReq, StorageAddReq.Save, LoadStorageAddResp, StorageAddResp.Save),

		// share service
		NewSpec("Attach<Const>", LoadAttachReq, AttachReq.Save, LoadAttachConstResp, AttachConstResp.Save),
		NewSpec("Attach<Mutable>", LoadAttachReq, AttachReq.Save, LoadAttachMutableResp, AttachMutableResp.Save),
		NewSpec("share.Create", LoadShareCreateReq, ShareCreateReq.Save, LoadShareCreateResp, ShareCreateResp.Save),
		NewSpec("share.Remove", LoadShareRemoveReq, ShareRemoveReq.Save, LoadEmptyResp, EmptyResp.Save),
	)
}
