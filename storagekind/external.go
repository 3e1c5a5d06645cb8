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
package storagekind

import (
	"io"
	"os"

	"github.com/mcsproject/mcs/ids"
)

// openExternal opens the file.Read/file.Write command's external path
// argument for the network-attached kinds (Virtual's s3/ceph backends),
// which cannot use copy_file_range against a remote object.
func openExternal(path string) (*os.File, error) {
	return os.Open(path)
}

// readExternalRegion returns the bytes actually read; a short read at
// EOF is reported as a success with the actual count rather than an
// error.
func readExternalRegion(f *os.File, r ids.Range) ([]byte, error) {
	buf := make([]byte, r.Length())
	n, err := f.ReadAt(buf, int64(r.Begin))
	if err == io.EOF {
		err = nil
	}
	return buf[:n], err
}

func writeExternalRegion(path string, begin ids.Offset, data []byte) (ids.Size, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := f.WriteAt(data, int64(begin))
	return ids.Size(n), err
}
