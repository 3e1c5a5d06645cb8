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

// readFileInto copies r.Length() bytes from the external path at r.Begin
// into dst (an in-memory segment view already sliced to the destination
// offset), used by the Heap and SHMEM kinds' file.Read.
func readFileInto(dst []byte, path string, r ids.Range) (ids.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n := int64(r.Length())
	if n > int64(len(dst)) {
		n = int64(len(dst))
	}
	got, err := f.ReadAt(dst[:n], int64(r.Begin))
	if err != nil && err != io.EOF {
		return ids.Size(got), err
	}
	return ids.Size(got), nil
}

// writeFileFrom is the reverse of readFileInto: it writes src (an
// in-memory segment view) to the external path at r.Begin.
func writeFileFrom(src []byte, path string, r ids.Range) (ids.Size, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n := int64(r.Length())
	if n > int64(len(src)) {
		n = int64(len(src))
	}
	if _, err := f.WriteAt(src[:n], int64(r.Begin)); err != nil {
		return 0, err
	}
	return ids.Size(n), nil
}
