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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	units "github.com/docker/go-units"
	"golang.org/x/sys/unix"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

// FilesCreateParams is the Files kind's Parameter.Create bundle (spec
// §4.F, §6).
type FilesCreateParams struct {
	Prefix      string `json:"prefix"`
	MaxSize     string `json:"max_size"`   // "unlimited" or e.g. "10GiB" (docker/go-units)
	Compression string `json:"compression"` // "none" | "lz4" | "xz"
}

func parseMaxSize(s string) (ids.MaxSize, error) {
	if s == "" || s == "unlimited" {
		return ids.Unlimited(), nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return ids.MaxSize{}, fmt.Errorf("max_size: %w", err)
	}
	return ids.Limit(ids.Size(n)), nil
}

type filesSegment struct {
	path     string
	size     ids.Size
	onRemove OnRemove
}

// FilesInstance is one on-disk storage under a Prefix path.
type FilesInstance struct {
	prefix      string
	maxSize     ids.MaxSize
	compression string

	mu       sync.Mutex
	nextSeg  ids.SegmentID
	segments map[ids.SegmentID]*filesSegment
	used     ids.Size
}

type FilesFactory struct{}

func (FilesFactory) Kind() core.Kind { return core.KindFiles }

func (FilesFactory) Create(p core.Parameter) (Instance, error) {
	var params FilesCreateParams
	if err := json.Unmarshal(p, &params); err != nil {
		return nil, &errs.LoadFailed{Cause: err}
	}
	maxSize, err := parseMaxSize(params.MaxSize)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(params.Prefix, 0750); err != nil {
		return nil, err
	}
	return &FilesInstance{
		prefix:      params.Prefix,
		maxSize:     maxSize,
		compression: params.Compression,
		segments:    make(map[ids.SegmentID]*filesSegment),
	}, nil
}

func (f *FilesInstance) Kind() core.Kind     { return core.KindFiles }
func (f *FilesInstance) SizeMax() ids.MaxSize { return f.maxSize }

func (f *FilesInstance) SizeUsed() ids.Size {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.used
}

func (f *FilesInstance) segmentPath(seg ids.SegmentID) string {
	return filepath.Join(f.prefix, fmt.Sprintf("segment-%d", seg))
}

func (f *FilesInstance) CreateSegment(size ids.Size, onRemove OnRemove) (ids.SegmentID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.maxSize.Allows(f.used, size) {
		return 0, errs.ErrOutOfQuota
	}
	f.nextSeg++
	seg := f.nextSeg
	path := f.segmentPath(seg)
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := file.Truncate(int64(size)); err != nil {
		file.Close()
		os.Remove(path)
		return 0, err
	}
	file.Close()
	f.segments[seg] = &filesSegment{path: path, size: size, onRemove: onRemove}
	f.used += size
	return seg, nil
}

func (f *FilesInstance) RemoveSegment(seg ids.SegmentID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.segments[seg]
	if !ok {
		return errs.ErrSegmentGone
	}
	delete(f.segments, seg)
	f.used -= s.size
	if s.onRemove != OnRemoveKeep {
		os.Remove(s.path)
	}
	return nil
}

func (f *FilesInstance) lookup(seg ids.SegmentID) (*filesSegment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.segments[seg]
	if !ok {
		return nil, errs.ErrSegmentGone
	}
	return s, nil
}

func (f *FilesInstance) Description(seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error) {
	s, err := f.lookup(seg)
	if err != nil {
		return nil, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(s.size)}).Contains(r.Begin, r.Length()) {
		return nil, errs.ErrOutOfRange
	}
	return core.FilesPayload{Path: s.path, FileSize: s.size, Range: r}, nil
}

// ReadFile copies range.Length() bytes from the external path at
// range.Begin into the segment at offset, preferring copy_file_range and
// falling back to sendfile on EXDEV.
func (f *FilesInstance) ReadFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	s, err := f.lookup(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(s.size)}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	src, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	dst, err := os.OpenFile(s.path, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	defer dst.Close()
	return copyRange(src, int64(r.Begin), dst, int64(offset), int64(r.Length()))
}

// WriteFile is the reverse direction: segment[offset:offset+len] to the
// external path at r.Begin.
func (f *FilesInstance) WriteFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	s, err := f.lookup(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(s.size)}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	src, err := os.Open(s.path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return 0, err
	}
	defer dst.Close()
	return copyRange(src, int64(offset), dst, int64(r.Begin), int64(r.Length()))
}

// ReadAt implements RawIO by pread'ing the segment file directly (spec
// §4.E bulk Get).
func (f *FilesInstance) ReadAt(seg ids.SegmentID, offset ids.Offset, size ids.Size) ([]byte, error) {
	s, err := f.lookup(seg)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	buf := make([]byte, size)
	n, err := file.ReadAt(buf, int64(offset))
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// WriteAt implements RawIO by pwrite'ing the segment file directly (spec
// §4.E bulk Put).
func (f *FilesInstance) WriteAt(seg ids.SegmentID, offset ids.Offset, data []byte) (ids.Size, error) {
	s, err := f.lookup(seg)
	if err != nil {
		return 0, err
	}
	file, err := os.OpenFile(s.path, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	n, err := file.WriteAt(data, int64(offset))
	if err != nil {
		return ids.Size(n), err
	}
	return ids.Size(n), nil
}

func (f *FilesInstance) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.segments {
		os.Remove(s.path)
	}
	f.segments = make(map[ids.SegmentID]*filesSegment)
	f.used = 0
}

// copyRange transfers n bytes from src@srcOff to dst@dstOff using
// copy_file_range, falling back to sendfile (and finally a plain
// read/write loop) when the kernel refuses cross-device copy_file_range
// with EXDEV.
func copyRange(src *os.File, srcOff int64, dst *os.File, dstOff int64, n int64) (ids.Size, error) {
	remaining := n
	so, do := srcOff, dstOff
	for remaining > 0 {
		written, err := unix.CopyFileRange(int(src.Fd()), &so, int(dst.Fd()), &do, int(remaining), 0)
		if err != nil {
			if err == unix.EXDEV || err == unix.ENOSYS || err == unix.EINVAL {
				break
			}
			return ids.Size(n - remaining), err
		}
		if written == 0 {
			break
		}
		remaining -= int64(written)
	}
	if remaining == 0 {
		return ids.Size(n), nil
	}
	// fall back to sendfile, then to read/write.
	// sendfile writes at dst's file position, so move it to do first.
	off := so
	written := 0
	_, err := dst.Seek(do, io.SeekStart)
	if err == nil {
		written, err = unix.Sendfile(int(dst.Fd()), int(src.Fd()), &off, int(remaining))
	}
	if err == nil {
		remaining -= int64(written)
		so = off
		do += int64(written)
	}
	if remaining > 0 {
		buf := make([]byte, 32*1024)
		for remaining > 0 {
			toRead := int64(len(buf))
			if toRead > remaining {
				toRead = remaining
			}
			rn, rerr := src.ReadAt(buf[:toRead], so)
			if rn > 0 {
				if _, werr := dst.WriteAt(buf[:rn], do); werr != nil {
					return ids.Size(n - remaining), werr
				}
				so += int64(rn)
				do += int64(rn)
				remaining -= int64(rn)
			}
			if rerr != nil {
				if rerr == io.EOF {
					break
				}
				return ids.Size(n - remaining), rerr
			}
		}
	}
	return ids.Size(n - remaining), nil
}
