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

// Package archive implements the binary archive contract: a write-only
// Output that accumulates byte spans and a read-only Input that
// consumes a backing byte span head-first. Primitives are untagged
// little-endian bytes; every variable-shape container emits a tag header
// (count, bucket count, variant index or presence flag) ahead of its
// payload.
package archive

import (
	"encoding/binary"

	"github.com/mcsproject/mcs/errs"
)

// Tag identifies the shape of a container header on the wire.
type Tag uint8

const (
	TagList Tag = iota
	TagMap
	TagOptional
	TagSet
	TagString
	TagUniquePtr
	TagUnorderedMap
	TagUnorderedSet
	TagVariant
	TagVector
)

// Output accumulates a sequence of byte spans in its own buffer. Every
// write, WriteBytes included, copies its argument in; no caller slice is
// borrowed or retained past the call.
type Output struct {
	buf []byte
}

// NewOutput returns an Output with a pre-sized arena.
func NewOutput(sizeHint int) *Output {
	return &Output{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated byte span.
func (o *Output) Bytes() []byte { return o.buf }

// WriteBytes appends a raw, untagged byte span (used for fixed-width
// primitives and for payloads already framed by their caller).
func (o *Output) WriteBytes(p []byte) { o.buf = append(o.buf, p...) }

func (o *Output) WriteU8(v uint8)   { o.buf = append(o.buf, v) }
func (o *Output) WriteU32(v uint32) { o.buf = binary.LittleEndian.AppendUint32(o.buf, v) }
func (o *Output) WriteU64(v uint64) { o.buf = binary.LittleEndian.AppendUint64(o.buf, v) }
func (o *Output) WriteI64(v int64)  { o.WriteU64(uint64(v)) }

// WriteTaggedString emits the String tag: u32 length then raw bytes.
func (o *Output) WriteTaggedString(s string) {
	o.WriteU32(uint32(len(s)))
	o.buf = append(o.buf, s...)
}

// WriteCount emits the element-count header shared by List/Vector/Set and
// bucket-count header shared by Map/UnorderedMap/UnorderedSet.
func (o *Output) WriteCount(n int) { o.WriteU32(uint32(n)) }

// WriteOptionalHeader emits the Optional presence flag.
func (o *Output) WriteOptionalHeader(present bool) {
	if present {
		o.WriteU8(1)
	} else {
		o.WriteU8(0)
	}
}

// WriteVariantTag emits the Variant discriminant (position in its command
// list / sum-type declaration order).
func (o *Output) WriteVariantTag(index uint32) { o.WriteU32(index) }

// Input consumes a backing byte span head-first.
type Input struct {
	data []byte
	pos  int
}

// NewInput wraps data for sequential reading.
func NewInput(data []byte) *Input { return &Input{data: data} }

// Remaining returns the number of unread bytes.
func (in *Input) Remaining() int { return len(in.data) - in.pos }

func (in *Input) need(n int) error {
	if in.Remaining() < n {
		return &errs.LoadFailed{Cause: errs.ErrOutOfRange}
	}
	return nil
}

// ReadBytes reads n raw, untagged bytes.
func (in *Input) ReadBytes(n int) ([]byte, error) {
	if err := in.need(n); err != nil {
		return nil, err
	}
	b := in.data[in.pos : in.pos+n]
	in.pos += n
	return b, nil
}

func (in *Input) ReadU8() (uint8, error) {
	b, err := in.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (in *Input) ReadU32() (uint32, error) {
	b, err := in.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (in *Input) ReadU64() (uint64, error) {
	b, err := in.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (in *Input) ReadI64() (int64, error) {
	v, err := in.ReadU64()
	return int64(v), err
}

// ReadTaggedString reads the String tag: u32 length then raw bytes.
func (in *Input) ReadTaggedString() (string, error) {
	n, err := in.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := in.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadCount reads an element/bucket-count header.
func (in *Input) ReadCount() (int, error) {
	n, err := in.ReadU32()
	return int(n), err
}

// ReadOptionalHeader reads the Optional presence flag.
func (in *Input) ReadOptionalHeader() (bool, error) {
	b, err := in.ReadU8()
	return b != 0, err
}

// ReadVariantTag reads the Variant discriminant.
func (in *Input) ReadVariantTag() (uint32, error) {
	return in.ReadU32()
}

// SaveToBytes runs write against a fresh Output and returns the result.
func SaveToBytes(write func(*Output)) []byte {
	o := NewOutput(64)
	write(o)
	return o.Bytes()
}

// LoadFromBytes runs read against data wrapped in an Input and fails with
// AdditionalBytes(n) if any bytes remain after the top-level load.
func LoadFromBytes(data []byte, read func(*Input) error) error {
	in := NewInput(data)
	if err := read(in); err != nil {
		return &errs.LoadFailed{Cause: err}
	}
	if r := in.Remaining(); r > 0 {
		return &errs.LoadFailed{Cause: &errs.AdditionalBytes{N: r}}
	}
	return nil
}

// WriteVector writes the Vector tag header (count) followed by n elements
// via writeElem.
func WriteVector(o *Output, n int, writeElem func(i int)) {
	o.WriteCount(n)
	for i := 0; i < n; i++ {
		writeElem(i)
	}
}

// ReadVector reads the Vector tag header and invokes readElem once per
// element, in order.
func ReadVector(in *Input, readElem func(i int) error) (int, error) {
	n, err := in.ReadCount()
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		if err := readElem(i); err != nil {
			return 0, err
		}
	}
	return n, nil
}
