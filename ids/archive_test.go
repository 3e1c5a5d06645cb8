package ids

import (
	"bytes"
	"testing"

	"github.com/mcsproject/mcs/archive"
)

// Size(0x0102030405060708) saves as the 8 little-endian bytes
// 08 07 06 05 04 03 02 01.
func TestArchiveSizeLiteral(t *testing.T) {
	v := Size(0x0102030405060708)
	got := archive.SaveToBytes(func(o *archive.Output) { v.Save(o) })
	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("Save(%v) = % x, want % x", v, got, want)
	}

	var loaded Size
	err := archive.LoadFromBytes(got, func(in *archive.Input) error {
		var lerr error
		loaded, lerr = LoadSize(in)
		return lerr
	})
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if loaded != v {
		t.Fatalf("round trip: got %v want %v", loaded, v)
	}
}

// (P-ArchiveRT) for Range, BlockRange, MaxSize, CollectionID.
func TestArchiveRoundTrip(t *testing.T) {
	r, _ := NewRange(10, 20)
	bytesOut := archive.SaveToBytes(func(o *archive.Output) { r.Save(o) })
	var r2 Range
	if err := archive.LoadFromBytes(bytesOut, func(in *archive.Input) error {
		var err error
		r2, err = LoadRange(in)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if r2 != r {
		t.Fatalf("Range round trip: got %v want %v", r2, r)
	}

	br, _ := NewBlockRange(0, 3)
	bytesOut = archive.SaveToBytes(func(o *archive.Output) { br.Save(o) })
	var br2 BlockRange
	if err := archive.LoadFromBytes(bytesOut, func(in *archive.Input) error {
		var err error
		br2, err = LoadBlockRange(in)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if br2 != br {
		t.Fatalf("BlockRange round trip: got %v want %v", br2, br)
	}

	for _, m := range []MaxSize{Unlimited(), Limit(4096)} {
		bytesOut = archive.SaveToBytes(func(o *archive.Output) { m.Save(o) })
		var m2 MaxSize
		if err := archive.LoadFromBytes(bytesOut, func(in *archive.Input) error {
			var err error
			m2, err = LoadMaxSize(in)
			return err
		}); err != nil {
			t.Fatal(err)
		}
		if m2 != m {
			t.Fatalf("MaxSize round trip: got %v want %v", m2, m)
		}
	}

	cid := NewCollectionID()
	bytesOut = archive.SaveToBytes(func(o *archive.Output) { cid.Save(o) })
	var cid2 CollectionID
	if err := archive.LoadFromBytes(bytesOut, func(in *archive.Input) error {
		var err error
		cid2, err = LoadCollectionID(in)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if cid2 != cid {
		t.Fatalf("CollectionID round trip: got %v want %v", cid2, cid)
	}
}

// Range/BlockRange constructors enforce their ordering invariant.
func TestRangeInvariants(t *testing.T) {
	if _, err := NewRange(5, 4); err == nil {
		t.Fatal("expected ErrRangeInverted")
	}
	if _, err := NewBlockRange(4, 4); err == nil {
		t.Fatal("expected ErrBlockRangeEmpty")
	}
	if _, err := NewBlockRange(5, 4); err == nil {
		t.Fatal("expected ErrBlockRangeEmpty")
	}
}

// AdditionalBytes failure on trailing garbage.
func TestLoadFromBytesAdditionalBytes(t *testing.T) {
	v := Size(42)
	b := archive.SaveToBytes(func(o *archive.Output) { v.Save(o) })
	b = append(b, 0xff)
	err := archive.LoadFromBytes(b, func(in *archive.Input) error {
		_, lerr := LoadSize(in)
		return lerr
	})
	if err == nil {
		t.Fatal("expected AdditionalBytes error")
	}
}
