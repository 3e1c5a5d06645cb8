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
package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/storagekind"
)

func heapParam(t *testing.T, maxSize string) core.Parameter {
	t.Helper()
	b, err := json.Marshal(storagekind.HeapCreateParams{MaxSize: maxSize})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return core.Parameter(b)
}

func TestProviderCreateAndSegmentLifecycle(t *testing.T) {
	p := New(nil)
	id, err := p.Create(core.KindHeap, heapParam(t, "1MiB"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	seg, err := p.CreateSegment(id, 128, storagekind.OnRemoveDefault)
	if err != nil {
		t.Fatalf("CreateSegment: %v", err)
	}

	used, err := p.SizeUsed(id)
	if err != nil {
		t.Fatalf("SizeUsed: %v", err)
	}
	if used != 128 {
		t.Fatalf("SizeUsed = %d, want 128", used)
	}

	if err := p.RemoveSegment(id, seg); err != nil {
		t.Fatalf("RemoveSegment: %v", err)
	}

	if err := p.Destruct(id); err != nil {
		t.Fatalf("Destruct: %v", err)
	}
	if _, err := p.SizeUsed(id); !errors.Is(err, errs.ErrUnknownStorage) {
		t.Fatalf("SizeUsed after Destruct = %v, want ErrUnknownStorage", err)
	}
}

func TestProviderUnknownStorage(t *testing.T) {
	p := New(nil)
	if _, err := p.CreateSegment(999, 16, storagekind.OnRemoveDefault); !errors.Is(err, errs.ErrUnknownStorage) {
		t.Fatalf("CreateSegment on unknown storage = %v, want ErrUnknownStorage", err)
	}
}

func TestProviderQuotaEnforced(t *testing.T) {
	p := New(nil)
	id, err := p.Create(core.KindHeap, heapParam(t, "64B"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := p.CreateSegment(id, 128, storagekind.OnRemoveDefault); !errors.Is(err, errs.ErrOutOfQuota) {
		t.Fatalf("CreateSegment over quota = %v, want ErrOutOfQuota", err)
	}
}

func TestProviderSegmentBusyOnOutstandingDescription(t *testing.T) {
	p := New(nil)
	id, err := p.Create(core.KindHeap, heapParam(t, ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	seg, err := p.CreateSegment(id, 64, storagekind.OnRemoveDefault)
	if err != nil {
		t.Fatalf("CreateSegment: %v", err)
	}
	if _, err := p.ChunkDescription(id, seg, core.AccessConst, ids.Range{Begin: 0, End: 16}); err != nil {
		t.Fatalf("ChunkDescription: %v", err)
	}
	if err := p.RemoveSegment(id, seg); !errors.Is(err, errs.ErrSegmentBusy) {
		t.Fatalf("RemoveSegment with outstanding description = %v, want ErrSegmentBusy", err)
	}
}

func TestLogFileTracerWritesNewlineDelimitedJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLogFileTracer(&buf)
	p := New(tr)

	id, err := p.Create(core.KindHeap, heapParam(t, ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := p.CreateSegment(id, 8, storagekind.OnRemoveDefault); err != nil {
		t.Fatalf("CreateSegment: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected at least 4 trace lines (Create call/result, segment.Create call/result), got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		var e Event
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("line %q is not valid JSON: %v", line, err)
		}
		if e.Op == "" || e.Tag == "" {
			t.Fatalf("event missing op/tag: %+v", e)
		}
	}
}
