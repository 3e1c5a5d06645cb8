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
package accesspolicy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mcsproject/mcs/errs"
)

func TestExclusiveRejectsSecondOutstandingCall(t *testing.T) {
	e := NewExclusive()
	if _, err := e.StartCall(make(Completion, 1)); err != nil {
		t.Fatalf("StartCall: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second outstanding StartCall")
		}
	}()
	e.StartCall(make(Completion, 1))
}

func TestExclusiveCallIDMonotone(t *testing.T) {
	e := NewExclusive()
	id1, _ := e.StartCall(make(Completion, 1))
	e.Completion(id1)
	id2, _ := e.StartCall(make(Completion, 1))
	if id2 <= id1 {
		t.Fatalf("call ids not monotone: %d then %d", id1, id2)
	}
}

func TestExclusiveErrorFailsPendingCompletion(t *testing.T) {
	e := NewExclusive()
	c := make(Completion, 1)
	e.StartCall(c)
	e.Error(errors.New("boom"))
	res := <-c
	var cf *errs.CompletionFailure
	if !errors.As(res.Err, &cf) {
		t.Fatalf("expected CompletionFailure, got %v", res.Err)
	}
}

func TestConcurrentMultipleOutstandingCalls(t *testing.T) {
	c := NewConcurrent()
	ids := make([]CallID, 0, 5)
	completions := make([]Completion, 0, 5)
	for i := 0; i < 5; i++ {
		comp := make(Completion, 1)
		id, err := c.StartCall(comp)
		if err != nil {
			t.Fatalf("StartCall: %v", err)
		}
		ids = append(ids, id)
		completions = append(completions, comp)
	}
	// completions resolve out of start order without error
	for i := len(ids) - 1; i >= 0; i-- {
		got, err := c.Completion(ids[i])
		if err != nil {
			t.Fatalf("Completion(%d): %v", ids[i], err)
		}
		if got != completions[i] {
			t.Fatalf("Completion(%d) returned wrong channel", ids[i])
		}
	}
	if _, err := c.Completion(ids[0]); err == nil {
		t.Fatal("expected error completing an already-removed call")
	}
}

func TestConcurrentErrorFailsEveryPending(t *testing.T) {
	c := NewConcurrent()
	chans := make([]Completion, 3)
	for i := range chans {
		chans[i] = make(Completion, 1)
		c.StartCall(chans[i])
	}
	c.Error(errors.New("connection lost"))
	for _, ch := range chans {
		res := <-ch
		if res.Err == nil {
			t.Fatal("expected CompletionFailure on every pending completion")
		}
	}
}

func TestMultiClientAllSucceed(t *testing.T) {
	m := NewMultiClient()
	err := m.Fanout(context.Background(), 4, func(ctx context.Context, child int) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
}

func TestMultiClientCollectsAllFailures(t *testing.T) {
	m := NewMultiClient()
	err := m.Fanout(context.Background(), 4, func(ctx context.Context, child int) error {
		if child%2 == 0 {
			return fmt.Errorf("child %d failed", child)
		}
		return nil
	})
	var me *errs.Errors
	if !errors.As(err, &me) {
		t.Fatalf("expected *errs.Errors, got %v", err)
	}
	if len(me.Causes) != 2 {
		t.Fatalf("expected 2 causes, got %d: %v", len(me.Causes), me.Causes)
	}
}

func TestMultiClientAtMostCapsParallelism(t *testing.T) {
	m := NewMultiClient().AtMost(2)
	var running, maxRunning int
	var mu sync.Mutex
	err := m.Fanout(context.Background(), 6, func(ctx context.Context, child int) error {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()
		mu.Lock()
		running--
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if maxRunning > 2 {
		t.Fatalf("AtMost(2) allowed %d concurrent children", maxRunning)
	}
}
