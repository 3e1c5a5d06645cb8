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

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mcsproject/mcs/errs"
)

// MultiClient fans one logical call over N child clients, reporting
// success only if every child succeeds. Parallelism is optionally
// capped by AtMost(k); a zero cap means unbounded.
type MultiClient struct {
	cap int64
}

// NewMultiClient builds a MultiClient with no concurrency cap.
func NewMultiClient() *MultiClient { return &MultiClient{} }

// AtMost caps the number of child calls running at once.
func (m *MultiClient) AtMost(k int64) *MultiClient {
	m.cap = k
	return m
}

// Fanout runs call once per child in children, joining outcomes. On any
// failure it returns *errs.Errors collecting every child's error (nil
// entries for children that succeeded are omitted).
func (m *MultiClient) Fanout(ctx context.Context, children int, call func(ctx context.Context, child int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	var sem *semaphore.Weighted
	if m.cap > 0 {
		sem = semaphore.NewWeighted(m.cap)
	}

	errsCh := make(chan error, children)
	for i := 0; i < children; i++ {
		i := i
		g.Go(func() error {
			if sem != nil {
				if err := sem.Acquire(gctx, 1); err != nil {
					errsCh <- err
					return nil
				}
				defer sem.Release(1)
			}
			if err := call(gctx, i); err != nil {
				errsCh <- err
			}
			return nil
		})
	}
	// errgroup.Wait only ever returns nil here: each Go func reports its
	// own failure into errsCh rather than returning an error, so every
	// child runs to completion instead of the group context cancelling
	// siblings on the first failure — outcomes are collected from every
	// child, not a fail-fast subset.
	_ = g.Wait()
	close(errsCh)

	var causes []error
	for err := range errsCh {
		causes = append(causes, err)
	}
	if len(causes) == 0 {
		return nil
	}
	return &errs.Errors{Causes: causes}
}
