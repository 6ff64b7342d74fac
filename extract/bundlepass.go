/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package extract

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/store"
)

// sinkFunc receives one decompressed chunk destined for item at itempos.
// Chunks for the same item may arrive from different bundles and therefore
// different goroutines; sinkFunc implementations must serialize per item.
type sinkFunc func(item int64, itempos int64, data []byte) error

// runBundlePasses decompresses each distinct bundle in plan exactly once
// and routes its chunks to sink. With workers > 1, independent bundles
// decompress concurrently; chunks belonging to the same item (a file
// spanning bundles) are still serialized against each other via a per-item
// mutex, since writes to the same output file must not interleave.
func runBundlePasses(ctx context.Context, s *store.Store, plan []store.PlanRow, workers int, sink sinkFunc) error {
	groups := groupByBundle(plan)

	var mu sync.Mutex
	itemLocks := map[int64]*sync.Mutex{}
	lockFor := func(item int64) *sync.Mutex {
		mu.Lock()
		defer mu.Unlock()
		l, ok := itemLocks[item]
		if !ok {
			l = &sync.Mutex{}
			itemLocks[item] = l
		}
		return l
	}

	process := func(g bundleGroup) error {
		data, err := decompressGroup(s, g)
		if err != nil {
			return err
		}
		for _, row := range g.rows {
			if row.Size == 0 {
				continue
			}
			chunk := data[row.ContentPos : row.ContentPos+row.Size]
			l := lockFor(row.Item)
			l.Lock()
			err = sink(row.Item, row.ItemPos, chunk)
			l.Unlock()
			if err != nil {
				return err
			}
		}
		return nil
	}

	if workers <= 1 {
		for _, g := range groups {
			if ctx.Err() != nil {
				return rerror.Aborted("extraction cancelled")
			}
			if err := process(g); err != nil {
				return err
			}
		}
		return nil
	}

	sem := semaphore.NewWeighted(int64(workers))
	group, gctx := errgroup.WithContext(ctx)
	for _, g := range groups {
		g := g
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		group.Go(func() error {
			defer sem.Release(1)
			return process(g)
		})
	}
	return group.Wait()
}
