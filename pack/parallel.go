/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package pack

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/rlog"
	"github.com/sabouaram/dbarc/store"
	"github.com/sabouaram/dbarc/tree"
)

// packParallel runs the traversal on the calling goroutine, committing each
// item row in its own short transaction so it is visible to the rest of the
// store before any bundle referencing it is enqueued, and hands each
// flushed bundle to a worker pool bounded by opts.Workers. Workers
// compress independently but serialize their store writes behind writeMu,
// since the store pins every connection to the same physical SQLite
// connection and the format requires a single writer regardless.
func packParallel(ctx context.Context, s *store.Store, inputRoot string, opts Options) (Stats, error) {
	log := rlog.Named("pack")

	sem := semaphore.NewWeighted(int64(opts.workers()))
	group, gctx := errgroup.WithContext(ctx)
	var writeMu sync.Mutex

	var files, dirs, symlinks int64

	b := newBuilder(opts.bundleSize(), func(bn bundle) error {
		if err := sem.Acquire(gctx, 1); err != nil {
			return rerror.Aborted("waiting for a bundle worker slot")
		}
		group.Go(func() error {
			defer sem.Release(1)
			return writeBundleLocked(s, &writeMu, bn)
		})
		return nil
	})

	parentIDs := map[string]int64{}
	root := filepath.Clean(inputRoot)
	parentDir := filepath.Dir(root)

	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return rerror.IO(err, "walking %s", path)
		}
		if gctx.Err() != nil {
			return rerror.Aborted("pack cancelled while walking %s", path)
		}

		clean := filepath.Clean(path)
		parentPath := filepath.Dir(clean)

		var parentID int64
		if parentPath == parentDir {
			parentID = tree.RootParent
		} else {
			id, ok := parentIDs[parentPath]
			if !ok {
				return rerror.New(rerror.CodeIO, "lost parent for %s", clean)
			}
			parentID = id
		}

		name := filepath.Base(clean)
		kind := tree.KindFile
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			kind = tree.KindSymlink
		case info.IsDir():
			kind = tree.KindDir
		}

		id, err := insertItemCommitted(ctx, s, &writeMu, parentID, kind, name)
		if err != nil {
			return err
		}

		switch kind {
		case tree.KindDir:
			parentIDs[clean] = id
			atomic.AddInt64(&dirs, 1)
		case tree.KindSymlink:
			target, err := os.Readlink(clean)
			if err != nil {
				return rerror.IO(err, "reading symlink %s", clean)
			}
			if err = checkSymlinkTarget(clean, target, opts.bundleSize()); err != nil {
				return err
			}
			if err = b.AddReader(id, strings.NewReader(target), int64(len(target))); err != nil {
				return rerror.IO(err, "staging symlink %s", clean)
			}
			atomic.AddInt64(&symlinks, 1)
		default:
			f, err := os.Open(clean)
			if err != nil {
				return rerror.IO(err, "opening %s", clean)
			}
			err = b.AddReader(id, f, info.Size())
			closeErr := f.Close()
			if err != nil {
				return rerror.IO(err, "reading %s", clean)
			}
			if closeErr != nil {
				return rerror.IO(closeErr, "closing %s", clean)
			}
			atomic.AddInt64(&files, 1)
		}

		return nil
	})

	if walkErr == nil {
		walkErr = b.Finish()
	}
	if walkErr != nil {
		_ = group.Wait()
		return Stats{}, walkErr
	}

	if err := group.Wait(); err != nil {
		return Stats{}, err
	}

	stats := Stats{Files: int(files), Dirs: int(dirs), Symlinks: int(symlinks)}
	log.Info("packed tree (parallel)", "files", stats.Files, "dirs", stats.Dirs, "symlinks", stats.Symlinks, "workers", opts.workers())
	return stats, nil
}

func insertItemCommitted(ctx context.Context, s *store.Store, mu *sync.Mutex, parent int64, kind tree.Kind, name string) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	txn, err := s.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer txn.Rollback()

	id, err := txn.InsertItem(parent, kind, name)
	if err != nil {
		return 0, err
	}
	if err = txn.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func writeBundleLocked(s *store.Store, mu *sync.Mutex, bn bundle) error {
	compressed, pending := bn.staging, bn.pending
	var compErr error
	if len(compressed) > 0 {
		compressed, compErr = compressBundle(compressed)
		if compErr != nil {
			return compErr
		}
	}

	mu.Lock()
	defer mu.Unlock()

	txn, err := s.Begin(context.Background())
	if err != nil {
		return err
	}
	defer txn.Rollback()

	if len(bn.staging) == 0 {
		for _, p := range pending {
			if err = txn.InsertItemContent(p.item, p.itempos, store.ZeroContent, 0, 0); err != nil {
				return err
			}
		}
		return txn.Commit()
	}

	contentID, err := txn.AllocateContent(len(compressed), algorithm())
	if err != nil {
		return err
	}
	if err = txn.WriteBlob(contentID, compressed); err != nil {
		return err
	}
	for _, p := range pending {
		if err = txn.InsertItemContent(p.item, p.itempos, contentID, p.contentpos, p.size); err != nil {
			return err
		}
	}
	return txn.Commit()
}
