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

	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/rlog"
	"github.com/sabouaram/dbarc/store"
	"github.com/sabouaram/dbarc/tree"
)

// Pack walks inputRoot (a file, directory, or symlink) and persists it into
// s. With opts.Workers <= 1 it runs the serial baseline described in §5,
// inside one transaction; otherwise it fans bundle compression out to a
// pool of workers and commits each item and each bundle in its own
// transaction (see packParallel).
func Pack(ctx context.Context, s *store.Store, inputRoot string, opts Options) (Stats, error) {
	if opts.workers() > 1 {
		return packParallel(ctx, s, inputRoot, opts)
	}
	return packSerial(ctx, s, inputRoot, opts)
}

func packSerial(ctx context.Context, s *store.Store, inputRoot string, opts Options) (Stats, error) {
	log := rlog.Named("pack")

	txn, err := s.Begin(ctx)
	if err != nil {
		return Stats{}, err
	}
	defer txn.Rollback()

	var stats Stats
	b := newBuilder(opts.bundleSize(), func(bn bundle) error {
		return flushBundle(txn, bn)
	})

	parentIDs := map[string]int64{}
	root := filepath.Clean(inputRoot)
	parentDir := filepath.Dir(root)

	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return rerror.IO(walkErr, "walking %s", path)
		}
		if ctx.Err() != nil {
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

		id, err := txn.InsertItem(parentID, kind, name)
		if err != nil {
			return err
		}

		switch kind {
		case tree.KindDir:
			parentIDs[clean] = id
			stats.Dirs++
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
			stats.Symlinks++
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
			stats.Files++
		}

		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	if err = b.Finish(); err != nil {
		return Stats{}, err
	}

	if err = txn.Commit(); err != nil {
		return Stats{}, err
	}

	log.Info("packed tree", "files", stats.Files, "dirs", stats.Dirs, "symlinks", stats.Symlinks)
	return stats, nil
}

// checkSymlinkTarget rejects a symlink target that would not fit in a
// single bundle outright, instead of silently spanning it across bundles
// like an oversize regular file, for what is almost always a tiny payload.
func checkSymlinkTarget(path, target string, targetBundleSize int) error {
	if len(target) > targetBundleSize {
		return rerror.New(rerror.CodeIO, "symlink target for %s exceeds target bundle size (%d > %d)", path, len(target), targetBundleSize)
	}
	return nil
}

func flushBundle(txn *store.Txn, b bundle) error {
	if len(b.staging) == 0 {
		for _, p := range b.pending {
			if err := txn.InsertItemContent(p.item, p.itempos, store.ZeroContent, 0, 0); err != nil {
				return err
			}
		}
		return nil
	}

	compressed, err := compressBundle(b.staging)
	if err != nil {
		return err
	}

	contentID, err := txn.AllocateContent(len(compressed), algorithm())
	if err != nil {
		return err
	}
	if err = txn.WriteBlob(contentID, compressed); err != nil {
		return err
	}

	for _, p := range b.pending {
		if err = txn.InsertItemContent(p.item, p.itempos, contentID, p.contentpos, p.size); err != nil {
			return err
		}
	}
	return nil
}
