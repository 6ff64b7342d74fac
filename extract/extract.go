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
	"os"
	"path/filepath"
	"sort"

	"github.com/sabouaram/dbarc/codec"
	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/rlog"
	"github.com/sabouaram/dbarc/store"
	"github.com/sabouaram/dbarc/tree"
)

// Options configures one extract operation.
type Options struct {
	// Workers is the number of bundles decompressed concurrently. 0 or 1
	// runs every bundle on the calling goroutine.
	Workers int
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

// Stats summarizes one completed extract operation.
type Stats struct {
	Files    int
	Dirs     int
	Symlinks int
}

// Items is the total number of items materialized on disk.
func (s Stats) Items() int {
	return s.Files + s.Dirs + s.Symlinks
}

// Extract reconstructs the items named by ids (or the entire archive, if
// ids is nil) under destRoot. Archived paths are sanitized via cleanPath so
// no output ever lands outside destRoot.
func Extract(ctx context.Context, s *store.Store, ids []int64, destRoot string, opts Options) (Stats, error) {
	log := rlog.Named("extract")

	entries, err := s.IterFilesWithPaths()
	if err != nil {
		return Stats{}, err
	}

	selected := entries
	if ids != nil {
		want := make(map[int64]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		selected = selected[:0]
		for _, e := range entries {
			if want[e.ID] {
				selected = append(selected, e)
			}
		}
	}

	if err = createPath(destRoot); err != nil {
		return Stats{}, err
	}

	byID := make(map[int64]tree.Entry, len(selected))
	var fileIDs []int64
	var stats Stats

	for _, e := range selected {
		byID[e.ID] = e
		switch e.Kind {
		case tree.KindDir:
			if err = createPath(destRootJoin(destRoot, e.Path)); err != nil {
				return Stats{}, err
			}
			stats.Dirs++
		case tree.KindFile:
			fileIDs = append(fileIDs, e.ID)
			stats.Files++
		case tree.KindSymlink:
			fileIDs = append(fileIDs, e.ID)
			stats.Symlinks++
		}
	}

	if len(fileIDs) == 0 {
		log.Info("extracted tree", "files", stats.Files, "dirs", stats.Dirs, "symlinks", stats.Symlinks)
		return stats, nil
	}

	plan, err := s.ExtractPlan(fileIDs)
	if err != nil {
		return Stats{}, err
	}

	totals := make(map[int64]int64, len(fileIDs))
	for _, row := range plan {
		if row.ItemPos+row.Size > totals[row.Item] {
			totals[row.Item] = row.ItemPos + row.Size
		}
	}

	files := make(map[int64]*os.File, len(fileIDs))
	written := make(map[int64]int64, len(fileIDs))
	symlinkBuf := make(map[int64][]byte, stats.Symlinks)

	for _, id := range fileIDs {
		e := byID[id]
		if e.Kind == tree.KindFile {
			f, err := openTruncated(destRoot, e.Path)
			if err != nil {
				return Stats{}, err
			}
			files[id] = f
		} else {
			symlinkBuf[id] = make([]byte, totals[id])
		}
	}
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	if err = runBundlePasses(ctx, s, plan, opts.workers(), func(item int64, itempos int64, data []byte) error {
		e := byID[item]
		if e.Kind == tree.KindFile {
			f := files[item]
			n, err := f.WriteAt(data, itempos)
			if err != nil {
				return rerror.IO(err, "writing %s", e.Path)
			}
			written[item] += int64(n)
			return nil
		}
		copy(symlinkBuf[item][itempos:], data)
		written[item] += int64(len(data))
		return nil
	}); err != nil {
		return Stats{}, err
	}

	for _, id := range fileIDs {
		e := byID[id]
		if e.Kind != tree.KindFile {
			continue
		}
		if written[id] != totals[id] {
			return Stats{}, rerror.IncompleteFile("%s: wrote %d of %d bytes", e.Path, written[id], totals[id])
		}
		if err = files[id].Close(); err != nil {
			return Stats{}, rerror.IO(err, "closing %s", e.Path)
		}
		delete(files, id)
	}

	symlinkIDs := make([]int64, 0, len(symlinkBuf))
	for id := range symlinkBuf {
		symlinkIDs = append(symlinkIDs, id)
	}
	sort.Slice(symlinkIDs, func(i, j int) bool { return symlinkIDs[i] < symlinkIDs[j] })
	for _, id := range symlinkIDs {
		e := byID[id]
		if written[id] != totals[id] {
			return Stats{}, rerror.IncompleteFile("%s: wrote %d of %d bytes", e.Path, written[id], totals[id])
		}
		if err = writeSymlink(destRoot, e.Path, symlinkBuf[id]); err != nil {
			return Stats{}, err
		}
	}

	log.Info("extracted tree", "files", stats.Files, "dirs", stats.Dirs, "symlinks", stats.Symlinks)
	return stats, nil
}

func destRootJoin(root, archivedPath string) string {
	return filepath.Join(root, cleanPath(archivedPath))
}

// bundleGroup is every plan row referencing one content bundle.
type bundleGroup struct {
	content int64
	rows    []store.PlanRow
}

func groupByBundle(plan []store.PlanRow) []bundleGroup {
	var groups []bundleGroup
	for _, row := range plan {
		if len(groups) == 0 || groups[len(groups)-1].content != row.Content {
			groups = append(groups, bundleGroup{content: row.Content})
		}
		g := &groups[len(groups)-1]
		g.rows = append(g.rows, row)
	}
	return groups
}

func decompressGroup(s *store.Store, g bundleGroup) ([]byte, error) {
	if g.content == store.ZeroContent {
		return nil, nil
	}

	raw, algorithmName, err := s.ReadBlobAll(g.content)
	if err != nil {
		return nil, err
	}

	// the effective length spans every chunk in the bundle, not only the
	// chunks selected for this extraction.
	effectiveLen, err := s.BundleLength(g.content)
	if err != nil {
		return nil, err
	}

	algo := codec.ParseAlgorithm(algorithmName)
	if algo.IsNone() {
		if int64(len(raw)) != effectiveLen {
			return nil, rerror.CorruptBundle("bundle %d: stored %d bytes, expected %d", g.content, len(raw), effectiveLen)
		}
		return raw, nil
	}

	return codec.Decompress(raw, int(effectiveLen))
}
