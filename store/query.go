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

package store

import (
	"sort"
	"strings"

	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/tree"
)

// IterItemsBFS returns every item row in the archive, in no particular
// order. Callers that need a path for each item should run it through
// tree.MaterializePaths.
func (s *Store) IterItemsBFS() ([]tree.Node, error) {
	rows, err := s.db.Query(`SELECT id, parent, kind, name FROM item`)
	if err != nil {
		return nil, rerror.Store(err, "reading items")
	}
	defer rows.Close()

	var nodes []tree.Node
	for rows.Next() {
		var n tree.Node
		var kind uint8
		if err = rows.Scan(&n.ID, &n.Parent, &kind, &n.Name); err != nil {
			return nil, rerror.Store(err, "scanning item row")
		}
		n.Kind = tree.Kind(kind)
		nodes = append(nodes, n)
	}
	if err = rows.Err(); err != nil {
		return nil, rerror.Store(err, "iterating items")
	}
	return nodes, nil
}

// IterFilesWithPaths returns every item with its materialized path in
// breadth-first order: shallower paths first, and paths of equal depth
// sorted lexicographically, so every parent precedes its children and
// repeated calls yield the same order.
func (s *Store) IterFilesWithPaths() ([]tree.Entry, error) {
	const recursiveCTE = `
WITH RECURSIVE paths(id, kind, path) AS (
	SELECT id, kind, name FROM item WHERE parent = 0
	UNION ALL
	SELECT i.id, i.kind, paths.path || '/' || i.name
	FROM item i JOIN paths ON i.parent = paths.id
)
SELECT id, kind, path FROM paths`

	rows, err := s.db.Query(recursiveCTE)
	if err != nil {
		return nil, rerror.Store(err, "resolving item paths")
	}
	defer rows.Close()

	var entries []tree.Entry
	for rows.Next() {
		var e tree.Entry
		var kind uint8
		if err = rows.Scan(&e.ID, &kind, &e.Path); err != nil {
			return nil, rerror.Store(err, "scanning path row")
		}
		e.Kind = tree.Kind(kind)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, rerror.Store(err, "iterating paths")
	}

	sort.Slice(entries, func(i, j int) bool {
		di, dj := strings.Count(entries[i].Path, "/"), strings.Count(entries[j].Path, "/")
		if di != dj {
			return di < dj
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// LookupByPaths resolves wanted archive-relative paths to their covering
// set of item ids, pulling in whole subtrees for directory paths.
func (s *Store) LookupByPaths(wanted []string) ([]int64, error) {
	entries, err := s.IterFilesWithPaths()
	if err != nil {
		return nil, err
	}
	return tree.ResolvePaths(entries, wanted)
}

// PlanRow is one scatter-write instruction for extract: bytes
// [ContentPos, ContentPos+Size) of bundle Content land at
// [ItemPos, ItemPos+Size) of the output file for Item.
type PlanRow struct {
	Item       int64
	ItemPos    int64
	Content    int64
	ContentPos int64
	Size       int64
}

// ExtractPlan returns the itemcontent rows for the given file item ids,
// ordered by (content, contentpos) so a sequential scan decompresses each
// bundle exactly once.
func (s *Store) ExtractPlan(itemIDs []int64) ([]PlanRow, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := `SELECT item, itempos, content, contentpos, size FROM itemcontent WHERE item IN (` + placeholders(len(itemIDs)) + `) ORDER BY content, contentpos`
	args := make([]interface{}, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, rerror.Store(err, "planning extraction")
	}
	defer rows.Close()

	var plan []PlanRow
	for rows.Next() {
		var r PlanRow
		if err = rows.Scan(&r.Item, &r.ItemPos, &r.Content, &r.ContentPos, &r.Size); err != nil {
			return nil, rerror.Store(err, "scanning plan row")
		}
		plan = append(plan, r)
	}
	if err = rows.Err(); err != nil {
		return nil, rerror.Store(err, "iterating plan rows")
	}
	return plan, nil
}

// BundleLength returns the effective number of meaningful bytes in content
// bundle id: the high-water mark across every itemcontent row pointing
// into it, which can be smaller than the raw decompressed blob length when
// the final span written into the bundle was never the longest one seen.
func (s *Store) BundleLength(content int64) (int64, error) {
	var length int64
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(contentpos + size), 0) FROM itemcontent WHERE content = ?`, content,
	).Scan(&length)
	if err != nil {
		return 0, rerror.Store(err, "computing effective length of content %d", content)
	}
	return length, nil
}

func placeholders(n int) string {
	b := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
