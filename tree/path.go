/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
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

package tree

import (
	"sort"
	"strings"

	"github.com/sabouaram/dbarc/rerror"
)

// MaterializePaths walks a set of nodes by parent pointer and returns the
// full external path (no trailing slash, even for directories) for each id.
// It is the in-memory reference algorithm; the store performs the same walk
// server-side with a recursive CTE for bulk listing.
func MaterializePaths(nodes []Node) (map[int64]string, error) {
	byID := make(map[int64]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	out := make(map[int64]string, len(nodes))
	var resolve func(id int64, seen map[int64]bool) (string, error)
	resolve = func(id int64, seen map[int64]bool) (string, error) {
		if p, ok := out[id]; ok {
			return p, nil
		}
		n, ok := byID[id]
		if !ok {
			return "", rerror.NotFound("item %d not present in node set", id)
		}
		if seen[id] {
			return "", rerror.New(rerror.CodeStore, "cycle detected reaching item %d via parent", id)
		}
		seen[id] = true

		if n.Parent == RootParent {
			out[id] = n.Name
			return n.Name, nil
		}

		parentPath, err := resolve(n.Parent, seen)
		if err != nil {
			return "", err
		}
		full := parentPath + "/" + n.Name
		out[id] = full
		return full, nil
	}

	for _, n := range nodes {
		if _, err := resolve(n.ID, map[int64]bool{}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Entry pairs a materialized path with the node it names, the shape both
// list and path resolution hand back to callers.
type Entry struct {
	ID   int64
	Kind Kind
	Path string
}

// ResolvePaths returns the ids of every node whose materialized path either
// equals one of the given external paths, or lies underneath one that names
// a directory — "underneath" meaning the directory's path, extended with a
// "/", is a prefix of the node's path. Overlapping inputs (e.g. "a/b" and
// "a/b/c" given together) collapse to the minimal covering set before the
// match, so a directory and one of its own descendants named twice over
// does not do redundant work downstream.
func ResolvePaths(entries []Entry, wanted []string) ([]int64, error) {
	clean := normalizeWanted(wanted)
	if len(clean) == 0 {
		return nil, rerror.NotFound("no path requested")
	}

	var matched []int64
	seen := make(map[string]bool, len(clean))

	for _, e := range entries {
		for _, w := range clean {
			if e.Path == w || strings.HasPrefix(e.Path, w+"/") {
				matched = append(matched, e.ID)
				seen[w] = true
				break
			}
		}
	}

	for _, w := range clean {
		if !seen[w] {
			return nil, rerror.NotFound("path %q does not resolve to any item", w)
		}
	}

	return dedupInt64(matched), nil
}

// normalizeWanted trims trailing slashes and collapses any path that is a
// strict descendant of another requested path, since the ancestor's subtree
// already covers it.
func normalizeWanted(in []string) []string {
	clean := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.Trim(p, "/")
		if p != "" {
			clean = append(clean, p)
		}
	}
	sort.Strings(clean)

	out := clean[:0:0]
	for _, p := range clean {
		covered := false
		for _, kept := range out {
			if p == kept || strings.HasPrefix(p, kept+"/") {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, p)
		}
	}
	return out
}

func dedupInt64(in []int64) []int64 {
	seen := make(map[int64]bool, len(in))
	out := make([]int64, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
