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
	"os"
	"strings"

	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/tree"
)

// InsertItem inserts one item row under the given transaction and returns
// its allocated id. parent must be tree.RootParent for a top-level entry.
// Names containing '/' or equal to "" are rejected, since the tree's
// well-formedness invariant requires every path segment to resolve to
// exactly one item.
func (t *Txn) InsertItem(parent int64, kind tree.Kind, name string) (int64, error) {
	if name == "" || strings.Contains(name, "/") {
		return 0, rerror.IO(os.ErrInvalid, "invalid item name %q", name)
	}

	res, err := t.tx.Exec(
		`INSERT INTO item(parent, kind, name) VALUES (?, ?, ?)`,
		parent, uint8(kind), name,
	)
	if err != nil {
		return 0, rerror.Store(err, "inserting item %q under parent %d", name, parent)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, rerror.Store(err, "reading inserted item id")
	}
	return id, nil
}
