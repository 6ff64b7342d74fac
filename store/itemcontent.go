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

import "github.com/sabouaram/dbarc/rerror"

// InsertItemContent records that item's bytes [itempos, itempos+size) live
// at [contentpos, contentpos+size) of the bundle stored in content. A file
// gets one row per bundle its bytes land in: exactly one when it fits in
// the room left in the current bundle, more when it spills into later ones.
func (t *Txn) InsertItemContent(item int64, itempos int64, content int64, contentpos int64, size int64) error {
	_, err := t.tx.Exec(
		`INSERT INTO itemcontent(item, itempos, content, contentpos, size) VALUES (?, ?, ?, ?, ?)`,
		item, itempos, content, contentpos, size,
	)
	if err != nil {
		return rerror.Store(err, "inserting itemcontent row for item %d", item)
	}
	return nil
}
