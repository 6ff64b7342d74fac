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

// SmallInputThreshold is the input-size cutoff below which Open selects the
// 512-byte page size instead of the 4096-byte default, per the archive's
// external interface spec.
const SmallInputThreshold = 1 << 20 // 1 MiB

// PageSizeFor returns the SQLite page size to use for an archive built from
// an input tree of the given total size.
func PageSizeFor(inputSize int64) int {
	if inputSize <= SmallInputThreshold {
		return 512
	}
	return 4096
}

const schemaDDL = `
CREATE TABLE item (
	id     INTEGER PRIMARY KEY,
	parent INTEGER NOT NULL,
	kind   INTEGER NOT NULL,
	name   TEXT NOT NULL
);
CREATE UNIQUE INDEX item_parent_name ON item(parent, name);
CREATE INDEX item_parent ON item(parent);

CREATE TABLE content (
	id        INTEGER PRIMARY KEY,
	value     BLOB NOT NULL,
	algorithm TEXT NOT NULL DEFAULT 'zstd'
);

CREATE TABLE itemcontent (
	id         INTEGER PRIMARY KEY,
	item       INTEGER NOT NULL,
	itempos    INTEGER NOT NULL,
	content    INTEGER NOT NULL,
	contentpos INTEGER NOT NULL,
	size       INTEGER NOT NULL
);
CREATE INDEX itemcontent_content ON itemcontent(content, contentpos);
CREATE INDEX itemcontent_item ON itemcontent(item, itempos);
`
