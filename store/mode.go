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

// Kind distinguishes the two ways an archive can be opened.
type Kind uint8

const (
	// KindCreateInMemory builds the archive against an in-memory database
	// and copies it to Path via the backup API once pack finishes.
	KindCreateInMemory Kind = iota
	// KindOpenExisting opens an on-disk archive file directly.
	KindOpenExisting
)

// Mode selects how Open builds or attaches to an archive's backing store.
type Mode struct {
	kind Kind
	path string
}

// CreateInMemoryThenBackupTo builds a fresh archive entirely in memory and
// flushes it to path with the backup API once the caller calls Store.Flush.
func CreateInMemoryThenBackupTo(path string) Mode {
	return Mode{kind: KindCreateInMemory, path: path}
}

// OpenExisting attaches directly to an on-disk archive file.
func OpenExisting(path string) Mode {
	return Mode{kind: KindOpenExisting, path: path}
}
