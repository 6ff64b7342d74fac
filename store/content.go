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
	"github.com/sabouaram/dbarc/codec"
	"github.com/sabouaram/dbarc/rerror"
)

// ZeroContent is the sentinel content id referenced by an itemcontent row
// covering a zero-size file when no bundle has ever been flushed yet. It
// never corresponds to an actual row in the content table.
const ZeroContent int64 = 0

// AllocateContent reserves a zero-filled blob of size bytes in the content
// table and returns its row id. The blob is written in a second step via
// WriteBlob, using SQLite's incremental blob I/O so the compressed bundle
// never has to be materialized as a second in-memory copy.
func (t *Txn) AllocateContent(size int, algorithm codec.Algorithm) (int64, error) {
	res, err := t.tx.Exec(
		`INSERT INTO content(value, algorithm) VALUES (zeroblob(?), ?)`,
		size, algorithm.String(),
	)
	if err != nil {
		return 0, rerror.Store(err, "allocating content blob of %d bytes", size)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, rerror.Store(err, "reading allocated content id")
	}
	return id, nil
}

// WriteBlob writes data into the content row identified by id, starting at
// byte offset 0. The row must already have been allocated at exactly
// len(data) bytes via AllocateContent, in the same or an earlier statement
// on this connection.
func (t *Txn) WriteBlob(id int64, data []byte) error {
	blob, err := t.s.raw.Blob("main", "content", "value", id, true)
	if err != nil {
		return rerror.Store(err, "opening content blob %d for write", id)
	}
	defer blob.Close()

	if _, err = blob.Write(data); err != nil {
		return rerror.Store(err, "writing content blob %d", id)
	}
	return nil
}

// ReadBlobAll reads the full compressed bundle stored at content id. Reads
// use a plain SELECT rather than incremental blob I/O: the whole bundle has
// to be held in memory anyway for a single zstd decompression pass.
func (s *Store) ReadBlobAll(id int64) ([]byte, string, error) {
	var value []byte
	var algorithm string
	err := s.db.QueryRow(
		`SELECT value, algorithm FROM content WHERE id = ?`, id,
	).Scan(&value, &algorithm)
	if err != nil {
		return nil, "", rerror.Store(err, "reading content blob %d", id)
	}
	return value, algorithm, nil
}
