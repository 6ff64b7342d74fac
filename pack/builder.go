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
	"io"
)

// pendingMapping is an itemcontent row whose content id is not yet known:
// it will be filled in once the bundle it belongs to is flushed.
type pendingMapping struct {
	item       int64
	itempos    int64
	contentpos int64
	size       int64
}

// bundle is one flushed staging buffer together with the mappings pointing
// into it, handed to whatever flushes it (inline in serial mode, over a
// channel to a worker in parallel mode).
type bundle struct {
	staging []byte
	pending []pendingMapping
}

// flushFunc commits one bundle's bytes and mappings to the store.
type flushFunc func(b bundle) error

// builder accumulates file and symlink payloads into fixed-target-size
// staging buffers per §4.4's bundling algorithm, calling flush whenever the
// staging buffer fills or at Finish if anything remains.
type builder struct {
	target  int
	flush   flushFunc
	staging []byte
	pending []pendingMapping
}

func newBuilder(target int, flush flushFunc) *builder {
	return &builder{target: target, flush: flush}
}

// AddReader appends up to length bytes read from r to the staging buffer,
// flushing and starting a new buffer whenever it fills, and records one
// pending mapping per chunk written. length is the file size or, for a
// symlink, the length of its target string.
func (b *builder) AddReader(item int64, r io.Reader, length int64) error {
	var itempos int64
	remaining := length

	for remaining > 0 {
		room := b.target - len(b.staging)
		if room == 0 {
			if err := b.doFlush(); err != nil {
				return err
			}
			room = b.target
		}

		n := remaining
		if int64(room) < n {
			n = int64(room)
		}

		contentpos := int64(len(b.staging))
		before := len(b.staging)
		b.staging = append(b.staging, make([]byte, n)...)
		if _, err := io.ReadFull(r, b.staging[before:]); err != nil {
			return err
		}

		b.pending = append(b.pending, pendingMapping{
			item: item, itempos: itempos, contentpos: contentpos, size: n,
		})

		itempos += n
		remaining -= n
	}

	if length == 0 {
		b.pending = append(b.pending, pendingMapping{
			item: item, itempos: 0, contentpos: int64(len(b.staging)), size: 0,
		})
	}

	return nil
}

func (b *builder) doFlush() error {
	if len(b.staging) == 0 && len(b.pending) == 0 {
		return nil
	}
	if err := b.flush(bundle{staging: b.staging, pending: b.pending}); err != nil {
		return err
	}
	b.staging = nil
	b.pending = nil
	return nil
}

// Finish flushes whatever remains in the staging buffer. Call it exactly
// once after the last AddReader.
func (b *builder) Finish() error {
	return b.doFlush()
}
