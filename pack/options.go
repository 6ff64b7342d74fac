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

// Package pack implements the traversal and bundling pipeline that turns a
// filesystem tree into item/content/itemcontent rows in a store.Store.
package pack

const (
	// MinBundleSize is the smallest accepted target bundle size.
	MinBundleSize = 8 << 20
	// MaxBundleSize is the largest accepted target bundle size.
	MaxBundleSize = 32 << 20
	// DefaultBundleSize is used when Options.TargetBundleSize is left at 0.
	DefaultBundleSize = 16 << 20
)

// Options configures one pack operation.
type Options struct {
	// TargetBundleSize is the uncompressed byte budget at which the bundle
	// builder flushes. 0 selects DefaultBundleSize; values are clamped to
	// [MinBundleSize, MaxBundleSize].
	TargetBundleSize int
	// Workers is the number of parallel bundle-compression workers. 0 or 1
	// runs the serial baseline: traversal, compression and store writes all
	// on the calling goroutine inside a single transaction.
	Workers int
}

func (o Options) bundleSize() int {
	n := o.TargetBundleSize
	if n <= 0 {
		n = DefaultBundleSize
	}
	if n < MinBundleSize {
		n = MinBundleSize
	}
	if n > MaxBundleSize {
		n = MaxBundleSize
	}
	return n
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

// Stats summarizes one completed pack operation.
type Stats struct {
	Files    int
	Dirs     int
	Symlinks int
}

// Items is the total number of item rows the operation inserted.
func (s Stats) Items() int {
	return s.Files + s.Dirs + s.Symlinks
}
