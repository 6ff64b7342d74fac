/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Package codec wraps Zstandard as a pure byte-in/byte-out pair, plus the
// forward-compatibility Algorithm column the archive's content table reserves
// for a future non-zstd bundle.
package codec

// Algorithm names the compression applied to a content bundle. Only Zstd is
// ever produced by this module's pack pipeline; the others are accepted on
// read so an archive produced by a future writer doesn't fail SchemaMismatch
// on the algorithm name alone.
type Algorithm string

const (
	// Zstd is the only algorithm this module's pack pipeline ever writes.
	Zstd Algorithm = "zstd"
	// None means the bundle bytes are stored uncompressed.
	None Algorithm = "none"
)

// ParseAlgorithm maps a content.algorithm column value to an Algorithm,
// defaulting to Zstd when the column is empty (absence means "zstd" for
// backward compatibility, per the archive format's design notes).
func ParseAlgorithm(s string) Algorithm {
	switch Algorithm(s) {
	case None:
		return None
	case Zstd, "":
		return Zstd
	default:
		return Algorithm(s)
	}
}

func (a Algorithm) String() string {
	if a == "" {
		return string(Zstd)
	}
	return string(a)
}

// IsNone reports whether the bundle carries uncompressed bytes.
func (a Algorithm) IsNone() bool {
	return a == None
}
