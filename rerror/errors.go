/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package rerror

// IO wraps an I/O failure (traversal, read, write, metadata syscall).
func IO(err error, msg string, args ...interface{}) *Error {
	return Wrap(CodeIO, err, msg, args...)
}

// Store wraps a failure reported by the underlying relational store.
func Store(err error, msg string, args ...interface{}) *Error {
	return Wrap(CodeStore, err, msg, args...)
}

// Codec wraps a Zstandard encode/decode failure.
func Codec(err error, msg string, args ...interface{}) *Error {
	return Wrap(CodeCodec, err, msg, args...)
}

// CorruptBundle reports a decompressed-length mismatch or a rejected bundle.
func CorruptBundle(msg string, args ...interface{}) *Error {
	return New(CodeCorruptBundle, msg, args...)
}

// SchemaMismatch reports that an opened file is not an archive of this format.
func SchemaMismatch(err error, msg string, args ...interface{}) *Error {
	return Wrap(CodeSchemaMismatch, err, msg, args...)
}

// NotFound reports that a requested path resolves to no item.
func NotFound(msg string, args ...interface{}) *Error {
	return New(CodeNotFound, msg, args...)
}

// Unsupported reports a feature unavailable on the current platform.
func Unsupported(msg string, args ...interface{}) *Error {
	return New(CodeUnsupported, msg, args...)
}

// IncompleteFile reports that an output file's written coverage fell short.
func IncompleteFile(msg string, args ...interface{}) *Error {
	return New(CodeIncompleteFile, msg, args...)
}

// Aborted reports a cooperative cancellation.
func Aborted(msg string, args ...interface{}) *Error {
	return New(CodeAborted, msg, args...)
}
