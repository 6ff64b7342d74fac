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

// Package rerror provides the archive's error taxonomy: a small set of
// named kinds (Code) instead of the host library's full HTTP-like code
// table, since the archive format only ever needs to distinguish the
// handful of failure classes listed in its error handling design.
package rerror

import (
	"fmt"
)

// Code identifies one of the archive's error kinds.
type Code uint8

const (
	// CodeNone is never attached to a returned error.
	CodeNone Code = iota
	CodeIO
	CodeStore
	CodeCodec
	CodeCorruptBundle
	CodeSchemaMismatch
	CodeNotFound
	CodeUnsupported
	CodeIncompleteFile
	CodeAborted
)

var codeMessage = map[Code]string{
	CodeIO:             "i/o failure",
	CodeStore:          "store failure",
	CodeCodec:          "codec failure",
	CodeCorruptBundle:  "corrupt bundle",
	CodeSchemaMismatch: "schema mismatch",
	CodeNotFound:       "not found",
	CodeUnsupported:    "unsupported feature",
	CodeIncompleteFile: "incomplete file",
	CodeAborted:        "aborted",
}

// String returns the human-readable label for the code.
func (c Code) String() string {
	if m, ok := codeMessage[c]; ok {
		return m
	}
	return "unknown error"
}

// Error is the archive's concrete error type: a Code plus an optional
// wrapped cause and contextual message.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.err != nil {
		if e.msg != "" {
			return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
		}
		return fmt.Sprintf("%s: %v", e.code, e.err)
	}
	if e.msg != "" {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return e.code.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Code returns the error kind.
func (e *Error) Code() Code {
	if e == nil {
		return CodeNone
	}
	return e.code
}

// New builds an Error of the given code, formatting msg/args like fmt.Sprintf.
func New(code Code, msg string, args ...interface{}) *Error {
	return &Error{code: code, msg: fmt.Sprintf(msg, args...)}
}

// Wrap attaches code to an existing error, preserving it as the cause.
func Wrap(code Code, err error, msg string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: fmt.Sprintf(msg, args...), err: err}
}

// Is reports whether err (or anything in its chain) carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		if er, ok := err.(*Error); ok && er != nil && er.code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
