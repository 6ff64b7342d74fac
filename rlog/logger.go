/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package rlog is the archive's single logging sink: an hclog.Logger the
// pack/extract/store packages use to tag their output per subsystem, in
// place of the host library's much larger multi-hook logger tree (syslog,
// file rotation, gin integration) this single-shot CLI has no use for.
package rlog

import (
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu  sync.RWMutex
	dft = New(hclog.Info, os.Stderr)
)

// New builds a standalone root logger at the given level and writer.
func New(level hclog.Level, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:            "dbarc",
		Level:           level,
		Output:          w,
		IncludeLocation: false,
	})
}

// SetDefault replaces the package-wide default logger, e.g. to change its
// level or output writer.
func SetDefault(l hclog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	dft = l
}

// Named returns a child of the package-wide default logger scoped to name.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return dft.Named(name)
}
