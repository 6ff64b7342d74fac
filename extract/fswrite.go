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

// Package extract reconstructs a filesystem tree from an archive opened via
// the store package, reversing the pack pipeline's bundling.
package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sabouaram/dbarc/rerror"
)

// cleanPath strips a leading path separator and resolves ".." segments so
// an archived path can never escape the destination root, regardless of
// what the archive's own item names contain.
func cleanPath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "/")
	if i := strings.Index(path, ":"); i >= 0 && filepath.Separator == '\\' {
		path = path[i+1:]
	}
	cleaned := filepath.Clean(path)
	for strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || cleaned == ".." {
		cleaned = strings.TrimPrefix(cleaned, "..")
		cleaned = strings.TrimPrefix(cleaned, string(filepath.Separator))
		if cleaned == "" {
			cleaned = "."
		}
		cleaned = filepath.Clean(cleaned)
	}
	return cleaned
}

// createPath recursively creates destDir and its ancestors. If destDir
// already exists and is not a directory, it fails.
func createPath(destDir string) error {
	if info, err := os.Stat(destDir); err == nil {
		if info.IsDir() {
			return nil
		}
		return rerror.IO(os.ErrInvalid, "%s exists and is not a directory", destDir)
	} else if !os.IsNotExist(err) {
		return rerror.IO(err, "stating %s", destDir)
	}

	if err := createPath(filepath.Dir(destDir)); err != nil {
		return err
	}
	if err := os.Mkdir(destDir, 0o750); err != nil && !os.IsExist(err) {
		return rerror.IO(err, "creating directory %s", destDir)
	}
	return nil
}

// openTruncated creates (or truncates) the output file for an archived
// path, creating its parent directories first.
func openTruncated(destRoot, archivedPath string) (*os.File, error) {
	dst := filepath.Join(destRoot, cleanPath(archivedPath))

	if err := createPath(filepath.Dir(dst)); err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(filepath.Dir(dst))
	if err != nil {
		return nil, rerror.IO(err, "opening root %s", filepath.Dir(dst))
	}
	defer root.Close()

	f, err := root.Create(filepath.Base(dst))
	if err != nil {
		return nil, rerror.IO(err, "creating %s", dst)
	}
	return f, nil
}

// writeSymlink creates a symlink at the archived path with the given
// target, creating its parent directories first.
func writeSymlink(destRoot, archivedPath string, target []byte) error {
	dst := filepath.Join(destRoot, cleanPath(archivedPath))

	if err := createPath(filepath.Dir(dst)); err != nil {
		return err
	}
	_ = os.Remove(dst)
	if err := os.Symlink(string(target), dst); err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			return rerror.Unsupported("symlinks not supported creating %s", dst)
		}
		return rerror.IO(err, "creating symlink %s", dst)
	}
	return nil
}
