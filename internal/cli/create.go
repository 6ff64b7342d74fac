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

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sabouaram/dbarc/pack"
	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/store"
)

func newCreateCmd() *cobra.Command {
	var bundleSize int
	var workers int

	cmd := &cobra.Command{
		Use:   "create <archive> <input>",
		Short: "pack a filesystem tree into a new archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath, inputRoot := args[0], args[1]

			size, err := treeSize(inputRoot)
			if err != nil {
				return err
			}

			s, err := store.Open(store.CreateInMemoryThenBackupTo(archivePath), store.PageSizeFor(size))
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := pack.Pack(cmd.Context(), s, inputRoot, pack.Options{
				TargetBundleSize: bundleSize,
				Workers:          workers,
			})
			if err != nil {
				return err
			}

			if err = s.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d files to %s\n", stats.Files, archivePath)
			return nil
		},
	}

	cmd.Flags().IntVar(&bundleSize, "bundle-size", 0, "target uncompressed bundle size in bytes (clamped to 8MiB-32MiB)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel bundle-compression workers")
	return cmd
}

// treeSize sums the apparent size of every regular file under root, used to
// pick the archive's page size before a single byte has been packed.
func treeSize(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, rerror.IO(err, "walking %s", root)
	}
	return total, nil
}
