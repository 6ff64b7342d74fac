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

	"github.com/spf13/cobra"

	"github.com/sabouaram/dbarc/extract"
	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/store"
)

func newExtractCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "extract <archive> [path]",
		Short: "reconstruct an archive, or one of its subtrees, into the current directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(store.OpenExisting(args[0]), 0)
			if err != nil {
				return err
			}
			defer s.Close()

			var ids []int64
			if len(args) == 2 {
				ids, err = s.LookupByPaths([]string{args[1]})
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					return rerror.NotFound("%s: no such path in archive", args[1])
				}
			}

			dest, err := os.Getwd()
			if err != nil {
				return rerror.IO(err, "resolving current directory")
			}

			stats, err := extract.Extract(cmd.Context(), s, ids, dest, extract.Options{Workers: workers})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d files from %s\n", stats.Files, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel bundle-decompression workers")
	return cmd
}
