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

// Package cli wires the four archive operations onto a cobra command tree.
// No environment variables or configuration files are consumed here; every
// setting a command needs comes from its flags and positional arguments.
package cli

import (
	"github.com/spf13/cobra"
)

// New builds the root "dbarc" command with every subcommand attached.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "dbarc",
		Short:         "pack and extract single-file relational archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCreateCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newExtractCmd())

	return root
}
