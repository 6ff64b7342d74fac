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

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dbarc/internal/cli"
)

func run(args ...string) (string, error) {
	cmd := cli.New()
	cmd.SetArgs(args)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.Execute()
	return buf.String(), err
}

var _ = Describe("TC-CL-001: the dbarc command line", func() {
	var srcRoot, archivePath string

	BeforeEach(func() {
		srcRoot = filepath.Join(GinkgoT().TempDir(), "src")
		Expect(os.Mkdir(srcRoot, 0o755)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(srcRoot, "sub"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(srcRoot, "a.txt"), []byte("hello\n"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(srcRoot, "sub", "b.txt"), []byte("world\n"), 0o644)).To(Succeed())

		archivePath = filepath.Join(GinkgoT().TempDir(), "out.dbarc")
	})

	It("TC-CL-002: create reports the number of files packed", func() {
		out, err := run("create", archivePath, srcRoot)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("Added 2 files to " + archivePath + "\n"))

		_, statErr := os.Stat(archivePath)
		Expect(statErr).ToNot(HaveOccurred())
	})

	It("TC-CL-003: list prints one archived path per line", func() {
		_, err := run("create", archivePath, srcRoot)
		Expect(err).ToNot(HaveOccurred())

		out, err := run("list", archivePath)
		Expect(err).ToNot(HaveOccurred())

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		base := filepath.Base(srcRoot)
		Expect(lines).To(ContainElements(
			base,
			base+"/a.txt",
			base+"/sub",
			base+"/sub/b.txt",
		))
	})

	It("TC-CL-004: extract recreates the tree under the working directory", func() {
		_, err := run("create", archivePath, srcRoot)
		Expect(err).ToNot(HaveOccurred())

		dest := GinkgoT().TempDir()
		cwd, err := os.Getwd()
		Expect(err).ToNot(HaveOccurred())
		Expect(os.Chdir(dest)).To(Succeed())
		defer func() { _ = os.Chdir(cwd) }()

		out, err := run("extract", archivePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("Extracted 2 files from " + archivePath + "\n"))

		base := filepath.Base(srcRoot)
		got, err := os.ReadFile(filepath.Join(dest, base, "sub", "b.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte("world\n")))
	})

	It("TC-CL-005: extract-one restricts output to the resolved subtree", func() {
		_, err := run("create", archivePath, srcRoot)
		Expect(err).ToNot(HaveOccurred())

		dest := GinkgoT().TempDir()
		cwd, err := os.Getwd()
		Expect(err).ToNot(HaveOccurred())
		Expect(os.Chdir(dest)).To(Succeed())
		defer func() { _ = os.Chdir(cwd) }()

		base := filepath.Base(srcRoot)
		out, err := run("extract", archivePath, base+"/sub")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("Extracted 1 files from " + archivePath + "\n"))

		_, statErr := os.Stat(filepath.Join(dest, base, "a.txt"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())

		got, err := os.ReadFile(filepath.Join(dest, base, "sub", "b.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte("world\n")))
	})

	It("TC-CL-006: extract-one fails on an unresolvable path", func() {
		_, err := run("create", archivePath, srcRoot)
		Expect(err).ToNot(HaveOccurred())

		_, err = run("extract", archivePath, "does/not/exist")
		Expect(err).To(HaveOccurred())
	})

	It("TC-CL-007: opening a nonexistent archive fails", func() {
		_, err := run("list", filepath.Join(GinkgoT().TempDir(), "missing.dbarc"))
		Expect(err).To(HaveOccurred())
	})
})
