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

package extract_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dbarc/extract"
	"github.com/sabouaram/dbarc/pack"
	"github.com/sabouaram/dbarc/store"
)

func packFixture(root string) *store.Store {
	s, err := store.Open(store.CreateInMemoryThenBackupTo(""), 4096)
	Expect(err).ToNot(HaveOccurred())
	_, err = pack.Pack(context.Background(), s, root, pack.Options{})
	Expect(err).ToNot(HaveOccurred())
	return s
}

var _ = Describe("TC-EX-001: round-tripping a packed tree", func() {
	It("TC-EX-002: recreates files, directories and symlinks byte-for-byte", func() {
		src := GinkgoT().TempDir()
		root := filepath.Join(src, "root")
		Expect(os.Mkdir(root, 0o755)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(root, "sub"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello\n"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world\n"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "empty.txt"), nil, 0o644)).To(Succeed())
		Expect(os.Symlink("../a.txt", filepath.Join(root, "sub", "link"))).To(Succeed())

		s := packFixture(root)
		defer s.Close()

		dest := GinkgoT().TempDir()
		stats, err := extract.Extract(context.Background(), s, nil, dest, extract.Options{})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Files).To(Equal(3))
		Expect(stats.Dirs).To(Equal(2))
		Expect(stats.Symlinks).To(Equal(1))

		got, err := os.ReadFile(filepath.Join(dest, "root", "a.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte("hello\n")))

		got, err = os.ReadFile(filepath.Join(dest, "root", "sub", "b.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte("world\n")))

		info, err := os.Stat(filepath.Join(dest, "root", "empty.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Size()).To(Equal(int64(0)))

		target, err := os.Readlink(filepath.Join(dest, "root", "sub", "link"))
		Expect(err).ToNot(HaveOccurred())
		Expect(target).To(Equal("../a.txt"))
	})

	It("TC-EX-003: extracting the same subtree twice is idempotent", func() {
		src := GinkgoT().TempDir()
		root := filepath.Join(src, "root")
		Expect(os.Mkdir(root, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello\n"), 0o644)).To(Succeed())

		s := packFixture(root)
		defer s.Close()

		dest := GinkgoT().TempDir()
		_, err := extract.Extract(context.Background(), s, nil, dest, extract.Options{})
		Expect(err).ToNot(HaveOccurred())
		_, err = extract.Extract(context.Background(), s, nil, dest, extract.Options{})
		Expect(err).ToNot(HaveOccurred())

		got, err := os.ReadFile(filepath.Join(dest, "root", "a.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte("hello\n")))
	})

	It("TC-EX-004: extracting a resolved subtree keeps its full archive path", func() {
		src := GinkgoT().TempDir()
		root := filepath.Join(src, "root")
		Expect(os.Mkdir(root, 0o755)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(root, "sub"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world\n"), 0o644)).To(Succeed())

		s := packFixture(root)
		defer s.Close()

		ids, err := s.LookupByPaths([]string{"root/sub"})
		Expect(err).ToNot(HaveOccurred())

		dest := GinkgoT().TempDir()
		_, err = extract.Extract(context.Background(), s, ids, dest, extract.Options{})
		Expect(err).ToNot(HaveOccurred())

		got, err := os.ReadFile(filepath.Join(dest, "root", "sub", "b.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte("world\n")))
	})

	It("TC-EX-005: runs identically with parallel bundle decompression", func() {
		src := GinkgoT().TempDir()
		root := filepath.Join(src, "root")
		Expect(os.Mkdir(root, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello\n"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "b.txt"), []byte("world\n"), 0o644)).To(Succeed())

		s := packFixture(root)
		defer s.Close()

		dest := GinkgoT().TempDir()
		stats, err := extract.Extract(context.Background(), s, nil, dest, extract.Options{Workers: 4})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Files).To(Equal(2))
	})
})
