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

package pack_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dbarc/pack"
	"github.com/sabouaram/dbarc/store"
)

func newMemStore() *store.Store {
	s, err := store.Open(store.CreateInMemoryThenBackupTo(""), 4096)
	Expect(err).ToNot(HaveOccurred())
	return s
}

var _ = Describe("TC-PK-010: packing boundary scenarios", func() {
	It("TC-PK-011: an empty directory yields one dir item and no content", func() {
		dir := GinkgoT().TempDir()
		Expect(os.Mkdir(filepath.Join(dir, "dir"), 0o755)).To(Succeed())

		s := newMemStore()
		defer s.Close()

		stats, err := pack.Pack(context.Background(), s, filepath.Join(dir, "dir"), pack.Options{})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Dirs).To(Equal(1))
		Expect(stats.Files).To(Equal(0))

		entries, err := s.IterFilesWithPaths()
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Path).To(Equal("dir"))
	})

	It("TC-PK-012: a single empty file gets one zero-size itemcontent row", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "a.txt")
		Expect(os.WriteFile(path, nil, 0o644)).To(Succeed())

		s := newMemStore()
		defer s.Close()

		stats, err := pack.Pack(context.Background(), s, path, pack.Options{})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Files).To(Equal(1))

		entries, err := s.IterFilesWithPaths()
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))

		plan, err := s.ExtractPlan([]int64{entries[0].ID})
		Expect(err).ToNot(HaveOccurred())
		Expect(plan).To(HaveLen(1))
		Expect(plan[0].Size).To(Equal(int64(0)))
	})

	It("TC-PK-013: a small file fits in one bundle", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "hello.txt")
		Expect(os.WriteFile(path, []byte("hello\n"), 0o644)).To(Succeed())

		s := newMemStore()
		defer s.Close()

		_, err := pack.Pack(context.Background(), s, path, pack.Options{})
		Expect(err).ToNot(HaveOccurred())

		entries, err := s.IterFilesWithPaths()
		Expect(err).ToNot(HaveOccurred())
		plan, err := s.ExtractPlan([]int64{entries[0].ID})
		Expect(err).ToNot(HaveOccurred())
		Expect(plan).To(HaveLen(1))
		Expect(plan[0].ContentPos).To(Equal(int64(0)))
		Expect(plan[0].Size).To(Equal(int64(6)))

		raw, _, err := s.ReadBlobAll(plan[0].Content)
		Expect(err).ToNot(HaveOccurred())
		Expect(len(raw)).To(BeNumerically(">", 0))
	})

	It("TC-PK-014: a symlink is staged with its target as payload", func() {
		dir := GinkgoT().TempDir()
		Expect(os.Symlink("../target", filepath.Join(dir, "link"))).To(Succeed())

		s := newMemStore()
		defer s.Close()

		stats, err := pack.Pack(context.Background(), s, filepath.Join(dir, "link"), pack.Options{})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Symlinks).To(Equal(1))

		entries, err := s.IterFilesWithPaths()
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))

		plan, err := s.ExtractPlan([]int64{entries[0].ID})
		Expect(err).ToNot(HaveOccurred())
		Expect(plan[0].Size).To(Equal(int64(len("../target"))))
	})

	It("TC-PK-015: a directory tree with shared small files packs into one bundle", func() {
		dir := GinkgoT().TempDir()
		root := filepath.Join(dir, "root")
		Expect(os.Mkdir(root, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "a"), []byte("AAA"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "b"), []byte("BB"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "c"), []byte("C"), 0o644)).To(Succeed())

		s := newMemStore()
		defer s.Close()

		stats, err := pack.Pack(context.Background(), s, root, pack.Options{})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Files).To(Equal(3))
		Expect(stats.Dirs).To(Equal(1))

		entries, err := s.IterFilesWithPaths()
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(4))
	})

	It("TC-PK-016: runs identically with multiple bundle workers", func() {
		dir := GinkgoT().TempDir()
		root := filepath.Join(dir, "root")
		Expect(os.Mkdir(root, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "a"), []byte("AAA"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "b"), []byte("BB"), 0o644)).To(Succeed())

		s := newMemStore()
		defer s.Close()

		stats, err := pack.Pack(context.Background(), s, root, pack.Options{Workers: 4})
		Expect(err).ToNot(HaveOccurred())
		Expect(stats.Files).To(Equal(2))
		Expect(stats.Dirs).To(Equal(1))

		entries, err := s.IterFilesWithPaths()
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(3))
	})
})
