/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package codec_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dbarc/codec"
)

var _ = Describe("TC-CD-001: Zstandard codec", func() {
	Context("TC-CD-002: round trip", func() {
		It("TC-CD-003: compresses and decompresses arbitrary bytes", func() {
			src := bytes.Repeat([]byte("hello world, this repeats nicely. "), 200)

			compressed, err := codec.Compress(src)
			Expect(err).ToNot(HaveOccurred())
			Expect(len(compressed)).To(BeNumerically("<", len(src)))

			out, err := codec.Decompress(compressed, len(src))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(src))
		})

		It("TC-CD-004: handles the empty input", func() {
			compressed, err := codec.Compress(nil)
			Expect(err).ToNot(HaveOccurred())

			out, err := codec.Decompress(compressed, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
		})
	})

	Context("TC-CD-005: corruption detection", func() {
		It("TC-CD-006: rejects a length mismatch", func() {
			src := []byte("hello\n")
			compressed, err := codec.Compress(src)
			Expect(err).ToNot(HaveOccurred())

			_, err = codec.Decompress(compressed, len(src)+1)
			Expect(err).To(HaveOccurred())
		})

		It("TC-CD-007: rejects garbage input", func() {
			_, err := codec.Decompress([]byte{0, 1, 2, 3}, 4)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("TC-CD-008: Algorithm", func() {
		It("TC-CD-009: defaults empty string to zstd", func() {
			Expect(codec.ParseAlgorithm("")).To(Equal(codec.Zstd))
		})

		It("TC-CD-010: round-trips its own string form", func() {
			Expect(codec.ParseAlgorithm(codec.Zstd.String())).To(Equal(codec.Zstd))
		})
	})
})
