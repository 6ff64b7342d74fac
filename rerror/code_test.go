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

package rerror_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dbarc/rerror"
)

var _ = Describe("TC-ER-001: error kinds", func() {
	Context("TC-ER-002: constructors", func() {
		It("TC-ER-003: wraps a cause and keeps its code", func() {
			cause := fmt.Errorf("disk full")
			err := rerror.IO(cause, "writing %s", "blob")

			Expect(err.Code()).To(Equal(rerror.CodeIO))
			Expect(errors.Unwrap(err)).To(Equal(cause))
			Expect(err.Error()).To(ContainSubstring("disk full"))
		})

		It("TC-ER-004: NotFound carries no cause", func() {
			err := rerror.NotFound("path %q", "a/b")
			Expect(err.Code()).To(Equal(rerror.CodeNotFound))
			Expect(errors.Unwrap(err)).To(BeNil())
		})
	})

	Context("TC-ER-005: Is helper", func() {
		It("TC-ER-006: matches through a wrapped chain", func() {
			base := rerror.CorruptBundle("length mismatch")
			wrapped := fmt.Errorf("bundle 3: %w", base)

			Expect(rerror.Is(wrapped, rerror.CodeCorruptBundle)).To(BeTrue())
			Expect(rerror.Is(wrapped, rerror.CodeIO)).To(BeFalse())
		})

		It("TC-ER-007: returns false for a nil error", func() {
			Expect(rerror.Is(nil, rerror.CodeIO)).To(BeFalse())
		})
	})
})
