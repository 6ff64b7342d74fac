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

package codec

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/sabouaram/dbarc/rerror"
)

var (
	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error

	decOnce sync.Once
	dec     *zstd.Decoder
	decErr  error
)

func encoder() (*zstd.Encoder, error) {
	encOnce.Do(func() {
		enc, encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return enc, encErr
}

func decoder() (*zstd.Decoder, error) {
	decOnce.Do(func() {
		dec, decErr = zstd.NewReader(nil)
	})
	return dec, decErr
}

// Compress applies Zstandard at the package's fixed default level, with no
// dictionary, to the given bytes and returns the compressed form.
func Compress(data []byte) ([]byte, error) {
	e, err := encoder()
	if err != nil {
		return nil, rerror.Codec(err, "building zstd encoder")
	}
	return e.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decompress reverses Compress. The caller must supply the expected
// decompressed length; a produced length that disagrees, or input the codec
// rejects outright, is reported as CorruptBundle.
func Decompress(data []byte, expectedLen int) ([]byte, error) {
	d, err := decoder()
	if err != nil {
		return nil, rerror.Codec(err, "building zstd decoder")
	}

	out, err := d.DecodeAll(data, make([]byte, 0, expectedLen))
	if err != nil {
		return nil, rerror.CorruptBundle("zstd decode failed: %v", err)
	}
	if len(out) != expectedLen {
		return nil, rerror.CorruptBundle(
			"decompressed length %d does not match expected %d", len(out), expectedLen)
	}
	return out, nil
}
