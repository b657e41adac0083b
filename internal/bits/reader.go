// Package bits provides bit-level reading operations and binary decoding
// algorithms used to parse the FLAC bitstream.
package bits

import (
	"io"

	"github.com/icza/bitio"
)

// A Reader reads single bits and groups of bits (up to 64 at a time) from an
// underlying byte stream. It is the core bit-level primitive used throughout
// the meta and frame packages; unary decoding (ReadUnary) is built on top of
// Read, while UTF-8 coded integers are decoded byte-wise by the utf8 package.
type Reader struct {
	br *bitio.Reader
}

// NewReader returns a new Reader that reads bits from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// Read reads and returns the next n bits, at most 64, as the low-order bits of
// x. Bits are read most-significant-bit first, matching the big-endian bit
// order of the FLAC bitstream.
func (br *Reader) Read(n uint) (x uint64, err error) {
	if n == 0 {
		return 0, nil
	}
	return br.br.ReadBits(uint8(n))
}

// Align discards the buffered bits up to the next byte boundary, so that the
// next Read starts reading from a fresh byte.
func (br *Reader) Align() {
	br.br.Align()
}
