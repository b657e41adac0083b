package meta

import (
	"errors"
	"io"
	"io/ioutil"
)

// ErrInvalidPadding reports that a Padding or reserved field in a metadata
// block body contained a non-zero byte.
var ErrInvalidPadding = errors.New("invalid padding")

// verifyPadding verifies the body of a Padding metadata block. It should only
// contain zero-padding.
func (block *Block) verifyPadding() error {
	zr := zeros{r: block.lr}
	_, err := io.Copy(ioutil.Discard, zr)
	return unexpected(err)
}

// zeros implements an io.Reader which returns ErrInvalidPadding if any byte
// read isn't zero.
type zeros struct {
	r io.Reader
}

func (zr zeros) Read(p []byte) (n int, err error) {
	n, err = zr.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] != 0 {
			return n, ErrInvalidPadding
		}
	}
	return n, err
}
