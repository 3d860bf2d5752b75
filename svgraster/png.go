package svgraster

import (
	"bytes"
	"image"
	"image/png"
	"io"
)

// EncodePNG writes `m` to `w` in PNG format.
func EncodePNG(w io.Writer, m image.Image) error {
	return png.Encode(w, m)
}

// ToPNGBytes returns the PNG encoding of `m`.
func ToPNGBytes(m image.Image) ([]byte, error) {
	var b bytes.Buffer
	if err := EncodePNG(&b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
