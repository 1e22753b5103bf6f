package compositor

import (
	"bytes"
	"image"
	"io"

	// Portraits arrive as PNG or JPEG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Decode reads a PNG or JPEG raster and returns it converted to
// non-premultiplied RGBA. Input that cannot be parsed yields a DecodeError.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, NewDecodeError(err)
	}

	return imaging.Clone(img), nil
}

func DecodeBytes(data []byte) (*image.NRGBA, error) {
	return Decode(bytes.NewReader(data))
}
