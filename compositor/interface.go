package compositor

import (
	"bytes"
	"image"
)

type Compositor interface {
	Composite(base image.Image, overlay image.Image, scale float64, offsetX, offsetY, rotationDeg int) (*image.NRGBA, error)
	EncodePNG(img image.Image) (*bytes.Buffer, error)
}
