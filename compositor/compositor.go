// Package compositor implements the hat transform: resize an overlay graphic
// relative to a base portrait, rotate it about its center, and alpha-blend it
// over a copy of the base.
package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

type compositorImpl struct{}

type Config struct{}

func New(cfg Config) (Compositor, error) {
	return &compositorImpl{}, nil
}

// Composite returns a new image with the overlay placed over the base. The
// result always has the base's dimensions; neither input is mutated.
//
// The overlay is resized with a Lanczos filter so its width becomes
// round(base width * scale), keeping its aspect ratio, then rotated about its
// own center by rotationDeg degrees. Positive degrees rotate
// counter-clockwise, and the rotation canvas expands with a transparent fill
// so no corners are clipped. Horizontal placement centers the rotated overlay
// and shifts it by offsetX; vertical placement uses offsetY directly as the
// y-coordinate of the overlay's top edge. Overlay content falling outside the
// base canvas is clipped silently.
func (c *compositorImpl) Composite(base image.Image, overlay image.Image,
	scale float64, offsetX, offsetY, rotationDeg int) (*image.NRGBA, error) {
	if scale <= 0 {
		return nil, NewInvalidParameterError(fmt.Sprintf("scale must be positive, got %v", scale))
	}

	baseBounds := base.Bounds()
	if baseBounds.Dx() < 1 || baseBounds.Dy() < 1 {
		return nil, NewInvalidParameterError("base image is empty")
	}

	overlayBounds := overlay.Bounds()
	if overlayBounds.Dx() < 1 || overlayBounds.Dy() < 1 {
		return nil, NewInvalidParameterError("overlay image is empty")
	}

	targetWidth := int(math.Round(float64(baseBounds.Dx()) * scale))
	if targetWidth < 1 {
		return nil, NewInvalidParameterError(fmt.Sprintf("scale %v resolves to a zero-width overlay", scale))
	}

	resized := imaging.Resize(overlay, targetWidth, 0, imaging.Lanczos)

	rotated := resized
	if rotationDeg != 0 {
		rotated = imaging.Rotate(resized, float64(rotationDeg), color.Transparent)
	}

	position := image.Pt((baseBounds.Dx()-rotated.Bounds().Dx())/2+offsetX, offsetY)

	return imaging.Overlay(base, rotated, position, 1.0), nil
}

func (c *compositorImpl) EncodePNG(img image.Image) (*bytes.Buffer, error) {
	imageBuf := new(bytes.Buffer)

	err := png.Encode(imageBuf, img)
	if err != nil {
		return nil, err
	}

	return imageBuf, nil
}
