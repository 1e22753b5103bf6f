package compositor

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red         = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	blue        = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	transparent = color.NRGBA{}
)

func newCompositor(t *testing.T) Compositor {
	t.Helper()

	c, err := New(Config{})
	require.NoError(t, err)

	return c
}

// boundingBox returns the rectangle spanned by every pixel that differs from
// the background color.
func boundingBox(t *testing.T, img *image.NRGBA, background color.NRGBA) image.Rectangle {
	t.Helper()

	minX, minY := img.Bounds().Dx(), img.Bounds().Dy()
	maxX, maxY := -1, -1

	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.NRGBAAt(x, y) == background {
				continue
			}

			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	require.GreaterOrEqual(t, maxX, 0, "expected at least one foreground pixel")

	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func TestCompositeKeepsBaseDimensions(t *testing.T) {
	c := newCompositor(t)

	tests := []struct {
		name         string
		baseW, baseH int
		scale        float64
		offsetX      int
		offsetY      int
		rotation     int
	}{
		{name: "no rotation", baseW: 320, baseH: 240, scale: 0.5},
		{name: "right angle", baseW: 100, baseH: 100, scale: 0.9, rotation: 90},
		{name: "odd angle with offsets", baseW: 150, baseH: 75, scale: 0.4, offsetX: -30, offsetY: 200, rotation: 45},
		{name: "overlay larger than base", baseW: 50, baseH: 50, scale: 3.0, rotation: -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := imaging.New(tt.baseW, tt.baseH, white)
			overlay := imaging.New(40, 20, red)

			result, err := c.Composite(base, overlay, tt.scale, tt.offsetX, tt.offsetY, tt.rotation)
			require.NoError(t, err)

			assert.Equal(t, tt.baseW, result.Bounds().Dx())
			assert.Equal(t, tt.baseH, result.Bounds().Dy())
		})
	}
}

func TestCompositeDoesNotMutateInputs(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(120, 120, white)
	overlay := imaging.New(60, 30, red)

	baseSnapshot := imaging.Clone(base)
	overlaySnapshot := imaging.Clone(overlay)

	_, err := c.Composite(base, overlay, 0.75, 5, -5, 30)
	require.NoError(t, err)

	assert.Equal(t, baseSnapshot.Pix, base.Pix)
	assert.Equal(t, overlaySnapshot.Pix, overlay.Pix)
}

func TestCompositeScaleCorrectness(t *testing.T) {
	c := newCompositor(t)

	// The overlay is 200x100, so the resized height is half the resized width.
	tests := []struct {
		baseW     int
		scale     float64
		wantWidth int
	}{
		{baseW: 800, scale: 0.5, wantWidth: 400},
		{baseW: 800, scale: 0.25, wantWidth: 200},
		{baseW: 801, scale: 0.5, wantWidth: 401},
		{baseW: 200, scale: 0.33, wantWidth: 66},
	}

	for _, tt := range tests {
		base := imaging.New(tt.baseW, tt.baseW, white)
		overlay := imaging.New(200, 100, red)

		result, err := c.Composite(base, overlay, tt.scale, 0, 0, 0)
		require.NoError(t, err)

		box := boundingBox(t, result, white)

		wantHeight := int(math.Floor(float64(tt.wantWidth)*0.5 + 0.5))

		assert.Equalf(t, tt.wantWidth, box.Dx(), "scale %v on base width %d", tt.scale, tt.baseW)
		assert.Equalf(t, wantHeight, box.Dy(), "scale %v on base width %d", tt.scale, tt.baseW)
	}
}

func TestCompositeRotationZeroMatchesUnrotated(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(800, 800, white)
	overlay := imaging.New(200, 100, red)

	result, err := c.Composite(base, overlay, 0.5, 3, 7, 0)
	require.NoError(t, err)

	resized := imaging.Resize(overlay, 400, 0, imaging.Lanczos)
	expected := imaging.Overlay(base, resized, image.Pt((800-400)/2+3, 7), 1.0)

	assert.Equal(t, expected.Pix, result.Pix)
}

func TestCompositeTransparentOverlayIsNoOp(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(64, 64, white)
	overlay := imaging.New(32, 16, transparent)

	result, err := c.Composite(base, overlay, 0.5, 0, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, base.Pix, result.Pix)
}

func TestCompositeCentersHorizontally(t *testing.T) {
	c := newCompositor(t)

	for _, baseW := range []int{800, 801, 640} {
		base := imaging.New(baseW, baseW, white)
		overlay := imaging.New(200, 100, red)

		result, err := c.Composite(base, overlay, 0.5, 0, 0, 0)
		require.NoError(t, err)

		box := boundingBox(t, result, white)

		boxMid := float64(box.Min.X+box.Max.X) / 2
		baseMid := float64(baseW) / 2

		assert.InDeltaf(t, baseMid, boxMid, 1.0, "base width %d", baseW)
	}
}

func TestCompositeStraightScenario(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(800, 800, white)
	overlay := imaging.New(200, 100, red)

	result, err := c.Composite(base, overlay, 0.5, 0, 0, 0)
	require.NoError(t, err)

	// The 200x100 overlay resizes to 400x200 and lands at x=(800-400)/2=200,
	// y=0: red fills rows [0,200) in columns [200,600), white elsewhere.
	for y := 0; y < 800; y++ {
		for x := 0; x < 800; x++ {
			want := white
			if x >= 200 && x < 600 && y < 200 {
				want = red
			}

			if got := result.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCompositeRotated90Scenario(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(800, 800, white)
	overlay := imaging.New(200, 100, red)

	result, err := c.Composite(base, overlay, 0.5, 0, 0, 90)
	require.NoError(t, err)

	// The resized 400x200 overlay turns 90 degrees into a 200x400 box placed
	// at x=(800-200)/2=300: the red region is the transpose of the unrotated
	// one, not the original 400x200 rectangle.
	for y := 0; y < 800; y++ {
		for x := 0; x < 800; x++ {
			want := white
			if x >= 300 && x < 500 && y < 400 {
				want = red
			}

			if got := result.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCompositeRotationDirection(t *testing.T) {
	c := newCompositor(t)

	// A 2x1 overlay, red on the left and blue on the right. Positive degrees
	// rotate counter-clockwise, so +90 carries the right (blue) pixel to the
	// top and -90 carries the left (red) pixel to the top.
	overlay := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	overlay.SetNRGBA(0, 0, red)
	overlay.SetNRGBA(1, 0, blue)

	base := imaging.New(2, 2, white)

	ccw, err := c.Composite(base, overlay, 1.0, 0, 0, 90)
	require.NoError(t, err)

	assert.Equal(t, blue, ccw.NRGBAAt(0, 0))
	assert.Equal(t, red, ccw.NRGBAAt(0, 1))

	cw, err := c.Composite(base, overlay, 1.0, 0, 0, -90)
	require.NoError(t, err)

	assert.Equal(t, red, cw.NRGBAAt(0, 0))
	assert.Equal(t, blue, cw.NRGBAAt(0, 1))
}

func TestCompositeRotationExpandsCanvas(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(800, 800, white)
	overlay := imaging.New(200, 100, red)

	result, err := c.Composite(base, overlay, 0.5, 0, 200, 45)
	require.NoError(t, err)

	box := boundingBox(t, result, white)

	// A 400x200 rectangle at 45 degrees spans (400+200)/sqrt(2) ~ 424 pixels
	// on both axes; the expanded canvas must not clip the corners.
	assert.InDelta(t, 424, box.Dx(), 6)
	assert.InDelta(t, 424, box.Dy(), 6)
}

func TestCompositeClipsOverflowSilently(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(100, 100, white)
	overlay := imaging.New(50, 50, red)

	t.Run("partially below the canvas", func(t *testing.T) {
		result, err := c.Composite(base, overlay, 0.4, 0, 90, 0)
		require.NoError(t, err)

		box := boundingBox(t, result, white)

		// The 40x40 overlay starts at y=90, so only its top 10 rows survive.
		assert.Equal(t, image.Rect(30, 90, 70, 100), box)
	})

	t.Run("entirely off the canvas", func(t *testing.T) {
		result, err := c.Composite(base, overlay, 0.4, -200, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, base.Pix, result.Pix)
	})
}

func TestCompositeOffsetsShiftPlacement(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(200, 200, white)
	overlay := imaging.New(50, 50, red)

	result, err := c.Composite(base, overlay, 0.25, 10, 30, 0)
	require.NoError(t, err)

	box := boundingBox(t, result, white)

	// 50x50 resizes to 50x50, centers at x=75, then shifts by the offsets.
	assert.Equal(t, image.Rect(85, 30, 135, 80), box)
}

func TestCompositeInvalidParameters(t *testing.T) {
	c := newCompositor(t)

	base := imaging.New(800, 800, white)
	overlay := imaging.New(200, 100, red)

	tests := []struct {
		name    string
		base    image.Image
		overlay image.Image
		scale   float64
	}{
		{name: "zero scale", base: base, overlay: overlay, scale: 0},
		{name: "negative scale", base: base, overlay: overlay, scale: -0.5},
		{name: "scale rounds to zero width", base: base, overlay: overlay, scale: 0.0001},
		{name: "empty base", base: image.NewNRGBA(image.Rectangle{}), overlay: overlay, scale: 0.5},
		{name: "empty overlay", base: base, overlay: image.NewNRGBA(image.Rectangle{}), scale: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Composite(tt.base, tt.overlay, tt.scale, 0, 0, 0)

			require.Error(t, err)
			assert.True(t, errors.Is(err, &InvalidParameterError{}), "expected an InvalidParameterError, got %v", err)
			assert.Nil(t, result)
		})
	}
}

func BenchmarkComposite(b *testing.B) {
	c, err := New(Config{})
	if err != nil {
		b.Fatal(err)
	}

	base := imaging.New(800, 800, white)
	overlay := imaging.New(200, 100, red)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := c.Composite(base, overlay, 0.6, 0, -10, 15)
		if err != nil {
			b.Fatal(err)
		}
	}
}
