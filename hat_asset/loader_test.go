package hat_asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santa_hat_bot/compositor"
)

func writeHatPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))

	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, A: 255})
		}
	}

	img.SetNRGBA(0, 0, color.NRGBA{})

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadReadsHatFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "santa_hat.png")
	writeHatPNG(t, path)

	loader, err := New(Config{Path: path})
	require.NoError(t, err)

	img, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestLoadMissingFile(t *testing.T) {
	loader, err := New(Config{Path: filepath.Join(t.TempDir(), "nope.png")})
	require.NoError(t, err)

	img, err := loader.Load()

	require.Error(t, err)
	assert.Nil(t, img)
	assert.True(t, errors.Is(err, &AssetMissingError{}))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hat.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	loader, err := New(Config{Path: path})
	require.NoError(t, err)

	_, err = loader.Load()

	require.Error(t, err)
	assert.True(t, errors.Is(err, &compositor.DecodeError{}))
}

func TestNewRequiresPath(t *testing.T) {
	loader, err := New(Config{})

	require.Error(t, err)
	assert.Nil(t, loader)
}
