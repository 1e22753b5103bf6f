package hat_asset

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"

	"santa_hat_bot/compositor"
	"santa_hat_bot/png_inspector"
)

type loaderImpl struct {
	path string
}

type Config struct {
	Path string
}

func New(cfg Config) (Loader, error) {
	if cfg.Path == "" {
		return nil, errors.New("missing hat asset path")
	}

	return &loaderImpl{path: cfg.Path}, nil
}

// Load reads the hat image from disk on every call so a replaced file is
// picked up without restarting the bot.
func (l *loaderImpl) Load() (image.Image, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewAssetMissingError(l.path)
		}

		return nil, fmt.Errorf("error reading hat asset %s: %w", l.path, err)
	}

	l.warnIfOpaque(data)

	return compositor.DecodeBytes(data)
}

// warnIfOpaque flags hats that would composite as solid rectangles.
func (l *loaderImpl) warnIfOpaque(data []byte) {
	inspector, err := png_inspector.New(png_inspector.Config{PNGData: data})
	if err != nil {
		return
	}

	info, err := inspector.Info()
	if err != nil {
		return
	}

	if !info.HasAlpha {
		log.Printf("Hat asset %s has no alpha channel, it will cover the portrait as a solid block.", l.path)
	}
}
