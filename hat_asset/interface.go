package hat_asset

import "image"

type Loader interface {
	Load() (image.Image, error)
}
