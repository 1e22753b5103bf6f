package hat_asset

import "fmt"

// AssetMissingError is returned when the configured hat image does not
// exist on disk.
type AssetMissingError struct {
	path string
}

func NewAssetMissingError(path string) *AssetMissingError {
	return &AssetMissingError{path: path}
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("hat asset missing: %s", e.path)
}

func (e *AssetMissingError) Is(err error) bool {
	_, ok := err.(*AssetMissingError)

	return ok
}
