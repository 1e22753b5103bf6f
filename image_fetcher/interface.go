package image_fetcher

type Fetcher interface {
	FetchImage(imageURL string) ([]byte, error)
}
