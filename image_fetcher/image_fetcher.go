package image_fetcher

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultMaxImageBytes = 25 << 20
)

type fetcherImpl struct {
	client        *http.Client
	maxImageBytes int64
}

type Config struct {
	Timeout       time.Duration
	MaxImageBytes int64
}

func New(cfg Config) (Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.MaxImageBytes == 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}

	return &fetcherImpl{
		client:        &http.Client{Timeout: cfg.Timeout},
		maxImageBytes: cfg.MaxImageBytes,
	}, nil
}

func (f *fetcherImpl) FetchImage(imageURL string) ([]byte, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return nil, err
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported image URL scheme: %q", parsed.Scheme)
	}

	request, err := http.NewRequest("GET", imageURL, nil)
	if err != nil {
		return nil, err
	}

	response, err := f.client.Do(request)
	if err != nil {
		log.Printf("Image URL: %s", imageURL)
		log.Printf("Error fetching image: %v", err)

		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		log.Printf("Image URL: %s", imageURL)

		return nil, fmt.Errorf("unexpected status %d fetching image", response.StatusCode)
	}

	// The CDN omits the header on some attachment URLs, so only reject
	// responses that declare a non-image type.
	contentType := response.Header.Get("Content-Type")

	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		log.Printf("Image URL: %s", imageURL)

		return nil, fmt.Errorf("unexpected content type %q fetching image", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, f.maxImageBytes+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > f.maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d byte limit", f.maxImageBytes)
	}

	return data, nil
}
