package image_fetcher

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchImageReturnsBody(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")

		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher, err := New(Config{})
	require.NoError(t, err)

	data, err := fetcher.FetchImage(server.URL + "/portrait.png")
	require.NoError(t, err)

	assert.Equal(t, payload, data)
}

func TestFetchImageAllowsMissingContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)

		_, _ = w.Write([]byte{1, 2, 3})
	}))
	defer server.Close()

	fetcher, err := New(Config{})
	require.NoError(t, err)

	data, err := fetcher.FetchImage(server.URL)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestFetchImageRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "html response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")

				_, _ = w.Write([]byte("<html>nope</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			fetcher, err := New(Config{})
			require.NoError(t, err)

			data, err := fetcher.FetchImage(server.URL)

			require.Error(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestFetchImageRejectsNonHTTPURL(t *testing.T) {
	fetcher, err := New(Config{})
	require.NoError(t, err)

	for _, imageURL := range []string{"", "ftp://example.com/hat.png", "attachment://hat.png"} {
		data, err := fetcher.FetchImage(imageURL)

		require.Error(t, err)
		assert.Nil(t, data)
	}
}

func TestFetchImageEnforcesSizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")

		_, _ = w.Write(make([]byte, 64))
	}))
	defer server.Close()

	fetcher, err := New(Config{MaxImageBytes: 16})
	require.NoError(t, err)

	data, err := fetcher.FetchImage(server.URL)

	require.Error(t, err)
	assert.Nil(t, data)
}
