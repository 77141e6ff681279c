package providers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"time"

	// transcode accepts the common upload formats
	_ "image/gif"
	_ "image/png"
)

// maxImageBytes bounds the download so a hostile URL cannot exhaust memory
const maxImageBytes = 20 << 20

// HTTPImageFetcher downloads a report image and transcodes it to JPEG,
// the fixed encoding the vision call expects
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates a fetcher with the given call timeout
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	return &HTTPImageFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchJPEG downloads, decodes and re-encodes the image as JPEG
func (f *HTTPImageFetcher) FetchJPEG(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image http %d", resp.StatusCode)
	}

	limited := http.MaxBytesReader(nil, resp.Body, maxImageBytes)
	img, _, err := image.Decode(limited)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
