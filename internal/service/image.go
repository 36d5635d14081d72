package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var ErrBadImageURL = errors.New("image url missing or not http(s)")

// ImageService proxies vendor report images. The vendor CDN checks the
// Referer/Origin of its own viewer, so browsers cannot load the images
// directly and the UI routes them through this service instead.
type ImageService interface {
	// Fetch downloads the image and returns its bytes and content type.
	Fetch(ctx context.Context, rawURL string) ([]byte, string, error)
}

type imageService struct {
	gateway VendorGateway
}

// NewImageService constructs a new ImageService.
func NewImageService(gateway VendorGateway) ImageService {
	return &imageService{gateway: gateway}
}

func (s *imageService) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", ErrBadImageURL
	}
	data, ct, err := s.gateway.FetchImage(ctx, rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("image fetch failed: %w", err)
	}
	return data, ct, nil
}
