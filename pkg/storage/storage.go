package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// ImageStorage defines the contract for the image storage provider.
type ImageStorage interface {
	// UploadImage uploads image from reader and returns its public URL.
	// folder is a logical folder in storage (e.g. "avatars", "submissions").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage deletes an image from storage using its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}

// NewFromEnv returns the Cloudinary-backed storage when CLOUDINARY_URL is
// configured, otherwise the placeholder storage used in development.
func NewFromEnv() (ImageStorage, error) {
	if os.Getenv("CLOUDINARY_URL") != "" {
		return NewCloudinaryStorage()
	}
	return NewPlaceholderStorage(), nil
}

// placeholderStorage serves environments without an upload provider: it hands
// back a stable placeholder URL and discards the bytes.
type placeholderStorage struct {
	baseURL string
}

func NewPlaceholderStorage() ImageStorage {
	base := os.Getenv("PLACEHOLDER_IMAGE_BASE_URL")
	if base == "" {
		base = "https://placehold.co/600x600"
	}
	return &placeholderStorage{baseURL: base}
}

func (s *placeholderStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return fmt.Sprintf("%s?t=%d", s.baseURL, time.Now().UnixNano()), nil
}

func (s *placeholderStorage) DeleteImage(ctx context.Context, fileURL string) error {
	return nil
}
