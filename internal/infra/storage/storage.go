package storage

import (
	"context"
	"encoding/base64"
	"errors"
)

var ErrInvalidConfig = errors.New("storage: bucket and region are required")

// Store persists an encoded image and returns a URL the model API can fetch.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// DataURLStore inlines the image into a data: URL. Used when no bucket is configured.
type DataURLStore struct{}

func (DataURLStore) Put(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
