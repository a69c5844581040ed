// Package storage uploads and deletes restaurant image blobs.
package storage

import (
	"context"
	"errors"
)

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Object is a stored blob reference.
type Object struct {
	Key      string
	Location string
	ETag     string
}

type ObjectStorage interface {
	// Upload stores every file or none of them.
	Upload(ctx context.Context, files []File) ([]Object, error)
	Delete(ctx context.Context, keys []string) error
}

// ErrNotConfigured is returned by Unconfigured for every operation that
// would touch the store.
var ErrNotConfigured = errors.New("object storage is not configured")

// Unconfigured stands in when no bucket is set, so the API still serves
// everything except image uploads.
type Unconfigured struct{}

func (Unconfigured) Upload(context.Context, []File) ([]Object, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Delete(_ context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return ErrNotConfigured
}
