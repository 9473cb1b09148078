package port

import (
	"context"
	"io"
)

// PutObjectInput describes an object to store.
type PutObjectInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// StoredObject is the result of a successful put.
type StoredObject struct {
	Key      string
	Location string
	ETag     string
}

// ObjectStorage stores document bytes in a single bucket.
type ObjectStorage interface {
	Put(ctx context.Context, input PutObjectInput) (*StoredObject, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expirySeconds int64) (string, error)
	Ping(ctx context.Context) error
}
