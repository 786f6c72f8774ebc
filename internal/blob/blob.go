// Package blob abstracts object content storage behind a narrow interface so
// file metadata handling stays independent of where bytes live.
package blob

import (
	"context"
	"io"
)

// Store persists opaque object content under string keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
