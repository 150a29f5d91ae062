// Package storage keeps the bytes of uploaded files. Metadata lives in the database.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Delete when there's nothing stored under the name
var ErrNotExist = errors.New("file does not exist")

type Storage interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	Delete(ctx context.Context, name string) error
}
