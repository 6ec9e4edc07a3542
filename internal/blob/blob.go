// Package blob stores whole documents by key. It is the object store the
// document proxy serves from: a Store only knows how to fetch the current
// bytes of a key and how to replace them.
//
// Put overwrites unconditionally. No store offers compare-and-swap, so two
// writers racing on the same key end with whichever Put landed last.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
)

// ErrNotFound is returned by Get when nothing has ever been stored under the key.
var ErrNotFound = fmt.Errorf("blob: %w", apperr.ErrNotFound)

// Object is the stored document plus its metadata.
type Object struct {
	Data        []byte
	ContentType string
	UpdatedAt   time.Time
}

// Store is a key/value store for whole documents.
type Store interface {
	Get(ctx context.Context, key string) (Object, error)
	Put(ctx context.Context, key string, obj Object) error
	// Name identifies the backend in logs and health output.
	Name() string
}
