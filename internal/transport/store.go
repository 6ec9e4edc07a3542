package transport

import (
	"context"
	"errors"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/blob"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// StoreDocument runs the same fetch/persist cycle directly against a blob
// store, without going through the HTTP proxy.
type StoreDocument struct {
	store blob.Store
	key   string
}

// NewStoreDocument returns a handle for the document stored under key.
func NewStoreDocument(store blob.Store, key string) *StoreDocument {
	return &StoreDocument{store: store, key: key}
}

func (d *StoreDocument) Fetch(ctx context.Context) (*workbook.Workbook, error) {
	obj, err := d.store.Get(ctx, d.key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, apperr.IO(err, "%s get %s", d.store.Name(), d.key)
	}

	logging.FromContext(ctx).Debug("document fetched",
		"backend", d.store.Name(),
		"key", d.key,
		"bytes", len(obj.Data),
	)
	return load(obj.Data, obj.ContentType)
}

func (d *StoreDocument) Persist(ctx context.Context, wb *workbook.Workbook) error {
	data, err := workbook.Encode(wb)
	if err != nil {
		return err
	}
	if err := d.store.Put(ctx, d.key, blob.Object{Data: data, ContentType: workbook.ContentType}); err != nil {
		return apperr.IO(err, "%s put %s", d.store.Name(), d.key)
	}

	logging.FromContext(ctx).Debug("document persisted",
		"backend", d.store.Name(),
		"key", d.key,
		"bytes", len(data),
	)
	return nil
}
