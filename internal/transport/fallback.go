package transport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// FallbackDocument saves a local copy ("download") when the remote store
// cannot be reached. Only ErrIO failures trigger it; format and encoding
// errors still propagate.
type FallbackDocument struct {
	Document
	dir string
	now func() time.Time
}

// WithDownloadFallback wraps doc so that a failed upload writes the
// serialized document to dir/merceria-<timestamp>.xlsx instead.
func WithDownloadFallback(doc Document, dir string) *FallbackDocument {
	return &FallbackDocument{Document: doc, dir: dir, now: time.Now}
}

// Persist uploads through the wrapped document, falling back to a local
// file on a transport failure. The fallback counts as a successful save;
// its path is recorded in the SaveReport carried by ctx, if any.
func (d *FallbackDocument) Persist(ctx context.Context, wb *workbook.Workbook) error {
	err := d.Document.Persist(ctx, wb)
	if err == nil || !errors.Is(err, apperr.ErrIO) {
		return err
	}

	data, encErr := workbook.Encode(wb)
	if encErr != nil {
		return encErr
	}
	if mkErr := os.MkdirAll(d.dir, 0o755); mkErr != nil {
		return fmt.Errorf("fallback dir: %w (upload error: %w)", mkErr, err)
	}
	path := filepath.Join(d.dir, "merceria-"+d.now().Format("20060102-150405.000")+".xlsx")
	if wErr := os.WriteFile(path, data, 0o644); wErr != nil {
		return fmt.Errorf("fallback write %s: %w (upload error: %w)", path, wErr, err)
	}

	if rep := SaveReportFromContext(ctx); rep != nil {
		rep.setFallback(path)
	}

	logging.FromContext(ctx).Warn("upload failed, document saved locally",
		"path", path,
		"bytes", len(data),
		"error", err,
	)
	return nil
}
