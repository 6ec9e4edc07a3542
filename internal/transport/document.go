// Package transport runs the fetch/persist half of every document
// transaction: it retrieves the current document bytes, validates and
// decodes them, and later serializes and uploads the mutated workbook.
//
// There is no atomicity across Fetch -> mutate -> Persist. Persist
// overwrites whatever is stored, so two callers racing the cycle silently
// lose one of the writes. The store is designed for a single writer.
package transport

import (
	"context"
	"fmt"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// ErrNoDocument is returned by Fetch when the store has never held a
// document. Transport does not synthesize one; bootstrap does.
var ErrNoDocument = fmt.Errorf("document has never been stored: %w", apperr.ErrNotFound)

// Document is the handle every repository operation works against.
type Document interface {
	// Fetch returns the current workbook.
	Fetch(ctx context.Context) (*workbook.Workbook, error)
	// Persist serializes the workbook and replaces the stored document.
	Persist(ctx context.Context, wb *workbook.Workbook) error
}

// load validates fetched bytes before running the full decoder.
func load(b []byte, contentType string) (*workbook.Workbook, error) {
	if err := workbook.Sniff(b, contentType); err != nil {
		return nil, err
	}
	return workbook.Decode(b)
}
