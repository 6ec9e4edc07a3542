package core

import (
	"context"
	"errors"

	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/schema"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// BootstrapResult reports what Bootstrap changed.
type BootstrapResult struct {
	// NewDocument is set when the store held no document.
	NewDocument bool `json:"newDocument"`
	// Created lists the tables that were added, in declaration order.
	Created []string `json:"created"`
	// Persisted is set when the document was written.
	Persisted bool `json:"persisted"`
}

// EnsureAllTables adds every registry table missing from wb and returns
// the names of those it created.
func EnsureAllTables(wb *workbook.Workbook) []string {
	var created []string
	for _, name := range schema.Names() {
		if _, ok := EnsureTable(wb, name); ok {
			created = append(created, name)
		}
	}
	return created
}

// Bootstrap makes sure the document exists and carries all tables. A store
// without a document gets a fresh one; this is the only place a document is
// synthesized. The document is persisted once, and only when something
// changed, so repeated runs are no-ops.
func Bootstrap(ctx context.Context, doc transport.Document) (BootstrapResult, error) {
	var res BootstrapResult

	wb, err := doc.Fetch(ctx)
	if errors.Is(err, transport.ErrNoDocument) {
		wb = workbook.New()
		res.NewDocument = true
	} else if err != nil {
		return res, err
	}

	res.Created = EnsureAllTables(wb)
	if !res.NewDocument && len(res.Created) == 0 {
		logging.FromContext(ctx).Debug("document structure complete")
		return res, nil
	}

	if err := doc.Persist(ctx, wb); err != nil {
		return res, err
	}
	res.Persisted = true

	logging.FromContext(ctx).Info("document structure repaired",
		"new_document", res.NewDocument,
		"created", res.Created,
	)
	return res, nil
}
