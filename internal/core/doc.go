// Package core provides the supplier and product operations of the
// spreadsheet-backed store.
//
// The spreadsheet document is the database. Every operation takes the
// document handle explicitly and runs one cycle against it:
//
//  1. Fetch the document and decode it into a workbook
//  2. Open the tables it needs through the table accessor, which resolves
//     columns from each sheet's own header row
//  3. Mutate rows in memory
//  4. Persist the whole workbook once
//
// Read operations stop after step 2. Nothing is written when an operation
// fails before step 4.
//
// # Tables
//
// Table layouts live in the schema package. Three tables are related:
// suppliers, the product catalog and the supplier-product links. A product
// is identified by its trimmed, case-insensitive base name and variant;
// saving the same product for a second supplier reuses the catalog row and
// only adds a link row.
//
// # Bootstrap
//
// [Bootstrap] creates a missing document and adds missing tables. It is the
// only place that synthesizes a document; all other operations report
// transport.ErrNoDocument.
//
// # Error Handling
//
// Operations return errors wrapping the apperr sentinels. [MapError] turns
// them into user messages with support codes.
//
// # Concurrency
//
// Operations hold no locks. Two operations racing the same document each
// persist their own view and the last write wins. [UploadLimiter] bounds
// memory used by uploads; it does not serialize writers.
package core
