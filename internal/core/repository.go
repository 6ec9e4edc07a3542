package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/schema"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// Repository implements the supplier and product operations on top of a
// document. Every mutating operation runs one fetch -> mutate -> persist
// cycle; read operations never persist.
type Repository struct {
	ids      IDGenerator
	now      func() time.Time
	language language.Tag
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDGenerator replaces the default uuid-based id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Repository) { r.ids = g }
}

// WithClock replaces time.Now for link timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithCollation sets the language used to sort supplier names.
func WithCollation(tag language.Tag) Option {
	return func(r *Repository) { r.language = tag }
}

// NewRepository creates a repository. Names sort with Spanish collation
// unless WithCollation says otherwise.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		ids:      UUIDGenerator{},
		now:      time.Now,
		language: language.Spanish,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateSupplier appends a supplier with a fresh id and persists the
// document. The input is not validated here.
func (r *Repository) CreateSupplier(ctx context.Context, doc transport.Document, in SupplierInput) (string, error) {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return "", err
	}

	id, err := r.createSupplier(wb, in)
	if err != nil {
		return "", err
	}
	if err := doc.Persist(ctx, wb); err != nil {
		return "", err
	}

	logging.FromContext(ctx).Info("supplier created", "supplier_id", id)
	return id, nil
}

// UpsertProductsForSupplier attaches items to an existing supplier.
//
// Each item resolves to a catalog product by identity (trimmed,
// case-insensitive base name and variant). An existing product only has
// its empty shared fields filled in; the first supplier to provide purchase
// unit, quantity, sale unit or sale flags wins. A missing product is
// created with use-cost-as-sale-price off and a zero catalog cost. Every
// item then gets a new link row carrying its own terms.
//
// An unknown supplier fails with apperr.ErrNotFound and nothing is written.
func (r *Repository) UpsertProductsForSupplier(ctx context.Context, doc transport.Document, supplierID string, items []ProductItem) error {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return err
	}

	suppliers, err := openTable(wb, schema.Suppliers)
	if err != nil {
		return err
	}
	if strings.TrimSpace(supplierID) == "" || suppliers.findRow(schema.SupplierID, supplierID) == 0 {
		return apperr.NotFound("supplier", supplierID)
	}
	if len(items) == 0 {
		return nil
	}

	if err := r.upsertProducts(wb, strings.TrimSpace(supplierID), items); err != nil {
		return err
	}
	if err := doc.Persist(ctx, wb); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("supplier products saved",
		"supplier_id", supplierID,
		"items", len(items),
	)
	return nil
}

// SaveSupplierWithProducts creates a supplier and attaches items to it in a
// single fetch -> mutate -> persist cycle.
func (r *Repository) SaveSupplierWithProducts(ctx context.Context, doc transport.Document, in SupplierInput, items []ProductItem) (string, error) {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return "", err
	}

	id, err := r.createSupplier(wb, in)
	if err != nil {
		return "", err
	}
	if len(items) > 0 {
		if err := r.upsertProducts(wb, id, items); err != nil {
			return "", err
		}
	}
	if err := doc.Persist(ctx, wb); err != nil {
		return "", err
	}

	logging.FromContext(ctx).Info("supplier saved",
		"supplier_id", id,
		"items", len(items),
	)
	return id, nil
}

// ListSuppliers returns every supplier with a non-empty id, fields trimmed,
// sorted by name with the configured collation. Equal names keep document
// order.
func (r *Repository) ListSuppliers(ctx context.Context, doc transport.Document) ([]Supplier, error) {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	t, err := openTable(wb, schema.Suppliers)
	if err != nil {
		return nil, err
	}

	out := make([]Supplier, 0, t.rows()-1)
	for row := 1; row < t.rows(); row++ {
		if t.getTrim(row, schema.SupplierID) == "" {
			continue
		}
		out = append(out, readSupplier(t, row))
	}

	// Collators are not safe for concurrent use.
	c := collate.New(r.language, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out, nil
}

// GetSupplier looks a supplier up by id. A missing supplier is reported
// with found=false, not as an error.
func (r *Repository) GetSupplier(ctx context.Context, doc transport.Document, id string) (Supplier, bool, error) {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return Supplier{}, false, err
	}
	t, err := openTable(wb, schema.Suppliers)
	if err != nil {
		return Supplier{}, false, err
	}
	if strings.TrimSpace(id) == "" {
		return Supplier{}, false, nil
	}

	row := t.findRow(schema.SupplierID, id)
	if row == 0 {
		return Supplier{}, false, nil
	}
	return readSupplier(t, row), true, nil
}

// UpdateSupplierBasic overwrites every field of the supplier with s.ID.
// An unknown id fails with apperr.ErrNotFound and nothing is written.
func (r *Repository) UpdateSupplierBasic(ctx context.Context, doc transport.Document, s Supplier) error {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return err
	}
	t, err := openTable(wb, schema.Suppliers)
	if err != nil {
		return err
	}

	row := 0
	if strings.TrimSpace(s.ID) != "" {
		row = t.findRow(schema.SupplierID, s.ID)
	}
	if row == 0 {
		return apperr.NotFound("supplier", s.ID)
	}

	t.set(row, schema.SupplierName, s.Name)
	t.set(row, schema.SupplierTaxID, s.TaxID)
	t.set(row, schema.SupplierPhone, s.Phone)
	t.set(row, schema.SupplierEmail, s.Email)
	t.set(row, schema.SupplierAddress, s.Address)
	t.set(row, schema.SupplierNotes, s.Notes)
	t.commit(wb)

	if err := doc.Persist(ctx, wb); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("supplier updated", "supplier_id", s.ID, "row", row)
	return nil
}

// ListProductsForSupplier returns the products a supplier sells with the
// latest terms recorded for each, in order of first appearance. Links to
// products missing from the catalog are skipped.
func (r *Repository) ListProductsForSupplier(ctx context.Context, doc transport.Document, supplierID string) ([]SuppliedProduct, error) {
	wb, err := doc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	products, err := openTable(wb, schema.Products)
	if err != nil {
		return nil, err
	}
	links, err := openTable(wb, schema.SupplierProducts)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]Product, products.rows())
	for row := 1; row < products.rows(); row++ {
		p := readProduct(products, row)
		if p.ID != "" {
			catalog[p.ID] = p
		}
	}

	supplierID = strings.TrimSpace(supplierID)
	var out []SuppliedProduct
	pos := make(map[string]int)
	for row := 1; row < links.rows(); row++ {
		if links.getTrim(row, schema.LinkSupplierID) != supplierID {
			continue
		}
		link := readLink(links, row)
		p, ok := catalog[link.ProductID]
		if !ok {
			logging.FromContext(ctx).Debug("link to unknown product skipped",
				"supplier_id", supplierID,
				"product_id", link.ProductID,
				"row", row,
			)
			continue
		}
		if i, seen := pos[link.ProductID]; seen {
			out[i].Terms = link
			continue
		}
		pos[link.ProductID] = len(out)
		out = append(out, SuppliedProduct{Product: p, Terms: link})
	}
	return out, nil
}

func (r *Repository) createSupplier(wb *workbook.Workbook, in SupplierInput) (string, error) {
	t, err := openTable(wb, schema.Suppliers)
	if err != nil {
		return "", err
	}

	id := r.ids.NewID(SupplierIDPrefix)
	t.appendRow(map[string]string{
		schema.SupplierID:      id,
		schema.SupplierName:    in.Name,
		schema.SupplierTaxID:   in.TaxID,
		schema.SupplierPhone:   in.Phone,
		schema.SupplierEmail:   in.Email,
		schema.SupplierAddress: in.Address,
		schema.SupplierNotes:   in.Notes,
	})
	t.commit(wb)
	return id, nil
}

// upsertProducts applies items to the product and link tables of wb.
// The caller has checked that supplierID exists.
func (r *Repository) upsertProducts(wb *workbook.Workbook, supplierID string, items []ProductItem) error {
	products, err := openTable(wb, schema.Products)
	if err != nil {
		return err
	}
	links, err := openTable(wb, schema.SupplierProducts)
	if err != nil {
		return err
	}

	byIdentity := make(map[string]int, products.rows())
	for row := 1; row < products.rows(); row++ {
		key := identity(products.get(row, schema.ProductBaseName), products.get(row, schema.ProductVariant))
		if _, dup := byIdentity[key]; !dup {
			byIdentity[key] = row
		}
	}

	stamp := FormatTimestamp(r.now())
	for _, item := range items {
		key := identity(item.BaseName, item.Variant)

		var productID string
		if row, ok := byIdentity[key]; ok {
			productID = r.fillProduct(products, row, item)
		} else {
			productID = r.ids.NewID(ProductIDPrefix)
			row = products.appendRow(map[string]string{
				schema.ProductID:                  productID,
				schema.ProductBaseName:            strings.TrimSpace(item.BaseName),
				schema.ProductVariant:             strings.TrimSpace(item.Variant),
				schema.ProductInternalCode:        strings.TrimSpace(item.InternalCode),
				schema.ProductPurchaseUnit:        item.PurchaseUnit,
				schema.ProductQtyPerPurchaseUnit:  FormatDecimal(item.QuantityPerPurchaseUnit),
				schema.ProductSaleUnit:            item.SaleUnit,
				schema.ProductAllowsFraction:      FormatBool(item.AllowsFractionalSale),
				schema.ProductAllowsWhole:         FormatBool(item.AllowsWholeUnitSale),
				schema.ProductUseCostAsSalePrice:  FormatBool(false),
				schema.ProductCostPerPurchaseUnit: "0",
			})
			byIdentity[key] = row
		}

		links.appendRow(map[string]string{
			schema.LinkSupplierID:          supplierID,
			schema.LinkProductID:           productID,
			schema.LinkPurchaseUnit:        item.PurchaseUnit,
			schema.LinkQtyPerPurchaseUnit:  FormatDecimal(item.QuantityPerPurchaseUnit),
			schema.LinkCostPerPurchaseUnit: FormatDecimal(item.CostPerPurchaseUnit),
			schema.LinkLastUpdated:         stamp,
		})
	}

	products.commit(wb)
	links.commit(wb)
	return nil
}

// fillProduct fills the unset shared fields of an existing product row and
// returns its id, assigning one when the row has none.
func (r *Repository) fillProduct(t *table, row int, item ProductItem) string {
	fill := func(column, value string) {
		if t.getTrim(row, column) == "" && value != "" {
			t.set(row, column, value)
		}
	}
	fill(schema.ProductPurchaseUnit, item.PurchaseUnit)
	// A zero or unreadable quantity counts as unset.
	if qty, ok := ParseDecimal(t.get(row, schema.ProductQtyPerPurchaseUnit)); !ok || qty.IsZero() {
		if item.QuantityPerPurchaseUnit.IsPositive() {
			t.set(row, schema.ProductQtyPerPurchaseUnit, FormatDecimal(item.QuantityPerPurchaseUnit))
		}
	}
	fill(schema.ProductSaleUnit, item.SaleUnit)
	fill(schema.ProductAllowsFraction, FormatBool(item.AllowsFractionalSale))
	fill(schema.ProductAllowsWhole, FormatBool(item.AllowsWholeUnitSale))

	id := t.getTrim(row, schema.ProductID)
	if id == "" {
		id = r.ids.NewID(ProductIDPrefix)
		t.set(row, schema.ProductID, id)
	}
	return id
}

func readSupplier(t *table, row int) Supplier {
	return Supplier{
		ID:      t.getTrim(row, schema.SupplierID),
		Name:    t.getTrim(row, schema.SupplierName),
		TaxID:   t.getTrim(row, schema.SupplierTaxID),
		Phone:   t.getTrim(row, schema.SupplierPhone),
		Email:   t.getTrim(row, schema.SupplierEmail),
		Address: t.getTrim(row, schema.SupplierAddress),
		Notes:   t.getTrim(row, schema.SupplierNotes),
		Row:     row,
	}
}

func readProduct(t *table, row int) Product {
	qty, _ := ParseDecimal(t.get(row, schema.ProductQtyPerPurchaseUnit))
	cost, _ := ParseDecimal(t.get(row, schema.ProductCostPerPurchaseUnit))
	fraction, _ := ParseBool(t.get(row, schema.ProductAllowsFraction))
	whole, _ := ParseBool(t.get(row, schema.ProductAllowsWhole))
	useCost, _ := ParseBool(t.get(row, schema.ProductUseCostAsSalePrice))

	return Product{
		ID:                      t.getTrim(row, schema.ProductID),
		BaseName:                t.getTrim(row, schema.ProductBaseName),
		Variant:                 t.getTrim(row, schema.ProductVariant),
		InternalCode:            t.getTrim(row, schema.ProductInternalCode),
		PurchaseUnit:            t.getTrim(row, schema.ProductPurchaseUnit),
		QuantityPerPurchaseUnit: qty,
		SaleUnit:                t.getTrim(row, schema.ProductSaleUnit),
		AllowsFractionalSale:    fraction,
		AllowsWholeUnitSale:     whole,
		UseCostAsSalePrice:      useCost,
		CostPerPurchaseUnit:     cost,
	}
}

func readLink(t *table, row int) SupplierProduct {
	qty, _ := ParseDecimal(t.get(row, schema.LinkQtyPerPurchaseUnit))
	cost, _ := ParseDecimal(t.get(row, schema.LinkCostPerPurchaseUnit))

	return SupplierProduct{
		SupplierID:              t.getTrim(row, schema.LinkSupplierID),
		ProductID:               t.getTrim(row, schema.LinkProductID),
		PurchaseUnit:            t.getTrim(row, schema.LinkPurchaseUnit),
		QuantityPerPurchaseUnit: qty,
		CostPerPurchaseUnit:     cost,
		LastUpdated:             t.getTrim(row, schema.LinkLastUpdated),
	}
}
