package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// HeaderIndex maps trimmed, lowercased column names to their position in a
// table's header row.
type HeaderIndex map[string]int

// Supplier is one row of the supplier table.
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`

	// Row is the physical row the record was read from (1 = first data row).
	Row int `json:"-"`
}

// SupplierInput holds the caller-supplied fields of a new supplier.
// Optional fields are stored as empty cells.
type SupplierInput struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"taxId" validate:"omitempty,len=11,numeric"`
	Phone   string `json:"phone" validate:"required,phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// ProductItem is a product as entered together with a supplier: its identity
// (base name and variant) plus the commercial terms of that supplier.
type ProductItem struct {
	BaseName                string          `json:"baseName" validate:"required"`
	Variant                 string          `json:"variant"`
	InternalCode            string          `json:"internalCode"`
	PurchaseUnit            string          `json:"purchaseUnit" validate:"required"`
	QuantityPerPurchaseUnit decimal.Decimal `json:"quantityPerPurchaseUnit" validate:"gt=0"`
	CostPerPurchaseUnit     decimal.Decimal `json:"costPerPurchaseUnit" validate:"min=0"`
	SaleUnit                string          `json:"saleUnit"`
	AllowsFractionalSale    bool            `json:"allowsFractionalSale"`
	AllowsWholeUnitSale     bool            `json:"allowsWholeUnitSale"`
}

// Product is one row of the product catalog.
type Product struct {
	ID                      string          `json:"id"`
	BaseName                string          `json:"baseName"`
	Variant                 string          `json:"variant"`
	InternalCode            string          `json:"internalCode"`
	PurchaseUnit            string          `json:"purchaseUnit"`
	QuantityPerPurchaseUnit decimal.Decimal `json:"quantityPerPurchaseUnit"`
	SaleUnit                string          `json:"saleUnit"`
	AllowsFractionalSale    bool            `json:"allowsFractionalSale"`
	AllowsWholeUnitSale     bool            `json:"allowsWholeUnitSale"`
	UseCostAsSalePrice      bool            `json:"useCostAsSalePrice"`
	CostPerPurchaseUnit     decimal.Decimal `json:"costPerPurchaseUnit"`
}

// SupplierProduct links a supplier to a product with that supplier's terms.
// A new link row is appended on every save, so the table doubles as price
// history.
type SupplierProduct struct {
	SupplierID              string          `json:"supplierId"`
	ProductID               string          `json:"productId"`
	PurchaseUnit            string          `json:"purchaseUnit"`
	QuantityPerPurchaseUnit decimal.Decimal `json:"quantityPerPurchaseUnit"`
	CostPerPurchaseUnit     decimal.Decimal `json:"costPerPurchaseUnit"`
	LastUpdated             string          `json:"lastUpdated"`
}

// SuppliedProduct is a product together with the latest terms under which
// a given supplier sells it.
type SuppliedProduct struct {
	Product Product         `json:"product"`
	Terms   SupplierProduct `json:"terms"`
}

// identity returns the deduplication key of a product: trimmed,
// case-insensitive base name and variant.
func identity(baseName, variant string) string {
	return strings.ToLower(strings.TrimSpace(baseName)) + "\x00" + strings.ToLower(strings.TrimSpace(variant))
}
