package core

// staging.go holds the items entered for one supplier save before they
// reach the repository. Two staged items never share an identity: a
// colliding item is reported to the caller, who resolves it either by
// overwriting the staged item's commercial terms or by keeping both as
// distinct variants.

import (
	"fmt"
	"strings"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
)

// PlaceholderVariant is the variant given to a distinct duplicate that was
// entered without one.
const PlaceholderVariant = "Variante"

// Resolution selects how a duplicate staged item is resolved.
type Resolution int

const (
	// Overwrite replaces the staged item's purchase unit, quantity, cost,
	// sale unit and sale flags with the new item's.
	Overwrite Resolution = iota + 1
	// DistinctVariant keeps both items, forcing the new one to carry a
	// non-empty variant that no staged item uses.
	DistinctVariant
)

// ParseResolution reads a resolution name: "overwrite" or "variant".
func ParseResolution(s string) (Resolution, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "sobrescribir":
		return Overwrite, true
	case "variant", "variante", "distinct":
		return DistinctVariant, true
	default:
		return 0, false
	}
}

func (r Resolution) String() string {
	switch r {
	case Overwrite:
		return "overwrite"
	case DistinctVariant:
		return "variant"
	default:
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
}

// Batch is the ordered list of items staged for one save.
type Batch struct {
	items []ProductItem
}

// Stage adds item unless a staged item has the same identity. It returns
// the index of the new item, or the index of the colliding item with
// duplicate set and the batch unchanged.
func (b *Batch) Stage(item ProductItem) (index int, duplicate bool) {
	if i := b.find(identity(item.BaseName, item.Variant), -1); i >= 0 {
		return i, true
	}
	b.items = append(b.items, item)
	return len(b.items) - 1, false
}

// Resolve settles a collision reported by Stage between the staged item at
// index and item.
func (b *Batch) Resolve(index int, item ProductItem, res Resolution) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}

	switch res {
	case Overwrite:
		staged := &b.items[index]
		staged.PurchaseUnit = item.PurchaseUnit
		staged.QuantityPerPurchaseUnit = item.QuantityPerPurchaseUnit
		staged.CostPerPurchaseUnit = item.CostPerPurchaseUnit
		staged.SaleUnit = item.SaleUnit
		staged.AllowsFractionalSale = item.AllowsFractionalSale
		staged.AllowsWholeUnitSale = item.AllowsWholeUnitSale
		return nil

	case DistinctVariant:
		item.Variant = b.freeVariant(item.BaseName, item.Variant)
		b.items = append(b.items, item)
		return nil

	default:
		return apperr.Invalid("resolution", fmt.Sprintf("unknown resolution %d", int(res)))
	}
}

// Edit replaces the staged item at index. The new identity must not collide
// with another staged item.
func (b *Batch) Edit(index int, item ProductItem) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if other := b.find(identity(item.BaseName, item.Variant), index); other >= 0 {
		return apperr.Invalid("variant", fmt.Sprintf("same product as staged item %d", other))
	}
	b.items[index] = item
	return nil
}

// Remove deletes the staged item at index.
func (b *Batch) Remove(index int) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	return nil
}

// Items returns a copy of the staged items in order.
func (b *Batch) Items() []ProductItem {
	return append([]ProductItem(nil), b.items...)
}

// Len returns the number of staged items.
func (b *Batch) Len() int {
	return len(b.items)
}

// find returns the index of the staged item with the given identity,
// ignoring skip, or -1.
func (b *Batch) find(key string, skip int) int {
	for i, it := range b.items {
		if i != skip && identity(it.BaseName, it.Variant) == key {
			return i
		}
	}
	return -1
}

// freeVariant returns variant, or the placeholder when it is blank, with a
// numeric suffix appended until no staged item shares the identity.
func (b *Batch) freeVariant(baseName, variant string) string {
	base := strings.TrimSpace(variant)
	if base == "" {
		base = PlaceholderVariant
	}
	candidate := base
	for n := 2; b.find(identity(baseName, candidate), -1) >= 0; n++ {
		candidate = fmt.Sprintf("%s %d", base, n)
	}
	return candidate
}

func (b *Batch) checkIndex(index int) error {
	if index < 0 || index >= len(b.items) {
		return apperr.Invalid("index", fmt.Sprintf("no staged item %d", index))
	}
	return nil
}
