package basket

import (
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

// Basket is the collection of purchasable lines a session holds before submission.
//
// Mutation is single-writer (one session, one request at a time), so the type
// itself carries no locking; concurrent access control belongs to the store
type Basket struct {
	Items []models.BasketItem `json:"items"`
}

// AddItem merges qty of a product into the basket. An existing line with the
// same (product, variant) identity has its quantity incremented; otherwise a
// new line is appended. qty below 1 defaults to 1
func (b *Basket) AddItem(product models.CatalogProduct, qty int, variant *models.Variant) {
	if qty < 1 {
		qty = 1
	}

	line := models.BasketItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.UnitPrice,
		Quantity:    qty,
		Variant:     variant,
	}

	for i := range b.Items {
		if b.Items[i].Key() == line.Key() {
			b.Items[i].Quantity += qty
			return
		}
	}

	b.Items = append(b.Items, line)
}

// RemoveItem deletes the line with the given identity, a no-op when absent
func (b *Basket) RemoveItem(productID, variantID string) {
	key := lineKey(productID, variantID)
	for i := range b.Items {
		if b.Items[i].Key() == key {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of an existing line.
// qty of 0 or below removes the line entirely
func (b *Basket) UpdateQuantity(productID string, qty int, variantID string) {
	if qty <= 0 {
		b.RemoveItem(productID, variantID)
		return
	}

	key := lineKey(productID, variantID)
	for i := range b.Items {
		if b.Items[i].Key() == key {
			b.Items[i].Quantity = qty
			return
		}
	}
}

// Clear drops every line
func (b *Basket) Clear() {
	b.Items = nil
}

// ItemCount returns the number of distinct lines
func (b *Basket) ItemCount() int {
	return len(b.Items)
}

// TotalQuantity returns the summed quantity over all lines
func (b *Basket) TotalQuantity() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns Σ (base price + variant modifier) × quantity in minor units
func (b *Basket) TotalPrice() int {
	total := 0
	for _, item := range b.Items {
		total += item.LineTotal()
	}
	return total
}

func lineKey(productID, variantID string) string {
	if variantID != "" {
		return productID + "/" + variantID
	}
	return productID
}
