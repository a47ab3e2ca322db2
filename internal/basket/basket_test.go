package basket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

var (
	smokedTrout = models.CatalogProduct{ID: "p-trout", Name: "Smoked trout fillet", UnitPrice: 3490}
	fishPate    = models.CatalogProduct{ID: "p-pate", Name: "Trout pâté", UnitPrice: 1890}

	largeJar = &models.Variant{ID: "v-large", Name: "Large jar", PriceModifier: 500, Available: true}
)

func TestAddItemMergesByIdentityKey(t *testing.T) {
	var b Basket

	b.AddItem(smokedTrout, 1, nil)
	b.AddItem(smokedTrout, 2, nil)

	require.Equal(t, 1, b.ItemCount())
	assert.Equal(t, 3, b.Items[0].Quantity)
}

func TestAddItemVariantsAreSeparateLines(t *testing.T) {
	var b Basket

	b.AddItem(fishPate, 1, nil)
	b.AddItem(fishPate, 1, largeJar)

	require.Equal(t, 2, b.ItemCount())

	// same variant merges back into its own line
	b.AddItem(fishPate, 1, largeJar)
	require.Equal(t, 2, b.ItemCount())
	assert.Equal(t, 2, b.Items[1].Quantity)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	var b Basket

	b.AddItem(smokedTrout, 0, nil)

	require.Equal(t, 1, b.ItemCount())
	assert.Equal(t, 1, b.Items[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	var b Basket
	b.AddItem(smokedTrout, 2, nil)

	b.UpdateQuantity("p-trout", 5, "")
	assert.Equal(t, 5, b.Items[0].Quantity)

	// zero or negative removes the line entirely
	b.UpdateQuantity("p-trout", 0, "")
	assert.Equal(t, 0, b.ItemCount())

	b.AddItem(fishPate, 1, largeJar)
	b.UpdateQuantity("p-pate", -3, "v-large")
	assert.Equal(t, 0, b.ItemCount())
}

func TestRemoveItem(t *testing.T) {
	var b Basket
	b.AddItem(smokedTrout, 1, nil)
	b.AddItem(fishPate, 1, largeJar)

	b.RemoveItem("p-pate", "v-large")
	require.Equal(t, 1, b.ItemCount())
	assert.Equal(t, "p-trout", b.Items[0].ProductID)

	// removing something absent is a no-op
	b.RemoveItem("p-nothing", "")
	assert.Equal(t, 1, b.ItemCount())
}

func TestDerivedTotals(t *testing.T) {
	var b Basket
	b.AddItem(smokedTrout, 2, nil)        // 2 × 3490
	b.AddItem(fishPate, 3, largeJar)      // 3 × (1890+500)
	b.UpdateQuantity("p-trout", 1, "")    // 1 × 3490
	b.AddItem(fishPate, 1, largeJar)      // 4 × 2390

	assert.Equal(t, 2, b.ItemCount())
	assert.Equal(t, 5, b.TotalQuantity())
	assert.Equal(t, 1*3490+4*(1890+500), b.TotalPrice())

	b.Clear()
	assert.Equal(t, 0, b.TotalPrice())
	assert.Equal(t, 0, b.ItemCount())
}

func TestTotalPriceNeverNegative(t *testing.T) {
	var b Basket

	ops := []func(){
		func() { b.AddItem(smokedTrout, 2, nil) },
		func() { b.UpdateQuantity("p-trout", -1, "") },
		func() { b.RemoveItem("p-trout", "") },
		func() { b.AddItem(fishPate, 1, largeJar) },
		func() { b.UpdateQuantity("p-pate", 7, "v-large") },
		func() { b.Clear() },
	}

	for _, op := range ops {
		op()
		assert.GreaterOrEqual(t, b.TotalPrice(), 0)

		want := 0
		for _, it := range b.Items {
			want += it.LineUnitPrice() * it.Quantity
		}
		assert.Equal(t, want, b.TotalPrice())
	}
}

func TestQuoteAppliesFreeShippingThreshold(t *testing.T) {
	p := Pricing{ShippingCost: 99000, FreeShippingThreshold: 1000000}

	// item A: qty 2 with +500 modifier, item B: qty 1 without variant
	var b Basket
	b.AddItem(models.CatalogProduct{ID: "a", Name: "A", UnitPrice: 120000}, 2,
		&models.Variant{ID: "va", Name: "big", PriceModifier: 500})
	b.AddItem(models.CatalogProduct{ID: "b", Name: "B", UnitPrice: 80000}, 1, nil)

	subtotal := b.TotalPrice()
	require.Equal(t, 2*120500+80000, subtotal)

	q := p.Quote(subtotal)
	assert.Equal(t, 99000, q.ShippingCost)
	assert.Equal(t, subtotal+99000, q.TotalPrice)

	// above the threshold the effective shipping cost becomes 0
	q = p.Quote(1000000)
	assert.Equal(t, 0, q.ShippingCost)
	assert.Equal(t, 1000000, q.TotalPrice)
}
