package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/sessionstore"
	"github.com/balazs-web/smoky-fish-sub000/internal/basket"
	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

func newSessionService() *SessionService {
	catalog := &fakeCatalog{products: map[string]models.CatalogProduct{
		"p-trout": {ID: "p-trout", Name: "Smoked trout fillet", UnitPrice: 3490},
		"p-pate": {ID: "p-pate", Name: "Trout pâté", UnitPrice: 1890, Variants: []models.Variant{
			{ID: "v-large", Name: "Large jar", PriceModifier: 500, Available: true},
			{ID: "v-gift", Name: "Gift box", PriceModifier: 1200, Available: false},
		}},
	}}
	return NewSessionService(sessionstore.NewMemory(), catalog,
		basket.Pricing{ShippingCost: 990, FreeShippingThreshold: 20000})
}

func TestSessionAddItemPersistsAndMerges(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "p-trout", 1, "")
	require.NoError(t, err)
	session, err := svc.AddItem(ctx, "s1", "p-trout", 2, "")
	require.NoError(t, err)

	require.Equal(t, 1, session.Basket.ItemCount())
	assert.Equal(t, 3, session.Basket.Items[0].Quantity)

	// a second load sees the same state, the store rehydrates it
	reloaded, err := svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session.Basket, reloaded.Basket)
}

func TestSessionAddItemVariantChecks(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	session, err := svc.AddItem(ctx, "s1", "p-pate", 1, "v-large")
	require.NoError(t, err)
	assert.Equal(t, 1890+500, session.Basket.Items[0].LineUnitPrice())

	_, err = svc.AddItem(ctx, "s1", "p-pate", 1, "v-missing")
	require.Error(t, err)
	_, ok := customerrors.AsValidation(err)
	assert.True(t, ok)

	_, err = svc.AddItem(ctx, "s1", "p-pate", 1, "v-gift")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	_, err = svc.AddItem(ctx, "s1", "p-nothing", 1, "")
	assert.Error(t, err)
}

func TestSessionQuote(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	session, err := svc.AddItem(ctx, "s1", "p-trout", 2, "")
	require.NoError(t, err)

	q := svc.Quote(session)
	assert.Equal(t, 6980, q.Subtotal)
	assert.Equal(t, 990, q.ShippingCost)
	assert.Equal(t, 7970, q.TotalPrice)

	// six more fillets push the subtotal over the free-shipping threshold
	session, err = svc.AddItem(ctx, "s1", "p-trout", 4, "")
	require.NoError(t, err)
	q = svc.Quote(session)
	assert.Equal(t, 0, q.ShippingCost)
}

func TestSessionTransitionsThroughFlow(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	// empty basket blocks the shipping step
	_, err := svc.Transition(ctx, "s1", checkout.StepShipping)
	require.Error(t, err)
	_, ok := customerrors.AsValidation(err)
	assert.True(t, ok)

	_, err = svc.AddItem(ctx, "s1", "p-trout", 1, "")
	require.NoError(t, err)

	session, err := svc.Transition(ctx, "s1", checkout.StepShipping)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepShipping, session.CurrentStep())

	session, err = svc.Transition(ctx, "s1", checkout.StepBilling)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepBilling, session.CurrentStep())

	session, err = svc.Complete(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, checkout.StepSuccess, session.CurrentStep())
	assert.Equal(t, 0, session.Basket.ItemCount())

	session, err = svc.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, checkout.StepBasket, session.CurrentStep())
}

func TestSessionFailedGuardWritesNothing(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "p-trout", 1, "")
	require.NoError(t, err)

	_, err = svc.Transition(ctx, "s1", checkout.StepBilling)
	require.Error(t, err)

	session, err := svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, checkout.StepBasket, session.CurrentStep())
}

func TestSessionRemoveAndClear(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "p-trout", 2, "")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", "p-pate", 1, "v-large")
	require.NoError(t, err)

	session, err := svc.UpdateQuantity(ctx, "s1", "p-trout", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, session.Basket.ItemCount())

	session, err = svc.ClearBasket(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, session.Basket.ItemCount())
}
