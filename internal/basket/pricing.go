package basket

// Pricing holds the delivery fee rule applied on top of the basket subtotal
type Pricing struct {
	ShippingCost          int
	FreeShippingThreshold int
}

// Quote is the priced summary shown to the customer and posted on submit
type Quote struct {
	Subtotal     int
	ShippingCost int
	TotalPrice   int
}

// Quote prices a subtotal: the configured shipping cost applies below the
// free-shipping threshold and drops to zero at or above it
func (p Pricing) Quote(subtotal int) Quote {
	shipping := p.ShippingCost
	if p.FreeShippingThreshold > 0 && subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}
	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TotalPrice:   subtotal + shipping,
	}
}
