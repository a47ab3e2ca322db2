package models

import (
	"time"
)

// All money values are integer minor-currency units, never floats.

// Variant is a named sub-option of a product with its own price delta
type Variant struct {
	ID            string
	Name          string
	PriceModifier int
	Available     bool
}

// BasketItem is one purchasable line in a basket.
//
// Identity key is (ProductID, Variant ID or none); two lines sharing a key merge
type BasketItem struct {
	ProductID   string
	ProductName string
	UnitPrice   int
	Quantity    int
	Variant     *Variant
}

// Key returns the merge identity of the line
func (i BasketItem) Key() string {
	if i.Variant != nil {
		return i.ProductID + "/" + i.Variant.ID
	}
	return i.ProductID
}

// LineUnitPrice is the effective unit price including the variant modifier
func (i BasketItem) LineUnitPrice() int {
	if i.Variant != nil {
		return i.UnitPrice + i.Variant.PriceModifier
	}
	return i.UnitPrice
}

// LineTotal is the effective unit price times quantity
func (i BasketItem) LineTotal() int {
	return i.LineUnitPrice() * i.Quantity
}

type ShippingAddress struct {
	Name        string
	Phone       string
	Email       string
	Postcode    string
	City        string
	Street      string
	HouseNumber string
	Building    string
	Floor       string
	Door        string
	Note        string
}

// BillingAddress mirrors the shipping address when SameAsShipping is set,
// otherwise carries its own required fields
type BillingAddress struct {
	SameAsShipping bool
	Name           string
	Postcode       string
	City           string
	Street         string
	HouseNumber    string
	CompanyName    string
	TaxID          string
}

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCOD      PaymentMethod = "cod"
)

// Submission is the normalized checkout payload posted on final submit
type Submission struct {
	Items         []BasketItem
	Subtotal      int
	ShippingCost  int
	TotalPrice    int
	Shipping      ShippingAddress
	Billing       BillingAddress
	PaymentMethod PaymentMethod
	TermsAccepted bool
	AgeConfirmed  bool
	SubmittedAt   time.Time
}

type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known lifecycle statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderLine is an anonymized item snapshot inside a persisted order
type OrderLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	VariantID   string `json:"variant_id,omitempty"`
	VariantName string `json:"variant_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	LineTotal   int    `json:"line_total"`
}

// PersistedOrder is the durable order record. It carries no customer identity:
// delivery is reduced to city and postcode, street deliberately dropped
type PersistedOrder struct {
	OrderID          string
	Items            []OrderLine
	Subtotal         int
	ShippingCost     int
	TotalPrice       int
	Status           OrderStatus
	InvoiceID        string
	DeliveryCity     string
	DeliveryPostcode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CatalogProduct is the slice of the catalog collaborator's product record
// that checkout needs: pricing, variants and the alcohol restriction flag
type CatalogProduct struct {
	ID                string
	Name              string
	UnitPrice         int
	CategoryID        string
	AlcoholRestricted bool
	Variants          []Variant
}

// EmailResults captures the per-recipient outcome of the two transactional mails
type EmailResults struct {
	CustomerEmailSent bool
	ManagerEmailSent  bool
}

// SubmissionResult is the unified outcome returned to the checkout client
type SubmissionResult struct {
	Success      bool
	OrderID      string
	EmailResults EmailResults
}
