package httphandlers

import (
	"time"

	"github.com/balazs-web/smoky-fish-sub000/internal/basket"
	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

type variantDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceModifier int    `json:"priceModifier"`
	Available     bool   `json:"available"`
}

type basketItemDTO struct {
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Price       int         `json:"price"`
	Quantity    int         `json:"quantity"`
	Variant     *variantDTO `json:"variant,omitempty"`
}

type shippingAddressDTO struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Building    string `json:"building,omitempty"`
	Floor       string `json:"floor,omitempty"`
	Door        string `json:"door,omitempty"`
	Note        string `json:"note,omitempty"`
}

type billingAddressDTO struct {
	SameAsShipping bool   `json:"sameAsShipping"`
	Name           string `json:"name,omitempty"`
	Postcode       string `json:"postcode,omitempty"`
	City           string `json:"city,omitempty"`
	Street         string `json:"street,omitempty"`
	HouseNumber    string `json:"houseNumber,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	TaxID          string `json:"taxId,omitempty"`
}

type submitOrderRequest struct {
	Items           []basketItemDTO    `json:"items"`
	Subtotal        int                `json:"subtotal"`
	ShippingCost    int                `json:"shippingCost"`
	TotalPrice      int                `json:"totalPrice"`
	ShippingAddress shippingAddressDTO `json:"shippingAddress"`
	BillingAddress  billingAddressDTO  `json:"billingAddress"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
	TermsAccepted   bool               `json:"termsAccepted"`
	AgeConfirmed    bool               `json:"ageConfirmed"`
}

type emailResultsDTO struct {
	CustomerEmailSent bool `json:"customerEmailSent"`
	ManagerEmailSent  bool `json:"managerEmailSent"`
}

type submitOrderResponse struct {
	Success      bool            `json:"success"`
	OrderID      string          `json:"orderId"`
	InvoiceID    *string         `json:"invoiceId"`
	EmailResults emailResultsDTO `json:"emailResults"`
	Message      string          `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type orderLineDTO struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	VariantID   string `json:"variantId,omitempty"`
	VariantName string `json:"variantName,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unitPrice"`
	LineTotal   int    `json:"lineTotal"`
}

type orderResponse struct {
	OrderID          string         `json:"orderId"`
	Items            []orderLineDTO `json:"items"`
	Subtotal         int            `json:"subtotal"`
	ShippingCost     int            `json:"shippingCost"`
	TotalPrice       int            `json:"totalPrice"`
	Status           string         `json:"status"`
	InvoiceID        string         `json:"invoiceId,omitempty"`
	DeliveryCity     string         `json:"deliveryCity"`
	DeliveryPostcode string         `json:"deliveryPostcode"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type deliveryCheckResponse struct {
	Serviceable bool   `json:"serviceable"`
	City        string `json:"city,omitempty"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variantId,omitempty"`
}

type updateQuantityRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variantId,omitempty"`
}

type checkoutStepRequest struct {
	Step string `json:"step"`
}

type sessionResponse struct {
	Step          string          `json:"step"`
	Items         []basketItemDTO `json:"items"`
	ItemCount     int             `json:"itemCount"`
	TotalQuantity int             `json:"totalQuantity"`
	Subtotal      int             `json:"subtotal"`
	ShippingCost  int             `json:"shippingCost"`
	TotalPrice    int             `json:"totalPrice"`
}

func mapSubmission(req submitOrderRequest) models.Submission {
	items := make([]models.BasketItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = models.BasketItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.Price,
			Quantity:    it.Quantity,
		}
		if it.Variant != nil {
			items[i].Variant = &models.Variant{
				ID:            it.Variant.ID,
				Name:          it.Variant.Name,
				PriceModifier: it.Variant.PriceModifier,
				Available:     it.Variant.Available,
			}
		}
	}

	return models.Submission{
		Items:        items,
		Subtotal:     req.Subtotal,
		ShippingCost: req.ShippingCost,
		TotalPrice:   req.TotalPrice,
		Shipping: models.ShippingAddress{
			Name:        req.ShippingAddress.Name,
			Phone:       req.ShippingAddress.Phone,
			Email:       req.ShippingAddress.Email,
			Postcode:    req.ShippingAddress.Postcode,
			City:        req.ShippingAddress.City,
			Street:      req.ShippingAddress.Street,
			HouseNumber: req.ShippingAddress.HouseNumber,
			Building:    req.ShippingAddress.Building,
			Floor:       req.ShippingAddress.Floor,
			Door:        req.ShippingAddress.Door,
			Note:        req.ShippingAddress.Note,
		},
		Billing: models.BillingAddress{
			SameAsShipping: req.BillingAddress.SameAsShipping,
			Name:           req.BillingAddress.Name,
			Postcode:       req.BillingAddress.Postcode,
			City:           req.BillingAddress.City,
			Street:         req.BillingAddress.Street,
			HouseNumber:    req.BillingAddress.HouseNumber,
			CompanyName:    req.BillingAddress.CompanyName,
			TaxID:          req.BillingAddress.TaxID,
		},
		PaymentMethod: parsePaymentMethod(req.PaymentMethod),
		TermsAccepted: req.TermsAccepted,
		AgeConfirmed:  req.AgeConfirmed,
	}
}

// parsePaymentMethod keeps known tags and drops anything else, the field is optional
func parsePaymentMethod(s string) models.PaymentMethod {
	switch models.PaymentMethod(s) {
	case models.PaymentCard, models.PaymentTransfer, models.PaymentCOD:
		return models.PaymentMethod(s)
	}
	return ""
}

func mapOrderResponse(order models.PersistedOrder) orderResponse {
	lines := make([]orderLineDTO, len(order.Items))
	for i, line := range order.Items {
		lines[i] = orderLineDTO{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			VariantID:   line.VariantID,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		}
	}

	return orderResponse{
		OrderID:          order.OrderID,
		Items:            lines,
		Subtotal:         order.Subtotal,
		ShippingCost:     order.ShippingCost,
		TotalPrice:       order.TotalPrice,
		Status:           string(order.Status),
		InvoiceID:        order.InvoiceID,
		DeliveryCity:     order.DeliveryCity,
		DeliveryPostcode: order.DeliveryPostcode,
		CreatedAt:        order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapSessionResponse(session checkout.Session, quote basket.Quote) sessionResponse {
	items := make([]basketItemDTO, len(session.Basket.Items))
	for i, it := range session.Basket.Items {
		items[i] = basketItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.UnitPrice,
			Quantity:    it.Quantity,
		}
		if it.Variant != nil {
			items[i].Variant = &variantDTO{
				ID:            it.Variant.ID,
				Name:          it.Variant.Name,
				PriceModifier: it.Variant.PriceModifier,
				Available:     it.Variant.Available,
			}
		}
	}

	return sessionResponse{
		Step:          string(session.CurrentStep()),
		Items:         items,
		ItemCount:     session.Basket.ItemCount(),
		TotalQuantity: session.Basket.TotalQuantity(),
		Subtotal:      quote.Subtotal,
		ShippingCost:  quote.ShippingCost,
		TotalPrice:    quote.TotalPrice,
	}
}
