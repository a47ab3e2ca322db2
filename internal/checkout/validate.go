package checkout

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/delivery"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

// User-facing messages for the checks that tests and clients key on
const (
	MsgEmptyBasket         = "the basket is empty"
	MsgOutsideDeliveryArea = "we do not deliver to this postcode yet"
	MsgTermsNotAccepted    = "the terms of service must be accepted"
	MsgAgeNotConfirmed     = "the age confirmation is required for alcoholic products"
)

// ValidateSubmission runs the submission checks in their fixed order and stops
// at the first failure. The same sequence gates the client-side flow and the
// authoritative server-side check:
//
//  1. required shipping fields,
//  2. shipping postcode inside the delivery area,
//  3. required billing fields when billing differs from shipping,
//  4. terms of service accepted,
//  5. age acknowledgment when the basket holds an alcohol-restricted line.
//
// Every returned error is a customerrors.ValidationError
func ValidateSubmission(sub models.Submission, alcoholRestricted bool) error {
	if err := validateShippingFields(sub.Shipping); err != nil {
		return err
	}

	if !delivery.IsServiceable(sub.Shipping.Postcode) {
		return customerrors.NewValidationError(MsgOutsideDeliveryArea)
	}

	if !sub.Billing.SameAsShipping {
		if err := validateBillingFields(sub.Billing); err != nil {
			return err
		}
	}

	if !sub.TermsAccepted {
		return customerrors.NewValidationError(MsgTermsNotAccepted)
	}

	if alcoholRestricted && !sub.AgeConfirmed {
		return customerrors.NewValidationError(MsgAgeNotConfirmed)
	}

	return nil
}

func validateShippingFields(a models.ShippingAddress) error {
	required := []struct {
		label string
		value string
	}{
		{"name", a.Name},
		{"email", a.Email},
		{"phone", a.Phone},
		{"postcode", a.Postcode},
		{"city", a.City},
		{"street", a.Street},
		{"house number", a.HouseNumber},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return customerrors.NewValidationError(
				fmt.Sprintf("shipping %s is required", f.label))
		}
	}

	if _, err := mail.ParseAddress(a.Email); err != nil {
		return customerrors.NewValidationError("shipping email has invalid format")
	}

	return nil
}

func validateBillingFields(a models.BillingAddress) error {
	required := []struct {
		label string
		value string
	}{
		{"name", a.Name},
		{"postcode", a.Postcode},
		{"city", a.City},
		{"street", a.Street},
		{"house number", a.HouseNumber},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return customerrors.NewValidationError(
				fmt.Sprintf("billing %s is required", f.label))
		}
	}
	return nil
}
