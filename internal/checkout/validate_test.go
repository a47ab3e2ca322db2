package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

func validSubmission() models.Submission {
	return models.Submission{
		Items: []models.BasketItem{
			{ProductID: "p1", ProductName: "Smoked carp", UnitPrice: 2990, Quantity: 2},
		},
		Subtotal:     5980,
		ShippingCost: 990,
		TotalPrice:   6970,
		Shipping: models.ShippingAddress{
			Name:        "Kiss Anna",
			Phone:       "+36301234567",
			Email:       "anna@example.com",
			Postcode:    "1052",
			City:        "Budapest",
			Street:      "Váci utca",
			HouseNumber: "12",
		},
		Billing:       models.BillingAddress{SameAsShipping: true},
		TermsAccepted: true,
	}
}

func TestValidSubmissionPasses(t *testing.T) {
	assert.NoError(t, ValidateSubmission(validSubmission(), false))
}

func TestMissingShippingFieldFailsFirst(t *testing.T) {
	sub := validSubmission()
	sub.Shipping.Email = ""
	// also break later checks to prove the field check wins
	sub.Shipping.Postcode = "9999"
	sub.TermsAccepted = false

	err := ValidateSubmission(sub, false)
	require.Error(t, err)
	ve, ok := customerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "shipping email is required", ve.Message)
}

func TestInvalidEmailFormat(t *testing.T) {
	sub := validSubmission()
	sub.Shipping.Email = "not-an-address"

	err := ValidateSubmission(sub, false)
	require.Error(t, err)
	assert.Equal(t, "shipping email has invalid format", err.Error())
}

func TestPostcodeOutsideDeliveryArea(t *testing.T) {
	sub := validSubmission()
	sub.Shipping.Postcode = "9999"

	err := ValidateSubmission(sub, false)
	require.Error(t, err)
	assert.Equal(t, MsgOutsideDeliveryArea, err.Error())
}

func TestBillingFieldsRequiredWhenNotSameAsShipping(t *testing.T) {
	sub := validSubmission()
	sub.Billing = models.BillingAddress{
		SameAsShipping: false,
		Name:           "Kiss Anna Kft.",
		Postcode:       "1052",
		City:           "Budapest",
		Street:         "Váci utca",
	}

	err := ValidateSubmission(sub, false)
	require.Error(t, err)
	assert.Equal(t, "billing house number is required", err.Error())

	sub.Billing.HouseNumber = "12"
	assert.NoError(t, ValidateSubmission(sub, false))
}

func TestBillingSkippedWhenSameAsShipping(t *testing.T) {
	sub := validSubmission()
	sub.Billing = models.BillingAddress{SameAsShipping: true}
	assert.NoError(t, ValidateSubmission(sub, false))
}

func TestTermsMustBeAccepted(t *testing.T) {
	sub := validSubmission()
	sub.TermsAccepted = false

	err := ValidateSubmission(sub, false)
	require.Error(t, err)
	assert.Equal(t, MsgTermsNotAccepted, err.Error())
}

func TestAgeConfirmationOnlyForRestrictedBaskets(t *testing.T) {
	sub := validSubmission()
	sub.AgeConfirmed = false

	assert.NoError(t, ValidateSubmission(sub, false))

	err := ValidateSubmission(sub, true)
	require.Error(t, err)
	assert.Equal(t, MsgAgeNotConfirmed, err.Error())

	sub.AgeConfirmed = true
	assert.NoError(t, ValidateSubmission(sub, true))
}
