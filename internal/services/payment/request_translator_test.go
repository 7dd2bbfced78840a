package payment

import (
	"testing"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardParams() *domain.BillingParameters {
	return &domain.BillingParameters{
		ContactID:     42,
		Amount:        "19.995",
		CurrencyID:    "USD",
		CardNumber:    "4222222222222220",
		CVV:           "123",
		ExpiryMonth:   3,
		ExpiryYear:    2027,
		CardBrand:     domain.CardBrandVisa,
		FirstName:     "Ada",
		LastName:      "O'Neil & Sons",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		StateProvince: "IL",
		PostalCode:    "62701",
		Country:       "US",
		InvoiceID:     "inv-001",
	}
}

func TestTranslateRequest_OneTimeCharge(t *testing.T) {
	req, err := TranslateRequest(cardParams(), ports.MethodCreditCard)
	require.NoError(t, err)

	assert.Equal(t, ports.MethodCreditCard, req.Method)
	assert.Equal(t, map[string]string{
		FieldFirstName:        "Ada",
		FieldLastName:         "O&#39;Neil &amp; Sons",
		FieldAddress:          "1 Main St",
		FieldCity:             "Springfield",
		FieldState:            "IL",
		FieldZipCode:          "62701",
		FieldCountry:          "US",
		FieldInvoiceNum:       "inv-001",
		FieldCreditCardNum:    "4222222222222220",
		FieldCVV2:             "123",
		FieldCreditCardExpiry: "03/27",
		FieldTotal:            "20.00",
		FieldMOP:              "VISA",
	}, req.Fields)
}

func TestTranslateRequest_OmitsEmptyValues(t *testing.T) {
	params := cardParams()
	params.City = ""
	params.CVV = ""

	req, err := TranslateRequest(params, ports.MethodCreditCard)
	require.NoError(t, err)

	assert.False(t, req.Has(FieldCity))
	assert.False(t, req.Has(FieldCVV2))
}

func TestTranslateRequest_CreateCustomerCode(t *testing.T) {
	req, err := TranslateRequest(cardParams(), ports.MethodCreateCreditCardCustomer)
	require.NoError(t, err)

	assert.Equal(t, "4222222222222220", req.Get(FieldCCNum))
	assert.Equal(t, "03/27", req.Get(FieldCCExp))
	assert.False(t, req.Has(FieldCreditCardNum))
	assert.False(t, req.Has(FieldCreditCardExpiry))
	assert.Equal(t, "VISA", req.Get(FieldMOP))
}

func TestTranslateRequest_ChargeCustomerCode(t *testing.T) {
	params := cardParams()
	params.CardBrand = "Diners"

	req, err := TranslateRequest(params, ports.MethodChargeCustomerCode)
	require.NoError(t, err)

	assert.False(t, req.Has(FieldCreditCardNum))
	assert.False(t, req.Has(FieldCreditCardExpiry))
	assert.False(t, req.Has(FieldMOP))
	assert.Equal(t, "20.00", req.Get(FieldTotal))
}

func TestTranslateRequest_CardBrands(t *testing.T) {
	tests := []struct {
		brand    domain.CardBrand
		expected string
	}{
		{domain.CardBrandVisa, "VISA"},
		{domain.CardBrandMasterCard, "MC"},
		{domain.CardBrandAmex, "AMX"},
		{domain.CardBrandDiscover, "DSC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.brand), func(t *testing.T) {
			params := cardParams()
			params.CardBrand = tt.brand

			req, err := TranslateRequest(params, ports.MethodCreditCard)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.Get(FieldMOP))
		})
	}

	t.Run("no brand", func(t *testing.T) {
		params := cardParams()
		params.CardBrand = ""

		req, err := TranslateRequest(params, ports.MethodCreditCard)
		require.NoError(t, err)
		assert.False(t, req.Has(FieldMOP))
	})

	t.Run("unsupported brand", func(t *testing.T) {
		params := cardParams()
		params.CardBrand = "JCB"

		_, err := TranslateRequest(params, ports.MethodCreditCard)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrorCodeUnsupportedCardBrand))
	})
}

func TestTranslateRequest_Rounding(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"19.995", "20.00"},
		{"19.994", "19.99"},
		{"$1,000", "1000.00"},
		{"5", "5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			params := cardParams()
			params.Amount = tt.amount

			req, err := TranslateRequest(params, ports.MethodCreditCard)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.Get(FieldTotal))
		})
	}
}

func TestTranslateRequest_InvalidAmount(t *testing.T) {
	params := cardParams()
	params.Amount = "free"

	_, err := TranslateRequest(params, ports.MethodCreditCard)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationAmountInvalid))
}

func TestTranslateRequest_Deterministic(t *testing.T) {
	params := cardParams()
	before := *params

	first, err := TranslateRequest(params, ports.MethodCreateCreditCardCustomer)
	require.NoError(t, err)
	second, err := TranslateRequest(params, ports.MethodCreateCreditCardCustomer)
	require.NoError(t, err)

	assert.Equal(t, first.Encode(), second.Encode())
	assert.Equal(t, before, *params)
}

func TestStoredChargeRequest(t *testing.T) {
	req, err := StoredChargeRequest("inv-9", "12.5", "A1B2C3")
	require.NoError(t, err)

	assert.Equal(t, ports.MethodChargeCustomerCode, req.Method)
	assert.Equal(t, map[string]string{
		FieldInvoiceNum:   "inv-9",
		FieldTotal:        "12.50",
		FieldCustomerCode: "A1B2C3",
	}, req.Fields)

	_, err = StoredChargeRequest("inv-9", "12.5", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationFailed))
}

func TestTranslateRequest_UpdateCustomerCode(t *testing.T) {
	params := cardParams()
	params.Amount = ""

	req, err := TranslateRequest(params, ports.MethodUpdateCreditCardCustomer)
	require.NoError(t, err)

	assert.False(t, req.Has(FieldTotal))
	assert.Equal(t, "4222222222222220", req.Get(FieldCCNum))
	assert.Equal(t, "03/27", req.Get(FieldCCExp))
	assert.Equal(t, "VISA", req.Get(FieldMOP))
}
