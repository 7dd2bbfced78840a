package payment

import (
	"html"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

// Gateway request field names
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldAddress          = "address"
	FieldCity             = "city"
	FieldState            = "state"
	FieldZipCode          = "zipCode"
	FieldCountry          = "country"
	FieldInvoiceNum       = "invoiceNum"
	FieldCreditCardNum    = "creditCardNum"
	FieldCVV2             = "cvv2"
	FieldCreditCardExpiry = "creditCardExpiry"
	FieldTotal            = "total"
	FieldMOP              = "mop"
	FieldCCNum            = "ccNum"
	FieldCCExp            = "ccExp"
	FieldCustomerCode     = "customerCode"
	FieldCustomerIP       = "customerIPAddress"
)

// brandCodes maps form card brands to gateway method-of-payment codes
var brandCodes = map[domain.CardBrand]string{
	domain.CardBrandVisa:       "VISA",
	domain.CardBrandMasterCard: "MC",
	domain.CardBrandAmex:       "AMX",
	domain.CardBrandDiscover:   "DSC",
}

type fieldMapping struct {
	field string
	value func(p *domain.BillingParameters) string
}

var fieldMappings = []fieldMapping{
	{FieldFirstName, func(p *domain.BillingParameters) string { return p.FirstName }},
	{FieldLastName, func(p *domain.BillingParameters) string { return p.LastName }},
	{FieldAddress, func(p *domain.BillingParameters) string { return p.StreetAddress }},
	{FieldCity, func(p *domain.BillingParameters) string { return p.City }},
	{FieldState, func(p *domain.BillingParameters) string { return p.StateProvince }},
	{FieldZipCode, func(p *domain.BillingParameters) string { return p.PostalCode }},
	{FieldCountry, func(p *domain.BillingParameters) string { return p.Country }},
	{FieldInvoiceNum, func(p *domain.BillingParameters) string { return p.InvoiceID }},
	{FieldCreditCardNum, func(p *domain.BillingParameters) string { return p.CardNumber }},
	{FieldCVV2, func(p *domain.BillingParameters) string { return p.CVV }},
}

// TranslateRequest builds the gateway request for method from billing parameters.
// It does not modify params.
func TranslateRequest(params *domain.BillingParameters, method ports.Method) (*ports.TransactionRequest, error) {
	if params == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "billing parameters are required")
	}

	req := ports.NewTransactionRequest(method)
	for _, m := range fieldMappings {
		if v := m.value(params); v != "" {
			req.Set(m.field, html.EscapeString(v))
		}
	}

	req.Set(FieldCreditCardExpiry, domain.FormatExpirySlashed(params.ExpiryMonth, params.ExpiryYear))

	// billing updates carry no amount
	if method != ports.MethodUpdateCreditCardCustomer || params.Amount != "" {
		total, err := domain.CleanMoney(params.Amount)
		if err != nil {
			return nil, err
		}
		req.Set(FieldTotal, domain.FormatTotal(total))
	}

	switch method {
	case ports.MethodCreateCreditCardCustomer, ports.MethodUpdateCreditCardCustomer:
		req.Rename(FieldCreditCardNum, FieldCCNum)
		req.Rename(FieldCreditCardExpiry, FieldCCExp)
	case ports.MethodChargeCustomerCode:
		req.Delete(FieldCreditCardNum)
		req.Delete(FieldCreditCardExpiry)
		return req, nil
	}

	if params.CardBrand != "" {
		code, ok := brandCodes[params.CardBrand]
		if !ok {
			return nil, domain.NewDomainError(domain.ErrorCodeUnsupportedCardBrand, "unsupported card brand").
				WithDetail("card_brand", string(params.CardBrand))
		}
		req.Set(FieldMOP, code)
	}

	return req, nil
}

// StoredChargeRequest builds a charge against an existing customer code
func StoredChargeRequest(invoiceID, amount, customerCode string) (*ports.TransactionRequest, error) {
	if customerCode == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "customer code is required")
	}

	total, err := domain.CleanMoney(amount)
	if err != nil {
		return nil, err
	}

	req := ports.NewTransactionRequest(ports.MethodChargeCustomerCode)
	if invoiceID != "" {
		req.Set(FieldInvoiceNum, html.EscapeString(invoiceID))
	}
	req.Set(FieldTotal, domain.FormatTotal(total))
	req.Set(FieldCustomerCode, customerCode)
	return req, nil
}
