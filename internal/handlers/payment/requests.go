package payment

import (
	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// CardDetails are the card and cardholder fields of a billing form
type CardDetails struct {
	CardNumber  string `json:"credit_card_number" validate:"required,numeric,min=12,max=19"`
	CVV         string `json:"cvv2" validate:"omitempty,numeric,min=3,max=4"`
	ExpiryMonth int    `json:"month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"year" validate:"required,min=2000,max=2099"`
	CardType    string `json:"credit_card_type" validate:"required"`

	FirstName     string `json:"billing_first_name" validate:"max=100"`
	LastName      string `json:"billing_last_name" validate:"max=100"`
	StreetAddress string `json:"street_address" validate:"max=255"`
	City          string `json:"city" validate:"max=100"`
	StateProvince string `json:"state_province" validate:"max=100"`
	PostalCode    string `json:"postal_code" validate:"max=20"`
	Country       string `json:"country" validate:"max=100"`

	Email        string `json:"email" validate:"omitempty,email"`
	BillingEmail string `json:"email_billing" validate:"omitempty,email"`
	PrimaryEmail string `json:"email_primary" validate:"omitempty,email"`
}

// ChargeRequest is the body of a one-time charge
type ChargeRequest struct {
	CardDetails
	ContactID int64  `json:"contact_id" validate:"gte=0"`
	Amount    string `json:"amount" validate:"required,max=32"`
	Currency  string `json:"currency" validate:"required,len=3,alpha"`
	InvoiceID string `json:"invoice_id" validate:"max=64"`
}

// RecurringRequest is the body of a recurring setup
type RecurringRequest struct {
	ChargeRequest
	RecurringContributionID int64  `json:"contribution_recur_id" validate:"required,gt=0"`
	FrequencyInterval       int    `json:"frequency_interval" validate:"gte=0"`
	FrequencyUnit           string `json:"frequency_unit" validate:"omitempty,oneof=day week month year"`
}

// ApplyTo copies the card fields onto a billing record
func (c CardDetails) ApplyTo(p *domain.BillingParameters) {
	p.CardNumber = c.CardNumber
	p.CVV = c.CVV
	p.ExpiryMonth = c.ExpiryMonth
	p.ExpiryYear = c.ExpiryYear
	p.CardBrand = domain.CardBrand(c.CardType)
	p.FirstName = c.FirstName
	p.LastName = c.LastName
	p.StreetAddress = c.StreetAddress
	p.City = c.City
	p.StateProvince = c.StateProvince
	p.PostalCode = c.PostalCode
	p.Country = c.Country
	p.Email = c.Email
	p.BillingEmail = c.BillingEmail
	p.PrimaryEmail = c.PrimaryEmail
}

// BillingParameters converts the request to a one-time billing record
func (r *ChargeRequest) BillingParameters() *domain.BillingParameters {
	p := &domain.BillingParameters{
		ContactID:  r.ContactID,
		Amount:     r.Amount,
		CurrencyID: r.Currency,
		InvoiceID:  r.InvoiceID,
	}
	r.CardDetails.ApplyTo(p)
	return p
}

// BillingParameters converts the request to a recurring billing record
func (r *RecurringRequest) BillingParameters() *domain.BillingParameters {
	p := r.ChargeRequest.BillingParameters()
	recurID := r.RecurringContributionID
	p.IsRecur = true
	p.RecurringContributionID = &recurID
	p.Interval = domain.RecurrenceInterval{
		Value: r.FrequencyInterval,
		Unit:  domain.IntervalUnit(r.FrequencyUnit),
	}.Normalize()
	return p
}

// PaymentResponse is returned for successful and deferred payments
type PaymentResponse struct {
	*domain.PaymentOutcome
	ContributionStatusID domain.ContributionStatusID `json:"contribution_status_id"`
}

func newPaymentResponse(outcome *domain.PaymentOutcome) PaymentResponse {
	return PaymentResponse{PaymentOutcome: outcome, ContributionStatusID: outcome.Status.StatusID()}
}
