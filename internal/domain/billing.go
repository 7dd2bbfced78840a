package domain

// CardBrand is the card brand name as entered on the billing form
type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandMasterCard CardBrand = "MasterCard"
	CardBrandAmex       CardBrand = "Amex"
	CardBrandDiscover   CardBrand = "Discover"
)

// EmailField identifies one of the email inputs a billing form may supply
type EmailField string

const (
	// EmailFieldPrimary is the contribution form's own email input
	EmailFieldPrimary EmailField = "email"
	// EmailFieldBilling is the legacy billing-location email input
	EmailFieldBilling EmailField = "email-5"
	// EmailFieldPrimaryLocation is the legacy primary-location email input
	EmailFieldPrimaryLocation EmailField = "email-Primary"
)

// EmailPriority lists every email input in the order it is consulted.
var EmailPriority = []EmailField{
	EmailFieldPrimary,
	EmailFieldBilling,
	EmailFieldPrimaryLocation,
}

// BillingParameters is the normalized billing record supplied by the caller.
// A record with IsRecur set and a RecurringContributionID is recurring;
// anything else is a one-time charge.
type BillingParameters struct {
	ContactID  int64  `json:"contact_id"`
	Amount     string `json:"amount"`
	CurrencyID string `json:"currency"`

	// Card data
	CardNumber  string    `json:"credit_card_number"`
	CVV         string    `json:"cvv2"`
	ExpiryMonth int       `json:"month"`
	ExpiryYear  int       `json:"year"`
	CardBrand   CardBrand `json:"credit_card_type"`

	// Cardholder
	FirstName     string `json:"billing_first_name"`
	LastName      string `json:"billing_last_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`

	// Email inputs, consulted in EmailPriority order
	Email        string `json:"email"`
	BillingEmail string `json:"email_billing"`
	PrimaryEmail string `json:"email_primary"`

	InvoiceID string `json:"invoice_id"`

	// Recurring
	IsRecur                 bool               `json:"is_recur"`
	RecurringContributionID *int64             `json:"contribution_recur_id,omitempty"`
	Interval                RecurrenceInterval `json:"interval"`
}

// IsRecurring reports whether the record takes the token setup path
func (p *BillingParameters) IsRecurring() bool {
	return p.IsRecur && p.RecurringContributionID != nil && *p.RecurringContributionID > 0
}

// EmailValue returns the value of a single email input
func (p *BillingParameters) EmailValue(field EmailField) string {
	switch field {
	case EmailFieldPrimary:
		return p.Email
	case EmailFieldBilling:
		return p.BillingEmail
	case EmailFieldPrimaryLocation:
		return p.PrimaryEmail
	default:
		return ""
	}
}

// ResolveEmail returns the first non-empty email following EmailPriority
func (p *BillingParameters) ResolveEmail() string {
	for _, field := range EmailPriority {
		if v := p.EmailValue(field); v != "" {
			return v
		}
	}
	return ""
}

// CardLastFour returns the last four digits of the card number for logging
func (p *BillingParameters) CardLastFour() string {
	if len(p.CardNumber) <= 4 {
		return p.CardNumber
	}
	return p.CardNumber[len(p.CardNumber)-4:]
}
