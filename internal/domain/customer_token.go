package domain

import (
	"fmt"
	"time"
)

// CustomerToken is a persisted iATS customer code that stands in for card data
// on later charges of a recurring contribution
type CustomerToken struct {
	CustomerCode            string    `json:"customer_code"`
	IPAddress               string    `json:"ip"`
	Expiry                  string    `json:"expiry"` // MMYY
	ContactID               int64     `json:"cid"`
	Email                   string    `json:"email"`
	RecurringContributionID int64     `json:"recur_id"`
	CreatedAt               time.Time `json:"created_at"`
}

// FormatExpiryMMYY formats a card expiry as four digits, month first
func FormatExpiryMMYY(month, year int) string {
	return fmt.Sprintf("%02d%02d", month, year%100)
}

// FormatExpirySlashed formats a card expiry as MM/YY
func FormatExpirySlashed(month, year int) string {
	return fmt.Sprintf("%02d/%02d", month, year%100)
}

// Validate checks the fields required to charge against the token later
func (t *CustomerToken) Validate() error {
	if t.CustomerCode == "" {
		return NewDomainError(ErrorCodeValidationFailed, "customer code is required")
	}
	if t.RecurringContributionID <= 0 {
		return NewDomainError(ErrorCodeValidationFailed, "recurring contribution id is required")
	}
	if len(t.Expiry) != 4 {
		return NewDomainError(ErrorCodeValidationFailed, "expiry must be MMYY")
	}
	return nil
}
