package domain

import "time"

// TransactionResult is a gateway response normalized by the response interpreter
type TransactionResult struct {
	Success bool
	// RemoteID is the gateway transaction id, or the customer code for token creation
	RemoteID string
	// TransactionID is the caller-visible id (RemoteID:unix-seconds) for charges
	TransactionID string
	ReasonMessage string
}

// OutcomeStatus is the terminal state of an orchestration call
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomePending OutcomeStatus = "pending"
)

// ContributionStatusID mirrors the billing framework's status ids
type ContributionStatusID int

const (
	ContributionStatusCompleted ContributionStatusID = 1
	ContributionStatusPending   ContributionStatusID = 2
)

// StatusID maps an outcome to the billing framework's contribution status id
func (s OutcomeStatus) StatusID() ContributionStatusID {
	if s == OutcomePending {
		return ContributionStatusPending
	}
	return ContributionStatusCompleted
}

// PaymentOutcome is what the orchestrator hands back to the billing framework.
// Failures are returned as errors instead of an outcome.
type PaymentOutcome struct {
	Status        OutcomeStatus `json:"status"`
	TransactionID string        `json:"trxn_id,omitempty"`
	GrossAmount   string        `json:"gross_amount,omitempty"` // two decimals, as charged
	CustomerCode  string        `json:"customer_code,omitempty"`

	// NextScheduledAt is set for recurring setups, both charged and deferred
	NextScheduledAt *time.Time `json:"next_sched_contribution,omitempty"`
	// ReceiveDate is set only when the first charge is deferred
	ReceiveDate *time.Time `json:"receive_date,omitempty"`
}

// IsPending returns true if the charge was deferred to a later billing date
func (o *PaymentOutcome) IsPending() bool {
	return o.Status == OutcomePending
}
