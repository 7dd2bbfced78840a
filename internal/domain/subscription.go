package domain

import (
	"strconv"
	"time"
)

// IntervalUnit defines the time unit for billing intervals
type IntervalUnit string

const (
	IntervalUnitDay   IntervalUnit = "day"
	IntervalUnitWeek  IntervalUnit = "week"
	IntervalUnitMonth IntervalUnit = "month"
	IntervalUnitYear  IntervalUnit = "year"
)

// RecurrenceInterval is the frequency of a recurring contribution (e.g. every 1 month)
type RecurrenceInterval struct {
	Value int          `json:"frequency_interval"`
	Unit  IntervalUnit `json:"frequency_unit"`
}

// DefaultInterval is used when the caller does not specify a frequency
var DefaultInterval = RecurrenceInterval{Value: 1, Unit: IntervalUnitMonth}

// Normalize fills in the default for missing parts
func (ri RecurrenceInterval) Normalize() RecurrenceInterval {
	if ri.Value <= 0 {
		ri.Value = DefaultInterval.Value
	}
	if ri.Unit == "" {
		ri.Unit = DefaultInterval.Unit
	}
	return ri
}

// After returns the instant one interval after t, in t's location
func (ri RecurrenceInterval) After(t time.Time) time.Time {
	ri = ri.Normalize()

	switch ri.Unit {
	case IntervalUnitDay:
		return t.AddDate(0, 0, ri.Value)
	case IntervalUnitWeek:
		return t.AddDate(0, 0, ri.Value*7)
	case IntervalUnitYear:
		return t.AddDate(ri.Value, 0, 0)
	default:
		return t.AddDate(0, ri.Value, 0)
	}
}

// String returns a human-readable interval description
func (ri RecurrenceInterval) String() string {
	ri = ri.Normalize()
	if ri.Value == 1 {
		return string(ri.Unit)
	}
	return strconv.Itoa(ri.Value) + " " + string(ri.Unit) + "s"
}

// EditableScheduleFields are the recurring schedule fields a back office may change.
// Frequency is fixed once the customer code exists.
var EditableScheduleFields = []string{
	"amount",
	"installments",
	"next_sched_contribution_date",
}

// SubscriptionAck is the acknowledgement returned by lifecycle operations
// that defer the actual rescheduling to the billing framework.
type SubscriptionAck struct {
	SubscriptionID string `json:"subscription_id"`
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
}

// ScheduleUpdateHelpText is shown above the recurring schedule editing form
const ScheduleUpdateHelpText = "Use this form to change the amount or number of installments for this recurring contribution. " +
	"You can not change the contribution frequency. " +
	"You can also modify the next scheduled contribution date, and whether or not the recipient will get email receipts for each contribution."
