package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/recurring-payment-service/pkg/timeutil"
)

const (
	// NoDayRestriction is the allowed-days sentinel meaning "charge immediately"
	NoDayRestriction = -1

	// SchedulingHour is the time of day deferred charges are pinned to, so that
	// repeated scheduling of the same subscription lands on the same instant
	SchedulingHour = 3

	// a Feb 29 only schedule can be four years out
	maxScheduleMonths = 49
)

// ScheduleConfig holds the days of the month on which recurring charges may run
type ScheduleConfig struct {
	AllowedDays []int
}

// ParseScheduleConfig parses a comma-separated list such as "1,15" or "-1"
func ParseScheduleConfig(s string) (ScheduleConfig, error) {
	var cfg ScheduleConfig
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil {
			return ScheduleConfig{}, WrapError(ErrorCodeSchedulingError, "invalid allowed day "+strconv.Quote(part), err)
		}
		cfg.AllowedDays = append(cfg.AllowedDays, day)
	}
	return cfg, nil
}

// IsUnrestricted reports whether charges run immediately: no days configured,
// the sentinel present, or no positive day at all
func (c ScheduleConfig) IsUnrestricted() bool {
	if len(c.AllowedDays) == 0 {
		return true
	}
	maxDay := c.AllowedDays[0]
	for _, d := range c.AllowedDays {
		if d == NoDayRestriction {
			return true
		}
		if d > maxDay {
			maxDay = d
		}
	}
	return maxDay <= 0
}

// validDays returns the distinct calendar days (1..31) in ascending order
func (c ScheduleConfig) validDays() []int {
	seen := make(map[int]bool)
	var days []int
	for _, d := range c.AllowedDays {
		if d >= 1 && d <= 31 && !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days
}

// ScheduleDecision is the result of NextBillingDate
type ScheduleDecision struct {
	Immediate bool
	At        time.Time
}

// NextBillingDate returns the first instant on or after ref's date whose day of
// month is allowed, pinned to SchedulingHour in ref's location. An unrestricted
// config returns ref itself with Immediate set.
//
// Months that do not contain an allowed day are skipped: with only day 31
// allowed, a reference date in April resolves to May 31.
func NextBillingDate(ref time.Time, cfg ScheduleConfig) (ScheduleDecision, error) {
	if cfg.IsUnrestricted() {
		return ScheduleDecision{Immediate: true, At: ref}, nil
	}

	days := cfg.validDays()
	if len(days) == 0 {
		return ScheduleDecision{}, NewDomainError(ErrorCodeSchedulingError, "no allowed billing day between 1 and 31").
			WithDetail("allowed_days", cfg.AllowedDays)
	}

	year, month, fromDay := ref.Date()
	for i := 0; i < maxScheduleMonths; i++ {
		monthLen := timeutil.DaysIn(year, month)
		for _, d := range days {
			if d < fromDay || d > monthLen {
				continue
			}
			at := time.Date(year, month, d, SchedulingHour, 0, 0, 0, ref.Location())
			return ScheduleDecision{At: at}, nil
		}
		fromDay = 1
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return ScheduleDecision{}, NewDomainError(ErrorCodeSchedulingError, "no allowed billing day found").
		WithDetail("allowed_days", cfg.AllowedDays)
}
