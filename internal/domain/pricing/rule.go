package pricing

import (
	"bytes"
	"errors"
	"time"

	"courtbook/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveRate = errors.New("price per hour must be positive")
	ErrRuleRangeOrder  = errors.New("rule time range start must be before end")
	ErrNoMatchingRule  = errors.New("no pricing rule matches the requested slot")
)

// Rule prices one court for a time-of-day range, optionally restricted to a
// weekday and a validity window.
type Rule struct {
	ID                uuid.UUID
	CourtID           uuid.UUID
	Weekday           *time.Weekday
	RangeStart        schedule.TimeOfDay
	RangeEnd          schedule.TimeOfDay
	PricePerHourCents int64
	ValidFrom         *time.Time
	ValidTo           *time.Time
}

func NewRule(
	id, courtID uuid.UUID,
	weekday *time.Weekday,
	rangeStart, rangeEnd schedule.TimeOfDay,
	pricePerHourCents int64,
	validFrom, validTo *time.Time,
) (Rule, error) {
	if rangeStart >= rangeEnd {
		return Rule{}, ErrRuleRangeOrder
	}
	if pricePerHourCents <= 0 {
		return Rule{}, ErrNonPositiveRate
	}
	return Rule{
		ID:                id,
		CourtID:           courtID,
		Weekday:           weekday,
		RangeStart:        rangeStart,
		RangeEnd:          rangeEnd,
		PricePerHourCents: pricePerHourCents,
		ValidFrom:         validFrom,
		ValidTo:           validTo,
	}, nil
}

// Matches reports whether the rule applies to a slot starting at the given
// instant: the time-of-day range must contain the start time and the
// validity window must contain the date.
func (r Rule) Matches(slotStart time.Time) bool {
	t := slotStart.UTC()
	minutes := schedule.TimeOfDay(t.Hour()*60 + t.Minute())
	if minutes < r.RangeStart || minutes >= r.RangeEnd {
		return false
	}
	if r.Weekday != nil && *r.Weekday != t.Weekday() {
		return false
	}
	if r.ValidFrom != nil && t.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && t.After(*r.ValidTo) {
		return false
	}
	return true
}

func (r Rule) rangeWidth() schedule.TimeOfDay {
	return r.RangeEnd - r.RangeStart
}

// SelectRule picks the rule for a slot start. When several match, the
// narrowest time range wins; remaining ties break by earliest range start,
// then lowest rule id, so the pick is always deterministic.
func SelectRule(rules []Rule, slotStart time.Time) (Rule, error) {
	var best *Rule
	for i := range rules {
		r := rules[i]
		if !r.Matches(slotStart) {
			continue
		}
		if best == nil || lessSpecific(*best, r) {
			best = &r
		}
	}
	if best == nil {
		return Rule{}, ErrNoMatchingRule
	}
	return *best, nil
}

func lessSpecific(cur, cand Rule) bool {
	if cand.rangeWidth() != cur.rangeWidth() {
		return cand.rangeWidth() < cur.rangeWidth()
	}
	if cand.RangeStart != cur.RangeStart {
		return cand.RangeStart < cur.RangeStart
	}
	return bytes.Compare(cand.ID[:], cur.ID[:]) < 0
}
