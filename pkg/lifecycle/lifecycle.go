// Package lifecycle holds the donation state machine: which stored
// transitions are legal and how a donation reads once its expiry passes.
package lifecycle

import (
	"time"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/apperror"
)

// transitions lists the only moves the lifecycle performs. Expiry is never
// written; it is derived at read time.
var transitions = map[entity.DonationStatus][]entity.DonationStatus{
	entity.DonationStatusAvailable: {entity.DonationStatusClaimed},
	entity.DonationStatusClaimed:   {entity.DonationStatusReceived},
}

// Today returns the calendar day of now in loc, as midnight UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return entity.DateOnly(now.In(loc))
}

// IsLapsed reports whether an unclaimed donation is past its expiry date.
func IsLapsed(d *entity.Donation, today time.Time) bool {
	return d.Status == entity.DonationStatusAvailable && d.ExpiryDate.Before(entity.DateOnly(today))
}

// Effective is the status readers see. Claimed and received donations keep
// their stored status regardless of the expiry date.
func Effective(d *entity.Donation, today time.Time) entity.DonationStatus {
	if IsLapsed(d, today) {
		return entity.DonationStatusExpired
	}
	return d.Status
}

func CanTransition(from, to entity.DonationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to entity.DonationStatus) error {
	if !CanTransition(from, to) {
		return apperror.InvalidTransition(string(from), string(to))
	}
	return nil
}

// IsTerminal reports whether no lifecycle transition leaves status.
func IsTerminal(status entity.DonationStatus) bool {
	return len(transitions[status]) == 0
}
