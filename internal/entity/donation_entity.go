package entity

import (
	"time"

	"github.com/google/uuid"
)

type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "available"
	DonationStatusClaimed   DonationStatus = "claimed"
	DonationStatusReceived  DonationStatus = "received"
	DonationStatusExpired   DonationStatus = "expired"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusAvailable, DonationStatusClaimed, DonationStatusReceived, DonationStatusExpired:
		return true
	}
	return false
}

type Donation struct {
	Id                 uuid.UUID
	DonorId            uuid.UUID
	CharityId          *uuid.UUID
	CategoryId         uuid.UUID
	FoodName           string
	Description        string
	Quantity           string
	ExpiryDate         time.Time
	PickupAddress      string
	PickupCity         string
	PickupState        string
	PickupZip          string
	PickupInstructions string
	Latitude           *float64
	Longitude          *float64
	Status             DonationStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClaimedAt          *time.Time
	ReceivedAt         *time.Time

	// Loaded on demand for read paths.
	Donor    *User
	Charity  *User
	Category *Category
}

type DonationClaim struct {
	Id          uuid.UUID
	DonationId  uuid.UUID
	CharityId   uuid.UUID
	ClaimedAt   time.Time
	PickupTime  *time.Time
	Notes       string
	IsReceived  bool
	ReceivedAt  *time.Time
	Donation    *Donation
	CharityName string
}
