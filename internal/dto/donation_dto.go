package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDonationRequest struct {
	FoodName           string   `json:"food_name" validate:"required,notblank,max=255"`
	Description        string   `json:"description"`
	Quantity           string   `json:"quantity" validate:"required,notblank,max=100"`
	CategoryId         string   `json:"category" validate:"required,uuid"`
	ExpiryDate         string   `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	PickupAddress      string   `json:"pickup_address" validate:"required,notblank"`
	PickupCity         string   `json:"pickup_city" validate:"required,notblank,max=100"`
	PickupState        string   `json:"pickup_state" validate:"required,notblank,max=100"`
	PickupZip          string   `json:"pickup_zip" validate:"required,notblank,max=10"`
	PickupInstructions string   `json:"pickup_instructions"`
	Latitude           *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude          *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// UpdateDonationRequest is a partial update. Status is honored for admins only.
type UpdateDonationRequest struct {
	FoodName           *string  `json:"food_name" validate:"omitempty,notblank,max=255"`
	Description        *string  `json:"description"`
	Quantity           *string  `json:"quantity" validate:"omitempty,notblank,max=100"`
	CategoryId         *string  `json:"category" validate:"omitempty,uuid"`
	ExpiryDate         *string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	PickupAddress      *string  `json:"pickup_address" validate:"omitempty,notblank"`
	PickupCity         *string  `json:"pickup_city" validate:"omitempty,notblank,max=100"`
	PickupState        *string  `json:"pickup_state" validate:"omitempty,notblank,max=100"`
	PickupZip          *string  `json:"pickup_zip" validate:"omitempty,notblank,max=10"`
	PickupInstructions *string  `json:"pickup_instructions"`
	Latitude           *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude          *float64 `json:"longitude" validate:"omitempty,longitude"`
	Status             *string  `json:"status" validate:"omitempty,oneof=available claimed received expired"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available claimed received expired"`
}

// DonationFilter carries the list filters. Empty fields do not filter.
type DonationFilter struct {
	Search      string `query:"search"`
	Category    string `query:"category" validate:"omitempty,uuid"`
	Location    string `query:"location"`
	ExpiryAfter string `query:"expiry_after" validate:"omitempty,datetime=2006-01-02"`
	Status      string `query:"status" validate:"omitempty,oneof=available claimed received expired"`
	Limit       int    `query:"limit" validate:"omitempty,min=0,max=500"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

type DonationResponse struct {
	Id                 uuid.UUID         `json:"id"`
	FoodName           string            `json:"food_name"`
	Description        string            `json:"description"`
	Quantity           string            `json:"quantity"`
	Category           *CategoryResponse `json:"category"`
	ExpiryDate         string            `json:"expiry_date"`
	PickupAddress      string            `json:"pickup_address"`
	PickupCity         string            `json:"pickup_city"`
	PickupState        string            `json:"pickup_state"`
	PickupZip          string            `json:"pickup_zip"`
	PickupInstructions string            `json:"pickup_instructions"`
	Latitude           *float64          `json:"latitude"`
	Longitude          *float64          `json:"longitude"`
	Status             string            `json:"status"`
	Donor              *UserSummary      `json:"donor"`
	Charity            *UserSummary      `json:"charity"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	ClaimedAt          *time.Time        `json:"claimed_at"`
	ReceivedAt         *time.Time        `json:"received_at"`
}

// ClaimRequest takes pickup_time as RFC 3339 or a local "2006-01-02T15:04".
type ClaimRequest struct {
	PickupTime string `json:"pickup_time"`
	Notes      string `json:"notes"`
}

type ClaimResponse struct {
	Id          uuid.UUID  `json:"id"`
	DonationId  uuid.UUID  `json:"donation"`
	FoodName    string     `json:"food_name,omitempty"`
	CharityId   uuid.UUID  `json:"charity"`
	CharityName string     `json:"charity_name"`
	ClaimedAt   time.Time  `json:"claimed_at"`
	PickupTime  *time.Time `json:"pickup_time"`
	Notes       string     `json:"notes"`
	IsReceived  bool       `json:"is_received"`
	ReceivedAt  *time.Time `json:"received_at"`
}
