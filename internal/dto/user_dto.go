package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	Id                      uuid.UUID `json:"id"`
	Email                   string    `json:"email"`
	FirstName               string    `json:"first_name"`
	LastName                string    `json:"last_name"`
	FullName                string    `json:"full_name"`
	Role                    string    `json:"role"`
	PhoneNumber             string    `json:"phone_number"`
	Address                 string    `json:"address"`
	City                    string    `json:"city"`
	State                   string    `json:"state"`
	ZipCode                 string    `json:"zip_code"`
	OrganizationName        string    `json:"organization_name"`
	OrganizationDescription string    `json:"organization_description"`
	IsVerified              bool      `json:"is_verified"`
	IsActive                bool      `json:"is_active"`
	VerifiedBadge           bool      `json:"verified_badge"`
	DateJoined              time.Time `json:"date_joined"`
}

// UserSummary is the compact form embedded in donation and claim payloads.
type UserSummary struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	VerifiedBadge bool      `json:"verified_badge"`
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName               *string `json:"first_name" validate:"omitempty,max=150"`
	LastName                *string `json:"last_name" validate:"omitempty,max=150"`
	PhoneNumber             *string `json:"phone_number" validate:"omitempty,max=15"`
	Address                 *string `json:"address"`
	City                    *string `json:"city" validate:"omitempty,max=100"`
	State                   *string `json:"state" validate:"omitempty,max=100"`
	ZipCode                 *string `json:"zip_code" validate:"omitempty,max=10"`
	OrganizationName        *string `json:"organization_name" validate:"omitempty,max=255"`
	OrganizationDescription *string `json:"organization_description"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}
