package dto

type AdminUserListRequest struct {
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
	Search   string `query:"search"`
	Role     string `query:"role" validate:"omitempty,oneof=admin donor charity"`
	Verified string `query:"is_verified" validate:"omitempty,oneof=true false"`
}

// AdminUpdateUserRequest extends the profile update with fields only admins may set.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin donor charity"`
	IsVerified *bool   `json:"is_verified"`
	IsActive   *bool   `json:"is_active"`
}

type AdminReportResponse struct {
	Users     UserReport     `json:"users"`
	Donations DonationReport `json:"donations"`
	WasteLogs WasteReport    `json:"waste_logs"`
}

type UserReport struct {
	Total      int64 `json:"total"`
	Admins     int64 `json:"admins"`
	Donors     int64 `json:"donors"`
	Charities  int64 `json:"charities"`
	Verified   int64 `json:"verified"`
	Unverified int64 `json:"unverified"`
}

// DonationReport counts by effective status, so lapsed donations show as expired.
type DonationReport struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Claimed   int64 `json:"claimed"`
	Received  int64 `json:"received"`
	Expired   int64 `json:"expired"`
}

type WasteReport struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
}
