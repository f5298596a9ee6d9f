package mapper

import (
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/pkg/access"
	"food-donation-be/pkg/lifecycle"
)

// UserToResponse converts an entity to the profile payload.
func UserToResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		Id:                      u.Id,
		Email:                   u.Email,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		FullName:                u.FullName(),
		Role:                    string(u.Role),
		PhoneNumber:             u.PhoneNumber,
		Address:                 u.Address,
		City:                    u.City,
		State:                   u.State,
		ZipCode:                 u.ZipCode,
		OrganizationName:        u.OrganizationName,
		OrganizationDescription: u.OrganizationDescription,
		IsVerified:              u.IsVerified,
		IsActive:                u.IsActive,
		VerifiedBadge:           access.ShowsVerifiedBadge(u),
		DateJoined:              u.DateJoined,
	}
}

func UsersToResponse(users []*entity.User) []*dto.UserResponse {
	res := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, UserToResponse(u))
	}
	return res
}

func UserToSummary(u *entity.User) *dto.UserSummary {
	if u == nil {
		return nil
	}
	return &dto.UserSummary{
		Id:            u.Id,
		Name:          u.DisplayName(),
		Role:          string(u.Role),
		VerifiedBadge: access.ShowsVerifiedBadge(u),
	}
}

func CategoryToResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
	}
}

func CategoriesToResponse(categories []*entity.Category) []*dto.CategoryResponse {
	res := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, CategoryToResponse(c))
	}
	return res
}

// DonationToResponse reports the effective status for today, so a lapsed
// available donation reads as expired.
func DonationToResponse(d *entity.Donation, today time.Time) *dto.DonationResponse {
	if d == nil {
		return nil
	}
	return &dto.DonationResponse{
		Id:                 d.Id,
		FoodName:           d.FoodName,
		Description:        d.Description,
		Quantity:           d.Quantity,
		Category:           CategoryToResponse(d.Category),
		ExpiryDate:         d.ExpiryDate.Format(entity.DateLayout),
		PickupAddress:      d.PickupAddress,
		PickupCity:         d.PickupCity,
		PickupState:        d.PickupState,
		PickupZip:          d.PickupZip,
		PickupInstructions: d.PickupInstructions,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		Status:             string(lifecycle.Effective(d, today)),
		Donor:              UserToSummary(d.Donor),
		Charity:            UserToSummary(d.Charity),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		ClaimedAt:          d.ClaimedAt,
		ReceivedAt:         d.ReceivedAt,
	}
}

func DonationsToResponse(donations []*entity.Donation, today time.Time) []*dto.DonationResponse {
	res := make([]*dto.DonationResponse, 0, len(donations))
	for _, d := range donations {
		res = append(res, DonationToResponse(d, today))
	}
	return res
}

func ClaimToResponse(c *entity.DonationClaim) *dto.ClaimResponse {
	if c == nil {
		return nil
	}
	res := &dto.ClaimResponse{
		Id:          c.Id,
		DonationId:  c.DonationId,
		CharityId:   c.CharityId,
		CharityName: c.CharityName,
		ClaimedAt:   c.ClaimedAt,
		PickupTime:  c.PickupTime,
		Notes:       c.Notes,
		IsReceived:  c.IsReceived,
		ReceivedAt:  c.ReceivedAt,
	}
	if c.Donation != nil {
		res.FoodName = c.Donation.FoodName
	}
	return res
}

func ClaimsToResponse(claims []*entity.DonationClaim) []*dto.ClaimResponse {
	res := make([]*dto.ClaimResponse, 0, len(claims))
	for _, c := range claims {
		res = append(res, ClaimToResponse(c))
	}
	return res
}

func WasteLogToResponse(w *entity.WasteLog) *dto.WasteLogResponse {
	if w == nil {
		return nil
	}
	return &dto.WasteLogResponse{
		Id:            w.Id,
		UserId:        w.UserId,
		FoodName:      w.FoodName,
		Description:   w.Description,
		Quantity:      w.Quantity,
		WasteType:     string(w.WasteType),
		WasteCategory: CategoryToResponse(w.WasteCategory),
		FoodCategory:  CategoryToResponse(w.FoodCategory),
		Date:          w.Date.Format(entity.DateLayout),
		Notes:         w.Notes,
		CreatedAt:     w.CreatedAt,
	}
}

func WasteLogsToResponse(logs []*entity.WasteLog) []*dto.WasteLogResponse {
	res := make([]*dto.WasteLogResponse, 0, len(logs))
	for _, w := range logs {
		res = append(res, WasteLogToResponse(w))
	}
	return res
}

func WasteReductionToResponse(r *entity.WasteReduction) *dto.WasteReductionResponse {
	if r == nil {
		return nil
	}
	return &dto.WasteReductionResponse{
		Id:          r.Id,
		UserId:      r.UserId,
		Title:       r.Title,
		Description: r.Description,
		AmountSaved: r.AmountSaved,
		Date:        r.Date.Format(entity.DateLayout),
		CreatedAt:   r.CreatedAt,
	}
}

func WasteReductionsToResponse(rows []*entity.WasteReduction) []*dto.WasteReductionResponse {
	res := make([]*dto.WasteReductionResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, WasteReductionToResponse(r))
	}
	return res
}
