package mapper

import (
	"time"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/model"

	"gorm.io/datatypes"
)

type DonationMapper struct {
	users      *UserMapper
	categories *CategoryMapper
}

func NewDonationMapper() *DonationMapper {
	return &DonationMapper{
		users:      NewUserMapper(),
		categories: NewCategoryMapper(),
	}
}

func (m *DonationMapper) ToEntity(d *model.Donation) *entity.Donation {
	if d == nil {
		return nil
	}
	e := &entity.Donation{
		Id:                 d.Id,
		DonorId:            d.DonorId,
		CharityId:          d.CharityId,
		CategoryId:         d.CategoryId,
		FoodName:           d.FoodName,
		Description:        d.Description,
		Quantity:           d.Quantity,
		ExpiryDate:         entity.DateOnly(time.Time(d.ExpiryDate)),
		PickupAddress:      d.PickupAddress,
		PickupCity:         d.PickupCity,
		PickupState:        d.PickupState,
		PickupZip:          d.PickupZip,
		PickupInstructions: d.PickupInstructions,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		Status:             entity.DonationStatus(d.Status),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		ClaimedAt:          d.ClaimedAt,
		ReceivedAt:         d.ReceivedAt,
		Donor:              m.users.ToEntity(d.Donor),
		Charity:            m.users.ToEntity(d.Charity),
	}
	if d.Category != nil {
		e.Category = m.categories.ToEntity(&d.Category.Category, entity.CategoryKindFood)
	}
	return e
}

// ToModel leaves associations empty so Save never upserts related rows.
func (m *DonationMapper) ToModel(d *entity.Donation) *model.Donation {
	if d == nil {
		return nil
	}
	return &model.Donation{
		Id:                 d.Id,
		DonorId:            d.DonorId,
		CharityId:          d.CharityId,
		CategoryId:         d.CategoryId,
		FoodName:           d.FoodName,
		Description:        d.Description,
		Quantity:           d.Quantity,
		ExpiryDate:         datatypes.Date(entity.DateOnly(d.ExpiryDate)),
		PickupAddress:      d.PickupAddress,
		PickupCity:         d.PickupCity,
		PickupState:        d.PickupState,
		PickupZip:          d.PickupZip,
		PickupInstructions: d.PickupInstructions,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		Status:             string(d.Status),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		ClaimedAt:          d.ClaimedAt,
		ReceivedAt:         d.ReceivedAt,
	}
}

func (m *DonationMapper) ToEntities(donations []*model.Donation) []*entity.Donation {
	entities := make([]*entity.Donation, len(donations))
	for i, d := range donations {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DonationMapper) ClaimToEntity(c *model.DonationClaim) *entity.DonationClaim {
	if c == nil {
		return nil
	}
	e := &entity.DonationClaim{
		Id:         c.Id,
		DonationId: c.DonationId,
		CharityId:  c.CharityId,
		ClaimedAt:  c.ClaimedAt,
		PickupTime: c.PickupTime,
		Notes:      c.Notes,
		IsReceived: c.IsReceived,
		ReceivedAt: c.ReceivedAt,
		Donation:   m.ToEntity(c.Donation),
	}
	if c.Charity != nil {
		e.CharityName = m.users.ToEntity(c.Charity).DisplayName()
	}
	return e
}

func (m *DonationMapper) ClaimToModel(c *entity.DonationClaim) *model.DonationClaim {
	if c == nil {
		return nil
	}
	return &model.DonationClaim{
		Id:         c.Id,
		DonationId: c.DonationId,
		CharityId:  c.CharityId,
		ClaimedAt:  c.ClaimedAt,
		PickupTime: c.PickupTime,
		Notes:      c.Notes,
		IsReceived: c.IsReceived,
		ReceivedAt: c.ReceivedAt,
	}
}

func (m *DonationMapper) ClaimsToEntities(claims []*model.DonationClaim) []*entity.DonationClaim {
	entities := make([]*entity.DonationClaim, len(claims))
	for i, c := range claims {
		entities[i] = m.ClaimToEntity(c)
	}
	return entities
}
