package implementation

import (
	"context"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/model"
	"food-donation-be/internal/repository/contract"
	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type donationRepository struct {
	gormStore[model.Donation, entity.Donation]
}

func NewDonationRepository(db *gorm.DB) contract.DonationRepository {
	m := mapper.NewDonationMapper()
	return &donationRepository{newStore(db, m.ToModel, m.ToEntity)}
}

func (r *donationRepository) UpdateWhere(ctx context.Context, id uuid.UUID, fields map[string]interface{}, guards ...specification.Specification) (bool, error) {
	query := r.conn(ctx).Model(&model.Donation{}).Where("id = ?", id)
	for _, guard := range guards {
		query = guard.Apply(query)
	}
	result := query.Updates(fields)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *donationRepository) SaveWhere(ctx context.Context, donation *entity.Donation, guards ...specification.Specification) (bool, error) {
	m := r.toModel(donation)
	query := r.conn(ctx).Model(m).Select("*").Omit("created_at", clause.Associations)
	for _, guard := range guards {
		query = guard.Apply(query)
	}
	result := query.Updates(m)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *donationRepository) DeleteWhere(ctx context.Context, id uuid.UUID, guards ...specification.Specification) (bool, error) {
	query := r.conn(ctx).Where("id = ?", id)
	for _, guard := range guards {
		query = guard.Apply(query)
	}
	result := query.Delete(&model.Donation{})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

type donationClaimRepository struct {
	gormStore[model.DonationClaim, entity.DonationClaim]
}

func NewDonationClaimRepository(db *gorm.DB) contract.DonationClaimRepository {
	m := mapper.NewDonationMapper()
	return &donationClaimRepository{newStore(db, m.ClaimToModel, m.ClaimToEntity)}
}

func (r *donationClaimRepository) DeleteByDonation(ctx context.Context, donationId uuid.UUID) error {
	return r.conn(ctx).Where("donation_id = ?", donationId).Delete(&model.DonationClaim{}).Error
}
