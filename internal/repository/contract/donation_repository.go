package contract

import (
	"context"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	Update(ctx context.Context, donation *entity.Donation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Donation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Donation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateWhere applies fields to the donation only if every guard still holds,
	// reporting whether a row changed. It is the compare-and-set behind claiming.
	UpdateWhere(ctx context.Context, id uuid.UUID, fields map[string]interface{}, guards ...specification.Specification) (bool, error)

	// SaveWhere writes every column of donation under the same guard rule.
	SaveWhere(ctx context.Context, donation *entity.Donation, guards ...specification.Specification) (bool, error)
	// DeleteWhere removes the donation only if every guard still holds.
	DeleteWhere(ctx context.Context, id uuid.UUID, guards ...specification.Specification) (bool, error)
}

type DonationClaimRepository interface {
	Create(ctx context.Context, claim *entity.DonationClaim) error
	Update(ctx context.Context, claim *entity.DonationClaim) error
	DeleteByDonation(ctx context.Context, donationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DonationClaim, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DonationClaim, error)
}
