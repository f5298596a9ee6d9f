package unitofwork

import (
	"context"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DonationRepository() contract.DonationRepository
	DonationClaimRepository() contract.DonationClaimRepository
	CategoryRepository(kind entity.CategoryKind) contract.CategoryRepository
	WasteLogRepository() contract.WasteLogRepository
	WasteReductionRepository() contract.WasteReductionRepository
	NotificationRepository() contract.NotificationRepository
}
