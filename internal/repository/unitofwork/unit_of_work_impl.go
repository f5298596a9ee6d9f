package unitofwork

import (
	"context"
	"errors"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/repository/contract"
	"food-donation-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	errTxActive   = errors.New("unit of work: transaction already started")
	errTxInactive = errors.New("unit of work: no active transaction")
)

// gormUnitOfWork scopes every repository it returns to the open transaction,
// or to the plain connection when none is open. It is not safe for
// concurrent use.
type gormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

func (u *gormUnitOfWork) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *gormUnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errTxActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *gormUnitOfWork) Commit() error {
	if u.tx == nil {
		return errTxInactive
	}
	tx := u.tx
	u.tx = nil
	return tx.Commit().Error
}

// Rollback is a no-op after Commit so callers can defer it unconditionally.
func (u *gormUnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	return tx.Rollback().Error
}

func (u *gormUnitOfWork) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.conn())
}

func (u *gormUnitOfWork) DonationRepository() contract.DonationRepository {
	return implementation.NewDonationRepository(u.conn())
}

func (u *gormUnitOfWork) DonationClaimRepository() contract.DonationClaimRepository {
	return implementation.NewDonationClaimRepository(u.conn())
}

func (u *gormUnitOfWork) CategoryRepository(kind entity.CategoryKind) contract.CategoryRepository {
	return implementation.NewCategoryRepository(u.conn(), kind)
}

func (u *gormUnitOfWork) WasteLogRepository() contract.WasteLogRepository {
	return implementation.NewWasteLogRepository(u.conn())
}

func (u *gormUnitOfWork) WasteReductionRepository() contract.WasteReductionRepository {
	return implementation.NewWasteReductionRepository(u.conn())
}

func (u *gormUnitOfWork) NotificationRepository() contract.NotificationRepository {
	return implementation.NewNotificationRepository(u.conn())
}
