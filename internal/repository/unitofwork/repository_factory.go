package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

// RepositoryFactory hands out one UnitOfWork per operation.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type gormRepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormRepositoryFactory{db: db}
}

// NewUnitOfWork binds ctx for reads made outside a transaction. Begin may
// still be given a narrower context.
func (f *gormRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	if ctx == nil {
		ctx = context.Background()
	}
	return &gormUnitOfWork{db: f.db.WithContext(ctx)}
}
