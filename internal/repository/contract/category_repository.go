package contract

import (
	"context"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CategoryRepository serves one category table, chosen at construction.
type CategoryRepository interface {
	Kind() entity.CategoryKind
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error)
}
