package contract

import (
	"context"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
)

// WasteLogRepository has no Update: logs are immutable once recorded.
type WasteLogRepository interface {
	Create(ctx context.Context, log *entity.WasteLog) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WasteLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WasteLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountBy(ctx context.Context, column string, specs ...specification.Specification) (map[string]int64, error)
}

type WasteReductionRepository interface {
	Create(ctx context.Context, reduction *entity.WasteReduction) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WasteReduction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WasteReduction, error)
}
