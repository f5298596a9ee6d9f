package implementation

import (
	"context"
	"fmt"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/model"
	"food-donation-be/internal/repository/contract"
	"food-donation-be/internal/repository/specification"

	"gorm.io/gorm"
)

// groupableWasteColumns whitelists the columns CountBy may group on.
var groupableWasteColumns = map[string]bool{
	"waste_type":        true,
	"waste_category_id": true,
	"food_category_id":  true,
}

type wasteLogRepository struct {
	gormStore[model.WasteLog, entity.WasteLog]
}

func NewWasteLogRepository(db *gorm.DB) contract.WasteLogRepository {
	m := mapper.NewWasteMapper()
	return &wasteLogRepository{newStore(db, m.ToModel, m.ToEntity)}
}

// CountBy groups matching logs on column. NULL keys are reported as "".
func (r *wasteLogRepository) CountBy(ctx context.Context, column string, specs ...specification.Specification) (map[string]int64, error) {
	if !groupableWasteColumns[column] {
		return nil, fmt.Errorf("cannot group waste logs by %q", column)
	}

	var rows []struct {
		GroupKey *string
		Total    int64
	}
	query := r.query(ctx, specs).Model(&model.WasteLog{})
	err := query.
		Select(fmt.Sprintf("%s AS group_key, COUNT(*) AS total", column)).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := ""
		if row.GroupKey != nil {
			key = *row.GroupKey
		}
		result[key] += row.Total
	}
	return result, nil
}

type wasteReductionRepository struct {
	gormStore[model.WasteReduction, entity.WasteReduction]
}

func NewWasteReductionRepository(db *gorm.DB) contract.WasteReductionRepository {
	m := mapper.NewWasteMapper()
	return &wasteReductionRepository{newStore(db, m.ReductionToModel, m.ReductionToEntity)}
}
