package mapper

import (
	"time"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/model"

	"gorm.io/datatypes"
)

type WasteMapper struct {
	categories *CategoryMapper
}

func NewWasteMapper() *WasteMapper {
	return &WasteMapper{categories: NewCategoryMapper()}
}

func (m *WasteMapper) ToEntity(w *model.WasteLog) *entity.WasteLog {
	if w == nil {
		return nil
	}
	e := &entity.WasteLog{
		Id:              w.Id,
		UserId:          w.UserId,
		FoodName:        w.FoodName,
		Description:     w.Description,
		Quantity:        w.Quantity,
		WasteType:       entity.WasteType(w.WasteType),
		WasteCategoryId: w.WasteCategoryId,
		FoodCategoryId:  w.FoodCategoryId,
		Date:            entity.DateOnly(time.Time(w.Date)),
		Notes:           w.Notes,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
	if w.WasteCategory != nil {
		e.WasteCategory = m.categories.ToEntity(&w.WasteCategory.Category, entity.CategoryKindWaste)
	}
	if w.FoodCategory != nil {
		e.FoodCategory = m.categories.ToEntity(&w.FoodCategory.Category, entity.CategoryKindFood)
	}
	return e
}

func (m *WasteMapper) ToModel(w *entity.WasteLog) *model.WasteLog {
	if w == nil {
		return nil
	}
	return &model.WasteLog{
		Id:              w.Id,
		UserId:          w.UserId,
		FoodName:        w.FoodName,
		Description:     w.Description,
		Quantity:        w.Quantity,
		WasteType:       string(w.WasteType),
		WasteCategoryId: w.WasteCategoryId,
		FoodCategoryId:  w.FoodCategoryId,
		Date:            datatypes.Date(entity.DateOnly(w.Date)),
		Notes:           w.Notes,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (m *WasteMapper) ToEntities(logs []*model.WasteLog) []*entity.WasteLog {
	entities := make([]*entity.WasteLog, len(logs))
	for i, w := range logs {
		entities[i] = m.ToEntity(w)
	}
	return entities
}

func (m *WasteMapper) ReductionToEntity(r *model.WasteReduction) *entity.WasteReduction {
	if r == nil {
		return nil
	}
	return &entity.WasteReduction{
		Id:          r.Id,
		UserId:      r.UserId,
		Title:       r.Title,
		Description: r.Description,
		AmountSaved: r.AmountSaved,
		Date:        entity.DateOnly(time.Time(r.Date)),
		CreatedAt:   r.CreatedAt,
	}
}

func (m *WasteMapper) ReductionToModel(r *entity.WasteReduction) *model.WasteReduction {
	if r == nil {
		return nil
	}
	return &model.WasteReduction{
		Id:          r.Id,
		UserId:      r.UserId,
		Title:       r.Title,
		Description: r.Description,
		AmountSaved: r.AmountSaved,
		Date:        datatypes.Date(entity.DateOnly(r.Date)),
		CreatedAt:   r.CreatedAt,
	}
}

func (m *WasteMapper) ReductionsToEntities(rows []*model.WasteReduction) []*entity.WasteReduction {
	entities := make([]*entity.WasteReduction, len(rows))
	for i, r := range rows {
		entities[i] = m.ReductionToEntity(r)
	}
	return entities
}
