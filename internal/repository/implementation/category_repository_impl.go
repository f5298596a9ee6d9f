package implementation

import (
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/model"
	"food-donation-be/internal/repository/contract"

	"gorm.io/gorm"
)

// categoryRepository reads and writes one of the two category tables through
// the shared Category model.
type categoryRepository struct {
	gormStore[model.Category, entity.Category]
	kind entity.CategoryKind
}

func NewCategoryRepository(db *gorm.DB, kind entity.CategoryKind) contract.CategoryRepository {
	m := mapper.NewCategoryMapper()
	store := newStore(db, m.ToModel, func(c *model.Category) *entity.Category {
		return m.ToEntity(c, kind)
	})
	store.table = model.FoodCategory{}.TableName()
	if kind == entity.CategoryKindWaste {
		store.table = model.WasteCategory{}.TableName()
	}
	return &categoryRepository{gormStore: store, kind: kind}
}

func (r *categoryRepository) Kind() entity.CategoryKind {
	return r.kind
}
