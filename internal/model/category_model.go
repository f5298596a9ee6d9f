package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is the shared row shape of the food and waste category tables.
// Repositories address it through an explicit table name.
type Category struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

type FoodCategory struct {
	Category
}

func (FoodCategory) TableName() string {
	return "food_categories"
}

type WasteCategory struct {
	Category
}

func (WasteCategory) TableName() string {
	return "waste_categories"
}
