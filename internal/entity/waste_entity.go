package entity

import (
	"time"

	"github.com/google/uuid"
)

type WasteType string

const (
	WasteTypeSpoiled   WasteType = "spoiled"
	WasteTypeExpired   WasteType = "expired"
	WasteTypeLeftovers WasteType = "leftovers"
	WasteTypeOther     WasteType = "other"
)

func (w WasteType) Valid() bool {
	switch w {
	case WasteTypeSpoiled, WasteTypeExpired, WasteTypeLeftovers, WasteTypeOther:
		return true
	}
	return false
}

// WasteLog is immutable once recorded.
type WasteLog struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	FoodName        string
	Description     string
	Quantity        string
	WasteType       WasteType
	WasteCategoryId *uuid.UUID
	FoodCategoryId  *uuid.UUID
	Date            time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	WasteCategory *Category
	FoodCategory  *Category
}

type WasteReduction struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Description string
	AmountSaved string
	Date        time.Time
	CreatedAt   time.Time
}
