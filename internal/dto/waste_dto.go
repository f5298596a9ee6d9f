package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWasteLogRequest struct {
	FoodName        string  `json:"food_name" validate:"required,notblank,max=255"`
	Description     string  `json:"description"`
	Quantity        string  `json:"quantity" validate:"required,notblank,max=100"`
	WasteType       string  `json:"waste_type" validate:"required,oneof=spoiled expired leftovers other"`
	WasteCategoryId *string `json:"waste_category" validate:"omitempty,uuid"`
	FoodCategoryId  *string `json:"food_category" validate:"omitempty,uuid"`
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	Notes           string  `json:"notes"`
}

type WasteLogResponse struct {
	Id            uuid.UUID         `json:"id"`
	UserId        uuid.UUID         `json:"user"`
	FoodName      string            `json:"food_name"`
	Description   string            `json:"description"`
	Quantity      string            `json:"quantity"`
	WasteType     string            `json:"waste_type"`
	WasteCategory *CategoryResponse `json:"waste_category"`
	FoodCategory  *CategoryResponse `json:"food_category"`
	Date          string            `json:"date"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type WasteStatsResponse struct {
	Total      int64            `json:"total"`
	ByType     map[string]int64 `json:"by_type"`
	ByCategory map[string]int64 `json:"by_category"`
	ByMonth    []MonthCount     `json:"by_month"`
}

type CreateWasteReductionRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	AmountSaved string `json:"amount_saved" validate:"max=100"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

type WasteReductionResponse struct {
	Id          uuid.UUID `json:"id"`
	UserId      uuid.UUID `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AmountSaved string    `json:"amount_saved"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}
