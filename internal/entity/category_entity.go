package entity

import (
	"time"

	"github.com/google/uuid"
)

type CategoryKind string

const (
	CategoryKindFood  CategoryKind = "food"
	CategoryKindWaste CategoryKind = "waste"
)

type Category struct {
	Id          uuid.UUID
	Kind        CategoryKind
	Name        string
	Description string
	CreatedAt   time.Time
}
