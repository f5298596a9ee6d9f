package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ForUpdate locks the selected rows until the transaction ends. SQLite
// ignores it; its single writer already serializes.
type ForUpdate struct{}

func (ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// OrderBy sorts on Field and breaks ties on id in the same direction, so
// paged listings never repeat or skip rows.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
	if s.Field == "id" {
		return db
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: s.Desc})
}

// Pagination applies limit/offset. A non-positive Limit leaves the query unbounded.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	if s.Limit <= 0 {
		return db.Offset(s.Offset)
	}
	return db.Limit(s.Limit).Offset(s.Offset)
}

// Equals matches a single column against a value.
type Equals struct {
	Column string
	Value  interface{}
}

func (s Equals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(clause.Eq{Column: clause.Column{Name: s.Column}, Value: s.Value})
}

func Filter(column string, value interface{}) Specification {
	return Equals{Column: column, Value: value}
}

// Preload eagerly loads the named associations.
type Preload struct {
	Associations []string
}

func (s Preload) Apply(db *gorm.DB) *gorm.DB {
	for _, a := range s.Associations {
		db = db.Preload(a)
	}
	return db
}
