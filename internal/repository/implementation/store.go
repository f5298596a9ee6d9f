package implementation

import (
	"context"
	"errors"

	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormStore is the CRUD plumbing every repository embeds. M is the GORM
// model, E the entity it maps to. FindOne reports a missing row as nil, nil.
type gormStore[M any, E any] struct {
	db       *gorm.DB
	table    string
	toModel  func(*E) *M
	toEntity func(*M) *E
}

func newStore[M any, E any](db *gorm.DB, toModel func(*E) *M, toEntity func(*M) *E) gormStore[M, E] {
	return gormStore[M, E]{db: db, toModel: toModel, toEntity: toEntity}
}

// conn is the base query, pinned to the store's table when one is set.
func (s gormStore[M, E]) conn(ctx context.Context) *gorm.DB {
	db := s.db.WithContext(ctx)
	if s.table != "" {
		db = db.Table(s.table)
	}
	return db
}

func (s gormStore[M, E]) query(ctx context.Context, specs []specification.Specification) *gorm.DB {
	db := s.conn(ctx)
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (s gormStore[M, E]) Create(ctx context.Context, e *E) error {
	m := s.toModel(e)
	if err := s.conn(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*e = *s.toEntity(m)
	return nil
}

// Update writes every column, zero values included.
func (s gormStore[M, E]) Update(ctx context.Context, e *E) error {
	m := s.toModel(e)
	if err := s.conn(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*e = *s.toEntity(m)
	return nil
}

func (s gormStore[M, E]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.conn(ctx).Where("id = ?", id).Delete(new(M)).Error
}

func (s gormStore[M, E]) FindOne(ctx context.Context, specs ...specification.Specification) (*E, error) {
	var m M
	if err := s.query(ctx, specs).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.toEntity(&m), nil
}

func (s gormStore[M, E]) FindAll(ctx context.Context, specs ...specification.Specification) ([]*E, error) {
	var rows []*M
	if err := s.query(ctx, specs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*E, 0, len(rows))
	for _, m := range rows {
		out = append(out, s.toEntity(m))
	}
	return out, nil
}

func (s gormStore[M, E]) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := s.query(ctx, specs).Model(new(M)).Count(&count).Error
	return count, err
}
