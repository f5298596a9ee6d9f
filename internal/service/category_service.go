package service

import (
	"context"
	"strings"
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/repository/memory"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/access"

	"github.com/google/uuid"
)

type ICategoryService interface {
	List(ctx context.Context, kind entity.CategoryKind) ([]*dto.CategoryResponse, error)
	Get(ctx context.Context, kind entity.CategoryKind, id uuid.UUID) (*dto.CategoryResponse, error)
	Create(ctx context.Context, actorId uuid.UUID, kind entity.CategoryKind, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, actorId uuid.UUID, kind entity.CategoryKind, id uuid.UUID, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actorId uuid.UUID, kind entity.CategoryKind, id uuid.UUID) error

	// Names maps category ids to names for one kind, served from the cache.
	Names(ctx context.Context, kind entity.CategoryKind) (map[uuid.UUID]string, error)
}

type categoryService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CategoryCache
	logger     logger.ILogger
}

func NewCategoryService(uowFactory unitofwork.RepositoryFactory, cache *memory.CategoryCache, log logger.ILogger) ICategoryService {
	return &categoryService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
	}
}

func (s *categoryService) all(ctx context.Context, kind entity.CategoryKind) ([]*entity.Category, error) {
	if categories, found := s.cache.Get(kind); found {
		return categories, nil
	}
	categories, err := s.uowFactory.NewUnitOfWork(ctx).CategoryRepository(kind).FindAll(ctx,
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}
	s.cache.Save(kind, categories)
	return categories, nil
}

func (s *categoryService) List(ctx context.Context, kind entity.CategoryKind) ([]*dto.CategoryResponse, error) {
	categories, err := s.all(ctx, kind)
	if err != nil {
		return nil, err
	}
	return mapper.CategoriesToResponse(categories), nil
}

func (s *categoryService) Names(ctx context.Context, kind entity.CategoryKind) (map[uuid.UUID]string, error) {
	categories, err := s.all(ctx, kind)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.Id] = c.Name
	}
	return names, nil
}

func (s *categoryService) Get(ctx context.Context, kind entity.CategoryKind, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.uowFactory.NewUnitOfWork(ctx).CategoryRepository(kind).FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound(kindLabel(kind))
	}
	return mapper.CategoryToResponse(category), nil
}

func (s *categoryService) Create(ctx context.Context, actorId uuid.UUID, kind entity.CategoryKind, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.requireAdmin(ctx, uow, actorId); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Id:          uuid.New(),
		Kind:        kind,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := uow.CategoryRepository(kind).Create(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(kind)

	s.logger.Info("CATALOG", "Category created", map[string]interface{}{
		"kind": string(kind),
		"id":   category.Id.String(),
		"name": category.Name,
	})
	return mapper.CategoryToResponse(category), nil
}

func (s *categoryService) Update(ctx context.Context, actorId uuid.UUID, kind entity.CategoryKind, id uuid.UUID, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.requireAdmin(ctx, uow, actorId); err != nil {
		return nil, err
	}

	category, err := uow.CategoryRepository(kind).FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound(kindLabel(kind))
	}
	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	if err := uow.CategoryRepository(kind).Update(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(kind)
	return mapper.CategoryToResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, actorId uuid.UUID, kind entity.CategoryKind, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.requireAdmin(ctx, uow, actorId); err != nil {
		return err
	}

	category, err := uow.CategoryRepository(kind).FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NotFound(kindLabel(kind))
	}
	if kind == entity.CategoryKindFood {
		inUse, err := uow.DonationRepository().Count(ctx, specification.ByCategory{CategoryID: id})
		if err != nil {
			return err
		}
		if inUse > 0 {
			return apperror.Conflict("category is referenced by donations")
		}
	}

	if err := uow.CategoryRepository(kind).Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(kind)

	s.logger.Info("CATALOG", "Category deleted", map[string]interface{}{
		"kind": string(kind),
		"id":   id.String(),
	})
	return nil
}

func (s *categoryService) requireAdmin(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID) error {
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return err
	}
	return access.RequireAdmin(actor)
}

func kindLabel(kind entity.CategoryKind) string {
	return string(kind) + " category"
}
