package service

import (
	"context"
	"slices"
	"strings"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/repository/scope"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/access"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
)

const uncategorized = "Uncategorized"

var wasteAssociations = specification.Preload{Associations: []string{"WasteCategory", "FoodCategory"}}

type IWasteService interface {
	CreateLog(ctx context.Context, actorId uuid.UUID, req *dto.CreateWasteLogRequest) (*dto.WasteLogResponse, error)
	DeleteLog(ctx context.Context, actorId, id uuid.UUID) error
	List(ctx context.Context, actorId uuid.UUID) ([]*dto.WasteLogResponse, error)
	ListMine(ctx context.Context, actorId uuid.UUID) ([]*dto.WasteLogResponse, error)
	Stats(ctx context.Context, actorId uuid.UUID) (*dto.WasteStatsResponse, error)

	CreateReduction(ctx context.Context, actorId uuid.UUID, req *dto.CreateWasteReductionRequest) (*dto.WasteReductionResponse, error)
	ListReductions(ctx context.Context, actorId uuid.UUID) ([]*dto.WasteReductionResponse, error)
	DeleteReduction(ctx context.Context, actorId, id uuid.UUID) error
}

type wasteService struct {
	uowFactory      unitofwork.RepositoryFactory
	categoryService ICategoryService
	publisher       IPublisherService
	logger          logger.ILogger
	clock           Clock
}

func NewWasteService(uowFactory unitofwork.RepositoryFactory, categoryService ICategoryService, publisher IPublisherService, log logger.ILogger, clock Clock) IWasteService {
	return &wasteService{
		uowFactory:      uowFactory,
		categoryService: categoryService,
		publisher:       publisher,
		logger:          log,
		clock:           clock,
	}
}

func (s *wasteService) CreateLog(ctx context.Context, actorId uuid.UUID, req *dto.CreateWasteLogRequest) (*dto.WasteLogResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanCreateWasteLog(actor); err != nil {
		return nil, err
	}

	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.ValidationFields("invalid waste log", map[string]string{"date": "Date has wrong format. Use YYYY-MM-DD."})
	}
	wasteCategory, err := s.optionalCategory(ctx, uow, entity.CategoryKindWaste, "waste_category", req.WasteCategoryId)
	if err != nil {
		return nil, err
	}
	foodCategory, err := s.optionalCategory(ctx, uow, entity.CategoryKindFood, "food_category", req.FoodCategoryId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	log := &entity.WasteLog{
		Id:          uuid.New(),
		UserId:      actor.Id,
		FoodName:    strings.TrimSpace(req.FoodName),
		Description: req.Description,
		Quantity:    strings.TrimSpace(req.Quantity),
		WasteType:   entity.WasteType(req.WasteType),
		Date:        date,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if wasteCategory != nil {
		log.WasteCategoryId = &wasteCategory.Id
	}
	if foodCategory != nil {
		log.FoodCategoryId = &foodCategory.Id
	}
	if err := uow.WasteLogRepository().Create(ctx, log); err != nil {
		return nil, err
	}
	log.WasteCategory = wasteCategory
	log.FoodCategory = foodCategory

	s.logger.Info("WASTE", "Waste logged", map[string]interface{}{
		"waste_log_id": log.Id.String(),
		"user_id":      actor.Id.String(),
		"waste_type":   string(log.WasteType),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.WasteLogged, map[string]interface{}{
		"waste_log_id": log.Id.String(),
		"food_name":    log.FoodName,
		"quantity":     log.Quantity,
		"waste_type":   string(log.WasteType),
		"user_name":    actor.DisplayName(),
		"actor_id":     actor.Id.String(),
	}))

	return mapper.WasteLogToResponse(log), nil
}

func (s *wasteService) optionalCategory(ctx context.Context, uow unitofwork.UnitOfWork, kind entity.CategoryKind, field string, rawId *string) (*entity.Category, error) {
	if rawId == nil || *rawId == "" {
		return nil, nil
	}
	invalid := apperror.ValidationFields("invalid waste log", map[string]string{field: "Invalid pk - object does not exist."})

	id, err := uuid.Parse(*rawId)
	if err != nil {
		return nil, invalid
	}
	category, err := uow.CategoryRepository(kind).FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, invalid
	}
	return category, nil
}

func (s *wasteService) DeleteLog(ctx context.Context, actorId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return err
	}

	log, err := uow.WasteLogRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if log == nil {
		return apperror.NotFound("waste log")
	}
	if err := access.CanDeleteOwned(actor, log.UserId); err != nil {
		return err
	}
	if err := uow.WasteLogRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("WASTE", "Waste log deleted", map[string]interface{}{
		"waste_log_id": id.String(),
		"actor_id":     actor.Id.String(),
	})
	return nil
}

// List shows admins every log and everyone else their own.
func (s *wasteService) List(ctx context.Context, actorId uuid.UUID) ([]*dto.WasteLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{wasteAssociations, specification.Scoped{Fn: scope.OrderByDateDesc}}
	if !actor.IsAdmin() {
		specs = append(specs, specification.UserOwnedBy{UserID: actor.Id})
	}
	logs, err := uow.WasteLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapper.WasteLogsToResponse(logs), nil
}

func (s *wasteService) ListMine(ctx context.Context, actorId uuid.UUID) ([]*dto.WasteLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	logs, err := uow.WasteLogRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: actor.Id},
		wasteAssociations,
		specification.Scoped{Fn: scope.OrderByDateDesc},
	)
	if err != nil {
		return nil, err
	}
	return mapper.WasteLogsToResponse(logs), nil
}

// Stats summarizes the caller's own logs. Months are "YYYY-MM", oldest first.
func (s *wasteService) Stats(ctx context.Context, actorId uuid.UUID) (*dto.WasteStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	owned := specification.UserOwnedBy{UserID: actor.Id}
	repo := uow.WasteLogRepository()

	total, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}
	byType, err := repo.CountBy(ctx, "waste_type", owned)
	if err != nil {
		return nil, err
	}
	byCategoryId, err := repo.CountBy(ctx, "waste_category_id", owned)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryService.Names(ctx, entity.CategoryKindWaste)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]int64, len(byCategoryId))
	for key, count := range byCategoryId {
		name := uncategorized
		if id, err := uuid.Parse(key); err == nil {
			if n, ok := names[id]; ok {
				name = n
			}
		}
		byCategory[name] += count
	}

	logs, err := repo.FindAll(ctx, owned)
	if err != nil {
		return nil, err
	}
	months := map[string]int64{}
	for _, l := range logs {
		months[l.Date.Format("2006-01")]++
	}
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	byMonth := make([]dto.MonthCount, 0, len(keys))
	for _, k := range keys {
		byMonth = append(byMonth, dto.MonthCount{Month: k, Count: months[k]})
	}

	return &dto.WasteStatsResponse{
		Total:      total,
		ByType:     byType,
		ByCategory: byCategory,
		ByMonth:    byMonth,
	}, nil
}

func (s *wasteService) CreateReduction(ctx context.Context, actorId uuid.UUID, req *dto.CreateWasteReductionRequest) (*dto.WasteReductionResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanCreateWasteLog(actor); err != nil {
		return nil, err
	}

	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.ValidationFields("invalid waste reduction", map[string]string{"date": "Date has wrong format. Use YYYY-MM-DD."})
	}
	reduction := &entity.WasteReduction{
		Id:          uuid.New(),
		UserId:      actor.Id,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		AmountSaved: req.AmountSaved,
		Date:        date,
		CreatedAt:   s.clock.Now(),
	}
	if err := uow.WasteReductionRepository().Create(ctx, reduction); err != nil {
		return nil, err
	}
	return mapper.WasteReductionToResponse(reduction), nil
}

func (s *wasteService) ListReductions(ctx context.Context, actorId uuid.UUID) ([]*dto.WasteReductionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{specification.Scoped{Fn: scope.OrderByDateDesc}}
	if !actor.IsAdmin() {
		specs = append(specs, specification.UserOwnedBy{UserID: actor.Id})
	}
	rows, err := uow.WasteReductionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapper.WasteReductionsToResponse(rows), nil
}

func (s *wasteService) DeleteReduction(ctx context.Context, actorId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return err
	}

	reduction, err := uow.WasteReductionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if reduction == nil {
		return apperror.NotFound("waste reduction")
	}
	if err := access.CanDeleteOwned(actor, reduction.UserId); err != nil {
		return err
	}
	return uow.WasteReductionRepository().Delete(ctx, id)
}
