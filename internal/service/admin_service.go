package service

import (
	"context"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/access"
	"food-donation-be/pkg/admin/dashboard"
	"food-donation-be/pkg/admin/user"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
)

type IAdminService interface {
	// User Management
	ListUsers(ctx context.Context, actorId uuid.UUID, req *dto.AdminUserListRequest) (*serverutils.PagedData[*dto.UserResponse], error)
	GetUser(ctx context.Context, actorId, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actorId, userId uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	VerifyUser(ctx context.Context, actorId, userId uuid.UUID) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actorId, userId uuid.UUID) error

	// Reports
	GetReport(ctx context.Context, actorId uuid.UUID) (*dto.AdminReportResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, actorId uuid.UUID, req *dto.LogListRequest) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, actorId uuid.UUID, logId string) (*dto.LogListResponse, error)
}

type adminService struct {
	uowFactory          unitofwork.RepositoryFactory
	logger              logger.ILogger
	userManager         *user.Manager
	dashboardAggregator *dashboard.Aggregator
	publisher           IPublisherService
	clock               Clock
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	userManager *user.Manager,
	dashboardAggregator *dashboard.Aggregator,
	publisher IPublisherService,
	clock Clock,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		userManager:         userManager,
		dashboardAggregator: dashboardAggregator,
		publisher:           publisher,
		clock:               clock,
	}
}

func (s *adminService) requireAdmin(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID) (*entity.User, error) {
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) ListUsers(ctx context.Context, actorId uuid.UUID, req *dto.AdminUserListRequest) (*serverutils.PagedData[*dto.UserResponse], error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.requireAdmin(ctx, uow, actorId); err != nil {
		return nil, err
	}

	users, total, err := s.userManager.FindAll(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	return &serverutils.PagedData[*dto.UserResponse]{
		Items:  mapper.UsersToResponse(users),
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	}, nil
}

func (s *adminService) GetUser(ctx context.Context, actorId, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.requireAdmin(ctx, uow, actorId); err != nil {
		return nil, err
	}
	u, err := s.userManager.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return mapper.UserToResponse(u), nil
}

func (s *adminService) UpdateUser(ctx context.Context, actorId, userId uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	actor, err := s.requireAdmin(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if actor.Id == userId && ((req.Role != nil && *req.Role != string(entity.UserRoleAdmin)) || (req.IsActive != nil && !*req.IsActive)) {
		return nil, apperror.Validation("administrators cannot demote or deactivate themselves")
	}

	u, verified, err := s.userManager.Update(ctx, uow, userId, req)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if verified {
		s.publishVerified(ctx, actor, u)
	}
	return mapper.UserToResponse(u), nil
}

func (s *adminService) VerifyUser(ctx context.Context, actorId, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := s.requireAdmin(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	u, changed, err := s.userManager.Verify(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if changed {
		s.publishVerified(ctx, actor, u)
	}
	return mapper.UserToResponse(u), nil
}

func (s *adminService) publishVerified(ctx context.Context, actor, u *entity.User) {
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.UserVerified, map[string]interface{}{
		"user_id":       u.Id.String(),
		"user_name":     u.DisplayName(),
		"user_email":    u.Email,
		"role":          string(u.Role),
		"actor_id":      actor.Id.String(),
		"recipient_ids": []string{u.Id.String()},
		"entity_type":   "user",
		"entity_id":     u.Id.String(),
	}))
}

func (s *adminService) DeleteUser(ctx context.Context, actorId, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := s.requireAdmin(ctx, uow, actorId)
	if err != nil {
		return err
	}
	if actor.Id == userId {
		return apperror.Validation("administrators cannot delete themselves")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.userManager.Delete(ctx, uow, userId); err != nil {
		return err
	}
	return uow.Commit()
}

// ============================================================================
// Reports & Logs
// ============================================================================

func (s *adminService) GetReport(ctx context.Context, actorId uuid.UUID) (*dto.AdminReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.requireAdmin(ctx, uow, actorId); err != nil {
		return nil, err
	}
	return s.dashboardAggregator.GetReport(ctx, uow, s.clock.Today())
}

func (s *adminService) GetSystemLogs(ctx context.Context, actorId uuid.UUID, req *dto.LogListRequest) ([]*dto.LogListResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.requireAdmin(ctx, s.uowFactory.NewUnitOfWork(ctx), actorId); err != nil {
		return nil, err
	}
	return s.dashboardAggregator.GetSystemLogs(ctx, s.logger, req)
}

func (s *adminService) GetLogDetail(ctx context.Context, actorId uuid.UUID, logId string) (*dto.LogListResponse, error) {
	if _, err := s.requireAdmin(ctx, s.uowFactory.NewUnitOfWork(ctx), actorId); err != nil {
		return nil, err
	}
	return s.dashboardAggregator.GetLogDetail(ctx, s.logger, logId)
}
