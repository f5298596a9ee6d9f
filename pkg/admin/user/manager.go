package user

import (
	"context"
	"strings"
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/repository/scope"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Manager handles user-related admin operations
type Manager struct {
	logger logger.ILogger
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{
		logger: logger,
	}
}

// FindAll lists users newest first, filtered by search text, role and verification.
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.AdminUserListRequest) ([]*entity.User, int64, error) {
	var filters []specification.Specification
	if q := strings.TrimSpace(req.Search); q != "" {
		filters = append(filters, specification.UserSearch{Query: q})
	}
	if req.Role != "" {
		filters = append(filters, specification.ByRole{Role: req.Role})
	}
	if req.Verified != "" {
		filters = append(filters, specification.ByVerified{Verified: req.Verified == "true"})
	}

	total, err := uow.UserRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	specs := append(filters,
		specification.Scoped{Fn: scope.OrderByDateJoinedDesc},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	users, err := uow.UserRepository().FindAll(ctx, specs...)
	return users, total, err
}

func (m *Manager) FindOne(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}
	return user, nil
}

// Update applies admin edits. It reports whether the user just became verified.
func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.AdminUpdateUserRequest) (*entity.User, bool, error) {
	user, err := m.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, false, err
	}
	wasVerified := user.IsVerified

	mapper.ApplyProfile(user, &req.UpdateProfileRequest)
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
			if err != nil {
				return nil, false, err
			}
			if existing != nil {
				return nil, false, apperror.Conflict("email already registered")
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, false, err
	}
	if req.IsActive != nil && !*req.IsActive {
		if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, user.Id); err != nil {
			return nil, false, err
		}
	}

	m.logger.Info("ADMIN", "Updated user", map[string]interface{}{
		"userId":      user.Id.String(),
		"role":        string(user.Role),
		"is_verified": user.IsVerified,
		"is_active":   user.IsActive,
	})
	return user, !wasVerified && user.IsVerified, nil
}

// Verify marks the user verified. It reports whether anything changed.
func (m *Manager) Verify(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, bool, error) {
	user, err := m.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, false, err
	}
	if user.IsVerified {
		return user, false, nil
	}
	user.IsVerified = true
	user.UpdatedAt = time.Now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, false, err
	}

	m.logger.Info("ADMIN", "Verified user", map[string]interface{}{
		"userId": user.Id.String(),
		"role":   string(user.Role),
	})
	return user, true, nil
}

func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	if _, err := m.FindOne(ctx, uow, userId); err != nil {
		return err
	}
	m.logger.Info("ADMIN", "Deleted User", map[string]interface{}{
		"userId": userId.String(),
	})
	return uow.UserRepository().Delete(ctx, userId)
}
