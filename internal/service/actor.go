package service

import (
	"context"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// loadActor re-reads the caller so role and verification changes apply to
// the very next request.
func loadActor(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized("User not found or inactive")
	}
	return user, nil
}
