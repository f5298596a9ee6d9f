package implementation

import (
	"context"
	"errors"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/model"
	"food-donation-be/internal/repository/contract"
	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository also owns refresh tokens, which never outlive their user.
type userRepository struct {
	gormStore[model.User, entity.User]
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	m := mapper.NewUserMapper()
	return &userRepository{
		gormStore: newStore(db, m.ToModel, m.ToEntity),
		mapper:    m,
	}
}

// Delete removes the user together with the refresh tokens issued to them.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.conn(ctx).Where("user_id = ?", id).Delete(&model.UserRefreshToken{}).Error; err != nil {
		return err
	}
	return r.gormStore.Delete(ctx, id)
}

func (r *userRepository) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	return r.conn(ctx).Create(r.mapper.UserRefreshTokenToModel(token)).Error
}

func (r *userRepository) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	var m model.UserRefreshToken
	if err := r.query(ctx, specs).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserRefreshTokenToEntity(&m), nil
}

func (r *userRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.conn(ctx).Model(&model.UserRefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (r *userRepository) RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID) error {
	return r.conn(ctx).Model(&model.UserRefreshToken{}).
		Where("user_id = ? AND revoked = ?", userId, false).
		Update("revoked", true).Error
}
