package mapper

import (
	"food-donation-be/internal/entity"
	"food-donation-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                      u.Id,
		Email:                   u.Email,
		PasswordHash:            u.PasswordHash,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Role:                    entity.UserRole(u.Role),
		PhoneNumber:             u.PhoneNumber,
		Address:                 u.Address,
		City:                    u.City,
		State:                   u.State,
		ZipCode:                 u.ZipCode,
		OrganizationName:        u.OrganizationName,
		OrganizationDescription: u.OrganizationDescription,
		IsVerified:              u.IsVerified,
		IsActive:                u.IsActive,
		DateJoined:              u.DateJoined,
		UpdatedAt:               u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                      u.Id,
		Email:                   u.Email,
		PasswordHash:            u.PasswordHash,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Role:                    string(u.Role),
		PhoneNumber:             u.PhoneNumber,
		Address:                 u.Address,
		City:                    u.City,
		State:                   u.State,
		ZipCode:                 u.ZipCode,
		OrganizationName:        u.OrganizationName,
		OrganizationDescription: u.OrganizationDescription,
		IsVerified:              u.IsVerified,
		IsActive:                u.IsActive,
		DateJoined:              u.DateJoined,
		UpdatedAt:               u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

// Token Mappers

func (m *UserMapper) UserRefreshTokenToEntity(t *model.UserRefreshToken) *entity.UserRefreshToken {
	if t == nil {
		return nil
	}
	return &entity.UserRefreshToken{
		Id:        t.Id,
		UserId:    t.UserId,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		CreatedAt: t.CreatedAt,
		IpAddress: t.IpAddress,
		UserAgent: t.UserAgent,
	}
}

func (m *UserMapper) UserRefreshTokenToModel(t *entity.UserRefreshToken) *model.UserRefreshToken {
	if t == nil {
		return nil
	}
	return &model.UserRefreshToken{
		Id:        t.Id,
		UserId:    t.UserId,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		CreatedAt: t.CreatedAt,
		IpAddress: t.IpAddress,
		UserAgent: t.UserAgent,
	}
}
