package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type TokenTTL struct {
	Access  time.Duration
	Refresh time.Duration
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	logger     logger.ILogger
	ttl        TokenTTL
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService, log logger.ILogger, ttl TokenTTL) IAuthService {
	if ttl.Access <= 0 {
		ttl.Access = 24 * time.Hour
	}
	if ttl.Refresh <= 0 {
		ttl.Refresh = 30 * 24 * time.Hour
	}
	return &authService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
		ttl:        ttl,
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Register creates an unverified donor or charity. The admin role is never
// self-assigned.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:                      uuid.New(),
		Email:                   strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:            string(hash),
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Role:                    entity.UserRole(req.Role),
		PhoneNumber:             req.PhoneNumber,
		Address:                 req.Address,
		City:                    req.City,
		State:                   req.State,
		ZipCode:                 req.ZipCode,
		OrganizationName:        req.OrganizationName,
		OrganizationDescription: req.OrganizationDescription,
		IsVerified:              false,
		IsActive:                true,
		DateJoined:              now,
		UpdatedAt:               now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.UserRegistered, map[string]interface{}{
		"user_id":     user.Id.String(),
		"user_name":   user.DisplayName(),
		"role":        string(user.Role),
		"actor_id":    user.Id.String(),
		"entity_type": "user",
		"entity_id":   user.Id.String(),
	}))

	return mapper.UserToResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("user account is disabled")
	}

	accessToken, err := serverutils.IssueAccessToken(user.Id, string(user.Role), s.ttl.Access)
	if err != nil {
		return nil, err
	}

	rawRefreshToken := uuid.New().String()
	now := time.Now()
	refreshToken := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: now.Add(s.ttl.Refresh),
		CreatedAt: now,
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User logged in", map[string]interface{}{
		"user_id": user.Id.String(),
		"ip":      ipAddress,
	})

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		User:         *mapper.UserToResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	token, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByTokenHash{Hash: hashToken(req.RefreshToken)})
	if err != nil {
		return nil, err
	}
	if token == nil || token.Revoked || time.Now().After(token.ExpiresAt) {
		return nil, apperror.Unauthorized("Token is invalid or expired")
	}

	user, err := loadActor(ctx, uow, token.UserId)
	if err != nil {
		return nil, err
	}
	accessToken, err := serverutils.IssueAccessToken(user.Id, string(user.Role), s.ttl.Access)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshTokenResponse{AccessToken: accessToken}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.uowFactory.NewUnitOfWork(ctx).UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken))
}
