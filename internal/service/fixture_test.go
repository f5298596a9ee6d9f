package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/model"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/repository/memory"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/admin/dashboard"
	"food-donation-be/pkg/admin/user"
	"food-donation-be/pkg/database"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func (p *recordingPublisher) last(eventType string) events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].EventType() == eventType {
			return p.events[i]
		}
	}
	return nil
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	factory   unitofwork.RepositoryFactory
	publisher *recordingPublisher
	clock     Clock
	log       logger.ILogger

	categories ICategoryService
	donations  IDonationService
	waste      IWasteService
	admin      IAdminService
	auth       IAuthService
	users      IUserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		factory:   unitofwork.NewRepositoryFactory(db),
		publisher: &recordingPublisher{},
		clock:     FixedClock(testNow, time.UTC),
		log:       logger.NewNopLogger(),
	}
	f.categories = NewCategoryService(f.factory, memory.NewCategoryCache(time.Minute), f.log)
	f.donations = NewDonationService(f.factory, f.publisher, f.log, f.clock)
	f.waste = NewWasteService(f.factory, f.categories, f.publisher, f.log, f.clock)
	f.admin = NewAdminService(f.factory, f.log, user.NewManager(f.log), dashboard.NewAggregator(f.log), f.publisher, f.clock)
	f.auth = NewAuthService(f.factory, f.publisher, f.log, TokenTTL{Access: time.Hour, Refresh: 24 * time.Hour})
	f.users = NewUserService(f.factory, f.log)
	return f
}

func (f *fixture) user(role entity.UserRole, verified bool) *entity.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(f.t, err)

	id := uuid.New()
	u := &entity.User{
		Id:           id,
		Email:        id.String()[:8] + "@example.com",
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
		IsVerified:   verified,
		IsActive:     true,
		DateJoined:   testNow,
		UpdatedAt:    testNow,
	}
	if role == entity.UserRoleCharity {
		u.OrganizationName = "Food Bank " + id.String()[:4]
	}
	require.NoError(f.t, f.factory.NewUnitOfWork(f.ctx).UserRepository().Create(f.ctx, u))
	return u
}

func (f *fixture) category(kind entity.CategoryKind, name string) *entity.Category {
	f.t.Helper()
	c := &entity.Category{Id: uuid.New(), Kind: kind, Name: name, CreatedAt: testNow}
	require.NoError(f.t, f.factory.NewUnitOfWork(f.ctx).CategoryRepository(kind).Create(f.ctx, c))
	return c
}

// donation stores a donation directly, bypassing creation rules so tests can
// place it in any state.
func (f *fixture) donation(donor *entity.User, category *entity.Category, expiry string, createdAt time.Time) *entity.Donation {
	f.t.Helper()
	date, err := entity.ParseDate(expiry)
	require.NoError(f.t, err)
	d := &entity.Donation{
		Id:            uuid.New(),
		DonorId:       donor.Id,
		CategoryId:    category.Id,
		FoodName:      "Bread",
		Quantity:      "10 loaves",
		ExpiryDate:    date,
		PickupAddress: "1 Main St",
		PickupCity:    "Springfield",
		PickupState:   "IL",
		PickupZip:     "62701",
		Status:        entity.DonationStatusAvailable,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(f.t, f.factory.NewUnitOfWork(f.ctx).DonationRepository().Create(f.ctx, d))
	return d
}
