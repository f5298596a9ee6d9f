package service

import (
	"testing"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestAuthRegisterLoginRefresh(t *testing.T) {
	f := newFixture(t)

	registered, err := f.auth.Register(f.ctx, &dto.RegisterRequest{
		Email:            "Pantry@Example.com",
		Password:         "supersecret",
		PasswordConfirm:  "supersecret",
		Role:             "charity",
		OrganizationName: "City Pantry",
	})
	require.NoError(t, err)
	assert.Equal(t, "pantry@example.com", registered.Email)
	assert.False(t, registered.IsVerified)
	assert.False(t, registered.VerifiedBadge)
	assert.Contains(t, f.publisher.types(), events.UserRegistered)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.auth.Register(f.ctx, &dto.RegisterRequest{
			Email:           "pantry@example.com",
			Password:        "supersecret",
			PasswordConfirm: "supersecret",
			Role:            "donor",
		})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("admin is not self-assignable", func(t *testing.T) {
		_, err := f.auth.Register(f.ctx, &dto.RegisterRequest{
			Email:           "boss@example.com",
			Password:        "supersecret",
			PasswordConfirm: "supersecret",
			Role:            "admin",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("charity needs an organization", func(t *testing.T) {
		_, err := f.auth.Register(f.ctx, &dto.RegisterRequest{
			Email:           "nameless@example.com",
			Password:        "supersecret",
			PasswordConfirm: "supersecret",
			Role:            "charity",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	_, err = f.auth.Login(f.ctx, &dto.LoginRequest{Email: "pantry@example.com", Password: "wrong"}, "127.0.0.1", "test")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	login, err := f.auth.Login(f.ctx, &dto.LoginRequest{Email: "pantry@example.com", Password: "supersecret"}, "127.0.0.1", "test")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)

	userId, role, err := serverutils.ParseAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Id, userId)
	assert.Equal(t, "charity", role)

	refreshed, err := f.auth.Refresh(f.ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, f.auth.Logout(f.ctx, login.RefreshToken))
	_, err = f.auth.Refresh(f.ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUserProfileAndPassword(t *testing.T) {
	f := newFixture(t)
	donor := f.user(entity.UserRoleDonor, true)

	me, err := f.users.Me(f.ctx, donor.Id)
	require.NoError(t, err)
	assert.True(t, me.VerifiedBadge)

	updated, err := f.users.UpdateProfile(f.ctx, donor.Id, &dto.UpdateProfileRequest{City: ptr("Salem")})
	require.NoError(t, err)
	assert.Equal(t, "Salem", updated.City)
	assert.Equal(t, "donor", updated.Role)
	assert.True(t, updated.IsVerified)

	err = f.users.ChangePassword(f.ctx, donor.Id, &dto.ChangePasswordRequest{
		OldPassword:        "not-it",
		NewPassword:        "brandnew123",
		NewPasswordConfirm: "brandnew123",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, f.users.ChangePassword(f.ctx, donor.Id, &dto.ChangePasswordRequest{
		OldPassword:        "password123",
		NewPassword:        "brandnew123",
		NewPasswordConfirm: "brandnew123",
	}))
	_, err = f.auth.Login(f.ctx, &dto.LoginRequest{Email: donor.Email, Password: "brandnew123"}, "", "")
	assert.NoError(t, err)

	_, err = f.users.Me(f.ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, false)
	charity := f.user(entity.UserRoleCharity, false)

	t.Run("non-admins are refused", func(t *testing.T) {
		_, err := f.admin.ListUsers(f.ctx, donor.Id, &dto.AdminUserListRequest{})
		assert.ErrorIs(t, err, apperror.ErrPermission)
	})

	t.Run("list filters by role", func(t *testing.T) {
		page, err := f.admin.ListUsers(f.ctx, admin.Id, &dto.AdminUserListRequest{Role: "charity"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, charity.Id, page.Items[0].Id)
	})

	t.Run("verify once", func(t *testing.T) {
		res, err := f.admin.VerifyUser(f.ctx, admin.Id, donor.Id)
		require.NoError(t, err)
		assert.True(t, res.IsVerified)
		assert.True(t, res.VerifiedBadge)

		before := len(f.publisher.types())
		_, err = f.admin.VerifyUser(f.ctx, admin.Id, donor.Id)
		require.NoError(t, err)
		assert.Len(t, f.publisher.types(), before, "re-verifying publishes nothing")
	})

	t.Run("verification through update notifies", func(t *testing.T) {
		res, err := f.admin.UpdateUser(f.ctx, admin.Id, charity.Id, &dto.AdminUpdateUserRequest{IsVerified: ptr(true)})
		require.NoError(t, err)
		assert.True(t, res.IsVerified)
		ev := f.publisher.last(events.UserVerified)
		require.NotNil(t, ev)
		assert.Equal(t, charity.Id.String(), ev.Payload()["user_id"])
	})

	t.Run("admins cannot demote themselves", func(t *testing.T) {
		_, err := f.admin.UpdateUser(f.ctx, admin.Id, admin.Id, &dto.AdminUpdateUserRequest{Role: ptr("donor")})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = f.admin.UpdateUser(f.ctx, admin.Id, admin.Id, &dto.AdminUpdateUserRequest{IsActive: ptr(false)})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		assert.ErrorIs(t, f.admin.DeleteUser(f.ctx, admin.Id, admin.Id), apperror.ErrValidation)
	})

	t.Run("deactivated users lose access", func(t *testing.T) {
		victim := f.user(entity.UserRoleDonor, true)
		_, err := f.admin.UpdateUser(f.ctx, admin.Id, victim.Id, &dto.AdminUpdateUserRequest{IsActive: ptr(false)})
		require.NoError(t, err)
		_, err = f.users.Me(f.ctx, victim.Id)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("delete", func(t *testing.T) {
		victim := f.user(entity.UserRoleDonor, true)
		require.NoError(t, f.admin.DeleteUser(f.ctx, admin.Id, victim.Id))
		_, err := f.admin.GetUser(f.ctx, admin.Id, victim.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestAdminReport(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, false)

	f.donation(donor, produce, "2024-01-05", testNow)
	f.donation(donor, produce, "2023-12-01", testNow)
	_, err := f.waste.CreateLog(f.ctx, donor.Id, wasteRequest("spoiled", "2023-12-20", nil))
	require.NoError(t, err)

	report, err := f.admin.GetReport(f.ctx, admin.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Users.Total)
	assert.Equal(t, int64(1), report.Users.Charities)
	assert.Equal(t, int64(1), report.Users.Unverified)
	assert.Equal(t, int64(2), report.Donations.Total)
	assert.Equal(t, int64(1), report.Donations.Available)
	assert.Equal(t, int64(1), report.Donations.Expired)
	assert.Equal(t, int64(1), report.WasteLogs.Total)

	_, err = f.admin.GetReport(f.ctx, charity.Id)
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)

	_, err := f.categories.Create(f.ctx, donor.Id, entity.CategoryKindFood, &dto.CategoryRequest{Name: "Bakery"})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	bakery, err := f.categories.Create(f.ctx, admin.Id, entity.CategoryKindFood, &dto.CategoryRequest{Name: "Bakery"})
	require.NoError(t, err)

	food, err := f.categories.List(f.ctx, entity.CategoryKindFood)
	require.NoError(t, err)
	require.Len(t, food, 1)

	waste, err := f.categories.List(f.ctx, entity.CategoryKindWaste)
	require.NoError(t, err)
	assert.Empty(t, waste, "kinds live in separate tables")

	// The cached list picks up writes made through the service.
	_, err = f.categories.Create(f.ctx, admin.Id, entity.CategoryKindFood, &dto.CategoryRequest{Name: "Anything"})
	require.NoError(t, err)
	food, err = f.categories.List(f.ctx, entity.CategoryKindFood)
	require.NoError(t, err)
	require.Len(t, food, 2)
	assert.Equal(t, "Anything", food[0].Name)

	renamed, err := f.categories.Update(f.ctx, admin.Id, entity.CategoryKindFood, bakery.Id, &dto.CategoryRequest{Name: "Breads"})
	require.NoError(t, err)
	assert.Equal(t, "Breads", renamed.Name)

	_, err = f.categories.Get(f.ctx, entity.CategoryKindWaste, bakery.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	inUse := &entity.Category{Id: bakery.Id, Kind: entity.CategoryKindFood}
	f.donation(donor, inUse, "2024-01-05", testNow)
	assert.ErrorIs(t, f.categories.Delete(f.ctx, admin.Id, entity.CategoryKindFood, bakery.Id), apperror.ErrConflict)

	spoilage := f.category(entity.CategoryKindWaste, "Spoilage")
	require.NoError(t, f.categories.Delete(f.ctx, admin.Id, entity.CategoryKindWaste, spoilage.Id))
	assert.ErrorIs(t, f.categories.Delete(f.ctx, admin.Id, entity.CategoryKindWaste, spoilage.Id), apperror.ErrNotFound)
}
