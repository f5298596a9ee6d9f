package service

import (
	"sync"
	"testing"
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequest(categoryId uuid.UUID, expiry string) *dto.CreateDonationRequest {
	return &dto.CreateDonationRequest{
		FoodName:      "Fresh apples",
		Quantity:      "5 kg",
		CategoryId:    categoryId.String(),
		ExpiryDate:    expiry,
		PickupAddress: "12 Orchard Rd",
		PickupCity:    "Portland",
		PickupState:   "OR",
		PickupZip:     "97201",
	}
}

func TestDonationCreate(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)

	res, err := f.donations.Create(f.ctx, donor.Id, createRequest(produce.Id, "2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, "available", res.Status)
	assert.Equal(t, "2024-01-05", res.ExpiryDate)
	assert.Equal(t, donor.Id, res.Donor.Id)
	assert.Nil(t, res.Charity)
	assert.Contains(t, f.publisher.types(), events.DonationCreated)

	t.Run("unverified donor", func(t *testing.T) {
		_, err := f.donations.Create(f.ctx, f.user(entity.UserRoleDonor, false).Id, createRequest(produce.Id, "2024-01-05"))
		assert.ErrorIs(t, err, apperror.ErrNotVerified)
	})

	t.Run("charity cannot donate", func(t *testing.T) {
		_, err := f.donations.Create(f.ctx, f.user(entity.UserRoleCharity, true).Id, createRequest(produce.Id, "2024-01-05"))
		assert.ErrorIs(t, err, apperror.ErrPermission)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.donations.Create(f.ctx, donor.Id, createRequest(uuid.New(), "2024-01-05"))
		require.ErrorIs(t, err, apperror.ErrValidation)
		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "category")
	})

	t.Run("malformed expiry", func(t *testing.T) {
		_, err := f.donations.Create(f.ctx, donor.Id, createRequest(produce.Id, "05/01/2024"))
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("past expiry is accepted and reads expired", func(t *testing.T) {
		res, err := f.donations.Create(f.ctx, donor.Id, createRequest(produce.Id, "2023-12-30"))
		require.NoError(t, err)
		assert.Equal(t, "expired", res.Status)
	})
}

func TestDonationVerificationGatesClaim(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, false)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	_, err := f.donations.Claim(f.ctx, charity.Id, d.Id, nil)
	require.ErrorIs(t, err, apperror.ErrNotVerified)

	_, err = f.admin.VerifyUser(f.ctx, admin.Id, charity.Id)
	require.NoError(t, err)
	assert.Contains(t, f.publisher.types(), events.UserVerified)

	claimed, err := f.donations.Claim(f.ctx, charity.Id, d.Id, &dto.ClaimRequest{PickupTime: "2024-01-02T10:00", Notes: "back door"})
	require.NoError(t, err)
	assert.Equal(t, "claimed", claimed.Status)
	require.NotNil(t, claimed.Charity)
	assert.Equal(t, charity.Id, claimed.Charity.Id)
	require.NotNil(t, claimed.ClaimedAt)

	ev := f.publisher.last(events.DonationClaimed)
	require.NotNil(t, ev)
	assert.Equal(t, donor.Email, ev.Payload()["donor_email"])
	assert.Equal(t, "2024-01-02T10:00:00Z", ev.Payload()["pickup_time"])

	claims, err := f.donations.ListClaims(f.ctx, donor.Id)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "back door", claims[0].Notes)
	require.NotNil(t, claims[0].PickupTime)

	received, err := f.donations.MarkReceived(f.ctx, charity.Id, d.Id)
	require.NoError(t, err)
	assert.Equal(t, "received", received.Status)
	assert.NotNil(t, received.ReceivedAt)

	_, err = f.donations.MarkReceived(f.ctx, charity.Id, d.Id)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	claims, err = f.donations.ListClaims(f.ctx, charity.Id)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.True(t, claims[0].IsReceived)
}

func TestDonationConcurrentClaims(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	const n = 5
	charities := make([]*entity.User, n)
	for i := range charities {
		charities[i] = f.user(entity.UserRoleCharity, true)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range charities {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.donations.Claim(f.ctx, charities[i].Id, d.Id, nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrAlreadyClaimed)
	}
	assert.Equal(t, 1, succeeded)

	claims, err := f.donations.ListClaims(f.ctx, donor.Id)
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}

func TestDonationClaimRules(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)

	t.Run("donor cannot claim", func(t *testing.T) {
		d := f.donation(donor, produce, "2024-01-05", testNow)
		_, err := f.donations.Claim(f.ctx, donor.Id, d.Id, nil)
		assert.ErrorIs(t, err, apperror.ErrPermission)
	})

	t.Run("pickup in the past", func(t *testing.T) {
		d := f.donation(donor, produce, "2024-01-05", testNow)
		_, err := f.donations.Claim(f.ctx, charity.Id, d.Id, &dto.ClaimRequest{PickupTime: "2023-12-31T10:00"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("expired donation", func(t *testing.T) {
		d := f.donation(donor, produce, "2023-12-31", testNow)
		_, err := f.donations.Claim(f.ctx, charity.Id, d.Id, nil)
		assert.ErrorIs(t, err, apperror.ErrAlreadyClaimed)
	})

	t.Run("expiring today is still claimable", func(t *testing.T) {
		d := f.donation(donor, produce, "2024-01-01", testNow)
		res, err := f.donations.Claim(f.ctx, charity.Id, d.Id, nil)
		require.NoError(t, err)
		assert.Equal(t, "claimed", res.Status)
	})

	t.Run("unknown donation", func(t *testing.T) {
		_, err := f.donations.Claim(f.ctx, charity.Id, uuid.New(), nil)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("only the claiming charity marks received", func(t *testing.T) {
		d := f.donation(donor, produce, "2024-01-05", testNow)
		_, err := f.donations.Claim(f.ctx, charity.Id, d.Id, nil)
		require.NoError(t, err)

		_, err = f.donations.MarkReceived(f.ctx, f.user(entity.UserRoleCharity, true).Id, d.Id)
		assert.ErrorIs(t, err, apperror.ErrPermission)
	})

	t.Run("receiving an unclaimed donation", func(t *testing.T) {
		admin := f.user(entity.UserRoleAdmin, true)
		d := f.donation(donor, produce, "2024-01-05", testNow)
		_, err := f.donations.MarkReceived(f.ctx, admin.Id, d.Id)
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	})
}

func TestDonationDelete(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)

	open := f.donation(donor, produce, "2024-01-05", testNow)
	require.NoError(t, f.donations.Delete(f.ctx, donor.Id, open.Id))
	_, err := f.donations.Get(f.ctx, donor.Id, open.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Contains(t, f.publisher.types(), events.DonationDeleted)

	lapsed := f.donation(donor, produce, "2023-12-01", testNow)
	assert.NoError(t, f.donations.Delete(f.ctx, donor.Id, lapsed.Id))

	claimed := f.donation(donor, produce, "2024-01-05", testNow)
	_, err = f.donations.Claim(f.ctx, charity.Id, claimed.Id, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.donations.Delete(f.ctx, donor.Id, claimed.Id), apperror.ErrPermission)

	other := f.user(entity.UserRoleDonor, true)
	mine := f.donation(donor, produce, "2024-01-05", testNow)
	assert.ErrorIs(t, f.donations.Delete(f.ctx, other.Id, mine.Id), apperror.ErrPermission)

	admin := f.user(entity.UserRoleAdmin, true)
	require.NoError(t, f.donations.Delete(f.ctx, admin.Id, claimed.Id))
	claims, err := f.donations.ListClaims(f.ctx, admin.Id)
	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestDonationUpdate(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	name := "Sourdough"
	res, err := f.donations.Update(f.ctx, donor.Id, d.Id, &dto.UpdateDonationRequest{FoodName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sourdough", res.FoodName)
	assert.Equal(t, "10 loaves", res.Quantity)

	status := "received"
	_, err = f.donations.Update(f.ctx, donor.Id, d.Id, &dto.UpdateDonationRequest{Status: &status})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	_, err = f.donations.Update(f.ctx, f.user(entity.UserRoleDonor, true).Id, d.Id, &dto.UpdateDonationRequest{FoodName: &name})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestDonationAdminOverride(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	// Received without a claim: the lifecycle would refuse, the override does not.
	res, err := f.donations.UpdateStatus(f.ctx, admin.Id, d.Id, "received")
	require.NoError(t, err)
	assert.Equal(t, "received", res.Status)

	ev := f.publisher.last(events.DonationOverridden)
	require.NotNil(t, ev)
	assert.Equal(t, "available", ev.Payload()["from_status"])
	assert.NotEmpty(t, ev.Payload()["hazards"])

	res, err = f.donations.UpdateStatus(f.ctx, admin.Id, d.Id, "available")
	require.NoError(t, err)
	assert.Equal(t, "available", res.Status)

	_, err = f.donations.UpdateStatus(f.ctx, admin.Id, d.Id, "gone")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDonationUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	_, err := f.donations.UpdateStatus(f.ctx, charity.Id, d.Id, "received")
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	res, err := f.donations.UpdateStatus(f.ctx, charity.Id, d.Id, "claimed")
	require.NoError(t, err)
	assert.Equal(t, "claimed", res.Status)

	res, err = f.donations.UpdateStatus(f.ctx, charity.Id, d.Id, "received")
	require.NoError(t, err)
	assert.Equal(t, "received", res.Status)

	_, err = f.donations.UpdateStatus(f.ctx, charity.Id, d.Id, "available")
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestDonationVisibility(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	dairy := f.category(entity.CategoryKindFood, "Dairy")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	rival := f.user(entity.UserRoleCharity, true)

	older := f.donation(donor, produce, "2024-01-05", testNow.Add(-2*time.Hour))
	newer := f.donation(donor, dairy, "2024-01-10", testNow.Add(-time.Hour))
	lapsed := f.donation(donor, produce, "2023-12-31", testNow.Add(-3*time.Hour))
	taken := f.donation(donor, produce, "2024-01-05", testNow)
	_, err := f.donations.Claim(f.ctx, rival.Id, taken.Id, nil)
	require.NoError(t, err)

	t.Run("available is oldest first and skips lapsed", func(t *testing.T) {
		res, err := f.donations.ListAvailable(f.ctx, charity.Id, nil)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, older.Id, res[0].Id)
		assert.Equal(t, newer.Id, res[1].Id)
	})

	t.Run("available filters", func(t *testing.T) {
		res, err := f.donations.ListAvailable(f.ctx, charity.Id, &dto.DonationFilter{Category: dairy.Id.String()})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, newer.Id, res[0].Id)

		res, err = f.donations.ListAvailable(f.ctx, charity.Id, &dto.DonationFilter{ExpiryAfter: "2024-01-06"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, newer.Id, res[0].Id)

		res, err = f.donations.ListAvailable(f.ctx, charity.Id, &dto.DonationFilter{Location: "spring"})
		require.NoError(t, err)
		assert.Len(t, res, 2)

		res, err = f.donations.ListAvailable(f.ctx, charity.Id, &dto.DonationFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, newer.Id, res[0].Id)
	})

	t.Run("available sequence pages", func(t *testing.T) {
		var ids []uuid.UUID
		for d, err := range f.donations.Available(f.ctx, AvailableFilter{PageSize: 1}) {
			require.NoError(t, err)
			ids = append(ids, d.Id)
		}
		assert.Equal(t, []uuid.UUID{older.Id, newer.Id}, ids)
	})

	t.Run("donors cannot browse available", func(t *testing.T) {
		_, err := f.donations.ListAvailable(f.ctx, donor.Id, nil)
		assert.ErrorIs(t, err, apperror.ErrPermission)
	})

	t.Run("lapsed reads expired to its donor", func(t *testing.T) {
		res, err := f.donations.Get(f.ctx, donor.Id, lapsed.Id)
		require.NoError(t, err)
		assert.Equal(t, "expired", res.Status)

		_, err = f.donations.Get(f.ctx, charity.Id, lapsed.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("charity sees open donations and its own claims", func(t *testing.T) {
		_, err := f.donations.Get(f.ctx, charity.Id, taken.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		res, err := f.donations.Get(f.ctx, rival.Id, taken.Id)
		require.NoError(t, err)
		assert.Equal(t, "claimed", res.Status)

		claimed, err := f.donations.ListClaimed(f.ctx, rival.Id)
		require.NoError(t, err)
		require.Len(t, claimed, 1)
		assert.Equal(t, taken.Id, claimed[0].Id)

		list, err := f.donations.List(f.ctx, rival.Id, nil)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("status filter uses effective status", func(t *testing.T) {
		expired, err := f.donations.List(f.ctx, donor.Id, &dto.DonationFilter{Status: "expired"})
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, lapsed.Id, expired[0].Id)

		available, err := f.donations.List(f.ctx, donor.Id, &dto.DonationFilter{Status: "available"})
		require.NoError(t, err)
		assert.Len(t, available, 2)
	})

	t.Run("my donations newest first", func(t *testing.T) {
		mine, err := f.donations.ListMine(f.ctx, donor.Id)
		require.NoError(t, err)
		require.Len(t, mine, 4)
		assert.Equal(t, taken.Id, mine[0].Id)
		assert.Equal(t, lapsed.Id, mine[3].Id)

		_, err = f.donations.ListMine(f.ctx, charity.Id)
		assert.ErrorIs(t, err, apperror.ErrPermission)
	})
}
