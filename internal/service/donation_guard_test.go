package service

import (
	"testing"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// claimAfterNextRead makes the next donations read be followed by a claim of
// donationId, written on the reader's own connection. It stands in for a
// claim that commits between a read and the write that follows it.
func (f *fixture) claimAfterNextRead(donationId, charityId uuid.UUID) {
	f.t.Helper()
	name := "test:claim_after_read"
	armed := true
	require.NoError(f.t, f.db.Callback().Query().After("gorm:query").Register(name, func(tx *gorm.DB) {
		if !armed || tx.Error != nil || tx.Statement.Table != "donations" {
			return
		}
		armed = false
		tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Exec(
			"UPDATE donations SET status = ?, charity_id = ?, claimed_at = ? WHERE id = ?",
			string(entity.DonationStatusClaimed), charityId, testNow, donationId,
		).Error)
	}))
	f.t.Cleanup(func() { _ = f.db.Callback().Query().Remove(name) })
}

func (f *fixture) storedDonation(id uuid.UUID) *entity.Donation {
	f.t.Helper()
	d, err := f.factory.NewUnitOfWork(f.ctx).DonationRepository().FindOne(f.ctx, specification.ByID{ID: id})
	require.NoError(f.t, err)
	return d
}

func TestDonationEditLosesToClaim(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	f.claimAfterNextRead(d.Id, charity.Id)
	name := "Sourdough"
	_, err := f.donations.Update(f.ctx, donor.Id, d.Id, &dto.UpdateDonationRequest{FoodName: &name})
	assert.ErrorIs(t, err, apperror.ErrAlreadyClaimed)

	stored := f.storedDonation(d.Id)
	require.NotNil(t, stored)
	assert.Equal(t, "Bread", stored.FoodName)
}

func TestDonationAdminEditLosesToClaim(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	// The admin user is loaded from users first; the armed read is the donation.
	f.claimAfterNextRead(d.Id, charity.Id)
	quantity := "2 loaves"
	_, err := f.donations.Update(f.ctx, admin.Id, d.Id, &dto.UpdateDonationRequest{Quantity: &quantity})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "10 loaves", f.storedDonation(d.Id).Quantity)
}

func TestDonationDeleteLosesToClaim(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	f.claimAfterNextRead(d.Id, charity.Id)
	assert.ErrorIs(t, f.donations.Delete(f.ctx, donor.Id, d.Id), apperror.ErrPermission)
	assert.NotNil(t, f.storedDonation(d.Id))
}

func TestDonationOverrideLosesToClaim(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	d := f.donation(donor, produce, "2024-01-05", testNow)

	f.claimAfterNextRead(d.Id, charity.Id)
	_, err := f.donations.UpdateStatus(f.ctx, admin.Id, d.Id, "expired")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, entity.DonationStatusAvailable, f.storedDonation(d.Id).Status)
}

func TestDonationCreateRejectsBlankFields(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)

	for field, blank := range map[string]func(*dto.CreateDonationRequest){
		"food_name":   func(r *dto.CreateDonationRequest) { r.FoodName = "   " },
		"quantity":    func(r *dto.CreateDonationRequest) { r.Quantity = "\t" },
		"pickup_city": func(r *dto.CreateDonationRequest) { r.PickupCity = " " },
		"pickup_zip":  func(r *dto.CreateDonationRequest) { r.PickupZip = "  " },
	} {
		t.Run(field, func(t *testing.T) {
			req := createRequest(produce.Id, "2024-01-05")
			blank(req)
			_, err := f.donations.Create(f.ctx, donor.Id, req)
			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Fields, field)
		})
	}

	d := f.donation(donor, produce, "2024-01-05", testNow)
	blank := "  "
	_, err := f.donations.Update(f.ctx, donor.Id, d.Id, &dto.UpdateDonationRequest{PickupAddress: &blank})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDonationSearchIsLiteral(t *testing.T) {
	f := newFixture(t)
	produce := f.category(entity.CategoryKindFood, "Produce")
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	f.donation(donor, produce, "2024-01-05", testNow)

	for _, filter := range []*dto.DonationFilter{
		{Search: "%"},
		{Search: "_"},
		{Search: `\`},
		{Location: "_"},
		{Location: "%"},
	} {
		res, err := f.donations.ListAvailable(f.ctx, charity.Id, filter)
		require.NoError(t, err)
		assert.Empty(t, res, "search=%q location=%q", filter.Search, filter.Location)
	}

	res, err := f.donations.ListAvailable(f.ctx, charity.Id, &dto.DonationFilter{Search: "BRE", Location: "field"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}
