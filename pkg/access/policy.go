// Package access answers capability questions about an actor. Roles are
// flat: admins pass every check, donors and charities only their own.
package access

import (
	"time"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/pkg/lifecycle"

	"github.com/google/uuid"
)

const (
	msgDonorVerification   = "You must be verified to create donations. Please contact an administrator to verify your account."
	msgCharityVerification = "You must be verified to claim donations. Please contact an administrator to verify your account."
	msgWasteVerification   = "You must be verified to log waste. Please contact an administrator to verify your account."
)

func CanCreateDonation(actor *entity.User) error {
	switch actor.Role {
	case entity.UserRoleAdmin:
		return nil
	case entity.UserRoleDonor:
		if !actor.IsVerified {
			return apperror.NotVerified(msgDonorVerification)
		}
		return nil
	}
	return apperror.Permission("only donors can create donations")
}

// CanEditDonation covers descriptive edits by the owner. Admin edits go
// through the override path instead.
func CanEditDonation(actor *entity.User, d *entity.Donation) error {
	if actor.IsAdmin() {
		return nil
	}
	if d.DonorId != actor.Id {
		return apperror.Permission("you can only edit your own donations")
	}
	if d.Status != entity.DonationStatusAvailable {
		return apperror.Permission("only available donations can be edited")
	}
	return nil
}

// CanDeleteDonation lets the owner remove a donation nobody has claimed,
// including one that has lapsed past its expiry date.
func CanDeleteDonation(actor *entity.User, d *entity.Donation) error {
	if actor.IsAdmin() {
		return nil
	}
	if d.DonorId != actor.Id {
		return apperror.Permission("you can only delete your own donations")
	}
	if d.Status != entity.DonationStatusAvailable {
		return apperror.Permission("only available donations can be deleted")
	}
	return nil
}

func CanClaim(actor *entity.User) error {
	if actor.Role == entity.UserRoleDonor {
		return apperror.Permission("only charities can claim donations")
	}
	if !actor.IsAdmin() && !actor.IsVerified {
		return apperror.NotVerified(msgCharityVerification)
	}
	return nil
}

func CanMarkReceived(actor *entity.User, d *entity.Donation) error {
	if actor.IsAdmin() {
		return nil
	}
	if d.CharityId == nil || *d.CharityId != actor.Id {
		return apperror.Permission("only the claiming charity can mark this donation as received")
	}
	return nil
}

// CanViewDonation: admins see everything, donors their own, charities what
// is open plus what they claimed.
func CanViewDonation(actor *entity.User, d *entity.Donation, today time.Time) bool {
	switch actor.Role {
	case entity.UserRoleAdmin:
		return true
	case entity.UserRoleDonor:
		return d.DonorId == actor.Id
	case entity.UserRoleCharity:
		if d.CharityId != nil && *d.CharityId == actor.Id {
			return true
		}
		return lifecycle.Effective(d, today) == entity.DonationStatusAvailable
	}
	return false
}

func CanBrowseAvailable(actor *entity.User) error {
	if actor.Role == entity.UserRoleCharity || actor.IsAdmin() {
		return nil
	}
	return apperror.Permission("only charities can browse available donations")
}

func CanListOwnDonations(actor *entity.User) error {
	if actor.Role == entity.UserRoleDonor || actor.IsAdmin() {
		return nil
	}
	return apperror.Permission("only donors have donations")
}

func CanListClaimed(actor *entity.User) error {
	if actor.Role == entity.UserRoleCharity || actor.IsAdmin() {
		return nil
	}
	return apperror.Permission("only charities have claimed donations")
}

func CanCreateWasteLog(actor *entity.User) error {
	switch actor.Role {
	case entity.UserRoleAdmin:
		return nil
	case entity.UserRoleDonor:
		if !actor.IsVerified {
			return apperror.NotVerified(msgWasteVerification)
		}
		return nil
	}
	return apperror.Permission("only donors can log waste")
}

// CanDeleteOwned is the owner-or-admin rule shared by waste logs and reductions.
func CanDeleteOwned(actor *entity.User, ownerId uuid.UUID) error {
	if actor.IsAdmin() || actor.Id == ownerId {
		return nil
	}
	return apperror.Permission("you can only delete your own records")
}

func RequireAdmin(actor *entity.User) error {
	if actor.IsAdmin() {
		return nil
	}
	return apperror.Permission("admin access required")
}

// ShowsVerifiedBadge is true for verified donors and charities only.
func ShowsVerifiedBadge(u *entity.User) bool {
	return u.IsVerified && (u.Role == entity.UserRoleDonor || u.Role == entity.UserRoleCharity)
}
