package mapper

import (
	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
)

// ApplyProfile copies the non-nil fields of req onto u.
func ApplyProfile(u *entity.User, req *dto.UpdateProfileRequest) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.City != nil {
		u.City = *req.City
	}
	if req.State != nil {
		u.State = *req.State
	}
	if req.ZipCode != nil {
		u.ZipCode = *req.ZipCode
	}
	if req.OrganizationName != nil {
		u.OrganizationName = *req.OrganizationName
	}
	if req.OrganizationDescription != nil {
		u.OrganizationDescription = *req.OrganizationDescription
	}
}
