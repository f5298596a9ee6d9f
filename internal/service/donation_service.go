package service

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/mapper"
	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/repository/scope"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/access"
	"food-donation-be/pkg/events"
	"food-donation-be/pkg/lifecycle"

	"github.com/google/uuid"
)

const availablePageSize = 50

var donationAssociations = specification.Preload{Associations: []string{"Donor", "Charity", "Category"}}

type IDonationService interface {
	Create(ctx context.Context, actorId uuid.UUID, req *dto.CreateDonationRequest) (*dto.DonationResponse, error)
	Get(ctx context.Context, actorId, id uuid.UUID) (*dto.DonationResponse, error)
	Update(ctx context.Context, actorId, id uuid.UUID, req *dto.UpdateDonationRequest) (*dto.DonationResponse, error)
	UpdateStatus(ctx context.Context, actorId, id uuid.UUID, status string) (*dto.DonationResponse, error)
	Delete(ctx context.Context, actorId, id uuid.UUID) error

	List(ctx context.Context, actorId uuid.UUID, filter *dto.DonationFilter) ([]*dto.DonationResponse, error)
	ListAvailable(ctx context.Context, actorId uuid.UUID, filter *dto.DonationFilter) ([]*dto.DonationResponse, error)
	ListMine(ctx context.Context, actorId uuid.UUID) ([]*dto.DonationResponse, error)
	ListClaimed(ctx context.Context, actorId uuid.UUID) ([]*dto.DonationResponse, error)
	Available(ctx context.Context, filter AvailableFilter) iter.Seq2[*entity.Donation, error]

	Claim(ctx context.Context, actorId, id uuid.UUID, req *dto.ClaimRequest) (*dto.DonationResponse, error)
	MarkReceived(ctx context.Context, actorId, id uuid.UUID) (*dto.DonationResponse, error)
	ListClaims(ctx context.Context, actorId uuid.UUID) ([]*dto.ClaimResponse, error)
}

// AvailableFilter narrows the available sequence. Zero values do not filter.
type AvailableFilter struct {
	Search      string
	CategoryId  *uuid.UUID
	Location    string
	ExpiryAfter *time.Time
	PageSize    int
}

func (f AvailableFilter) specs(today time.Time) []specification.Specification {
	specs := []specification.Specification{specification.EffectivelyAvailable{Today: today}}
	if q := strings.TrimSpace(f.Search); q != "" {
		specs = append(specs, specification.DonationSearch{Query: q})
	}
	if f.CategoryId != nil {
		specs = append(specs, specification.ByCategory{CategoryID: *f.CategoryId})
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		specs = append(specs, specification.PickupLocation{Query: loc})
	}
	if f.ExpiryAfter != nil {
		specs = append(specs, specification.ExpiringOnOrAfter{Date: *f.ExpiryAfter})
	}
	return specs
}

type donationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	logger     logger.ILogger
	clock      Clock
}

func NewDonationService(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService, log logger.ILogger, clock Clock) IDonationService {
	return &donationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
		clock:      clock,
	}
}

func (s *donationService) Create(ctx context.Context, actorId uuid.UUID, req *dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanCreateDonation(actor); err != nil {
		return nil, err
	}

	expiry, err := entity.ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, apperror.ValidationFields("invalid donation", map[string]string{"expiry_date": "Date has wrong format. Use YYYY-MM-DD."})
	}
	category, err := s.findFoodCategory(ctx, uow, req.CategoryId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	donation := &entity.Donation{
		Id:                 uuid.New(),
		DonorId:            actor.Id,
		CategoryId:         category.Id,
		FoodName:           strings.TrimSpace(req.FoodName),
		Description:        req.Description,
		Quantity:           strings.TrimSpace(req.Quantity),
		ExpiryDate:         expiry,
		PickupAddress:      strings.TrimSpace(req.PickupAddress),
		PickupCity:         strings.TrimSpace(req.PickupCity),
		PickupState:        strings.TrimSpace(req.PickupState),
		PickupZip:          strings.TrimSpace(req.PickupZip),
		PickupInstructions: req.PickupInstructions,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Status:             entity.DonationStatusAvailable,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uow.DonationRepository().Create(ctx, donation); err != nil {
		return nil, err
	}
	donation.Donor = actor
	donation.Category = category

	s.logger.Info("DONATION", "Donation created", map[string]interface{}{
		"donation_id": donation.Id.String(),
		"donor_id":    actor.Id.String(),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.DonationCreated, map[string]interface{}{
		"donation_id": donation.Id.String(),
		"food_name":   donation.FoodName,
		"quantity":    donation.Quantity,
		"pickup_city": donation.PickupCity,
		"donor_name":  actor.DisplayName(),
		"actor_id":    actor.Id.String(),
		"entity_type": "donation",
		"entity_id":   donation.Id.String(),
	}))

	return mapper.DonationToResponse(donation, s.clock.Today()), nil
}

func (s *donationService) findFoodCategory(ctx context.Context, uow unitofwork.UnitOfWork, rawId string) (*entity.Category, error) {
	invalid := apperror.ValidationFields("invalid donation", map[string]string{"category": "Invalid pk - object does not exist."})

	id, err := uuid.Parse(rawId)
	if err != nil {
		return nil, invalid
	}
	category, err := uow.CategoryRepository(entity.CategoryKindFood).FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, invalid
	}
	return category, nil
}

func (s *donationService) Get(ctx context.Context, actorId, id uuid.UUID) (*dto.DonationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id}, donationAssociations)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	// Invisible donations read as missing rather than forbidden.
	if donation == nil || !access.CanViewDonation(actor, donation, today) {
		return nil, apperror.NotFound("donation")
	}
	return mapper.DonationToResponse(donation, today), nil
}

func (s *donationService) Update(ctx context.Context, actorId, id uuid.UUID, req *dto.UpdateDonationRequest) (*dto.DonationResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NotFound("donation")
	}
	if err := access.CanEditDonation(actor, donation); err != nil {
		return nil, err
	}
	if req.Status != nil && !actor.IsAdmin() {
		return nil, apperror.Permission("only administrators can set status directly")
	}

	if err := s.applyEdits(ctx, uow, donation, req); err != nil {
		return nil, err
	}

	// The write only lands on the row as it was read, so a claim that
	// committed in between is never overwritten.
	guards := []specification.Specification{specification.ByStatus{Status: string(donation.Status)}}
	lost := apperror.Conflict("donation changed while it was being updated")
	if !actor.IsAdmin() {
		guards = append(guards, specification.DonatedBy{DonorID: actor.Id})
		lost = apperror.AlreadyClaimed("donation was claimed before the edit was saved")
	}

	var override *statusOverride
	if req.Status != nil && entity.DonationStatus(*req.Status) != donation.Status {
		override = s.override(donation, entity.DonationStatus(*req.Status), actor)
	}

	donation.UpdatedAt = s.clock.Now()
	saved, err := uow.DonationRepository().SaveWhere(ctx, donation, guards...)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, lost
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if override != nil {
		s.publishOverride(ctx, donation, override)
	}
	return s.reload(ctx, id)
}

func (s *donationService) applyEdits(ctx context.Context, uow unitofwork.UnitOfWork, d *entity.Donation, req *dto.UpdateDonationRequest) error {
	if req.FoodName != nil {
		d.FoodName = strings.TrimSpace(*req.FoodName)
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Quantity != nil {
		d.Quantity = strings.TrimSpace(*req.Quantity)
	}
	if req.CategoryId != nil {
		category, err := s.findFoodCategory(ctx, uow, *req.CategoryId)
		if err != nil {
			return err
		}
		d.CategoryId = category.Id
	}
	if req.ExpiryDate != nil {
		expiry, err := entity.ParseDate(*req.ExpiryDate)
		if err != nil {
			return apperror.ValidationFields("invalid donation", map[string]string{"expiry_date": "Date has wrong format. Use YYYY-MM-DD."})
		}
		d.ExpiryDate = expiry
	}
	if req.PickupAddress != nil {
		d.PickupAddress = strings.TrimSpace(*req.PickupAddress)
	}
	if req.PickupCity != nil {
		d.PickupCity = strings.TrimSpace(*req.PickupCity)
	}
	if req.PickupState != nil {
		d.PickupState = strings.TrimSpace(*req.PickupState)
	}
	if req.PickupZip != nil {
		d.PickupZip = strings.TrimSpace(*req.PickupZip)
	}
	if req.PickupInstructions != nil {
		d.PickupInstructions = *req.PickupInstructions
	}
	if req.Latitude != nil {
		d.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		d.Longitude = req.Longitude
	}
	if d.FoodName == "" || d.Quantity == "" {
		return apperror.Validation("food_name and quantity cannot be blank")
	}
	if d.PickupAddress == "" || d.PickupCity == "" || d.PickupState == "" || d.PickupZip == "" {
		return apperror.Validation("pickup address fields cannot be blank")
	}
	return nil
}

// statusOverride records an administrative status change that bypassed the
// lifecycle. It is reported, never corrected.
type statusOverride struct {
	From    entity.DonationStatus
	To      entity.DonationStatus
	ActorId uuid.UUID
	Hazards []string
}

func (s *donationService) override(d *entity.Donation, to entity.DonationStatus, actor *entity.User) *statusOverride {
	o := &statusOverride{From: d.Status, To: to, ActorId: actor.Id}
	d.Status = to

	switch to {
	case entity.DonationStatusAvailable:
		if d.CharityId != nil || d.ClaimedAt != nil {
			o.Hazards = append(o.Hazards, "available donation still references a charity or claim time")
		}
	case entity.DonationStatusClaimed, entity.DonationStatusReceived:
		if d.CharityId == nil {
			o.Hazards = append(o.Hazards, string(to)+" donation has no charity")
		}
		if d.ClaimedAt == nil {
			o.Hazards = append(o.Hazards, string(to)+" donation has no claim time")
		}
	}
	if to != entity.DonationStatusReceived && d.ReceivedAt != nil {
		o.Hazards = append(o.Hazards, "received_at set on a donation that is not received")
	}

	details := map[string]interface{}{
		"donation_id": d.Id.String(),
		"from":        string(o.From),
		"to":          string(o.To),
		"admin_id":    actor.Id.String(),
	}
	if len(o.Hazards) > 0 {
		details["hazards"] = o.Hazards
		s.logger.Warn("DONATION", "Administrative status override left donation inconsistent", details)
	} else {
		s.logger.Info("DONATION", "Administrative status override", details)
	}
	return o
}

func (s *donationService) publishOverride(ctx context.Context, d *entity.Donation, o *statusOverride) {
	recipients := []string{d.DonorId.String()}
	if d.CharityId != nil {
		recipients = append(recipients, d.CharityId.String())
	}
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.DonationOverridden, map[string]interface{}{
		"donation_id":   d.Id.String(),
		"food_name":     d.FoodName,
		"from_status":   string(o.From),
		"to_status":     string(o.To),
		"hazards":       o.Hazards,
		"actor_id":      o.ActorId.String(),
		"recipient_ids": recipients,
		"entity_type":   "donation",
		"entity_id":     d.Id.String(),
	}))
}

// UpdateStatus runs a lifecycle transition for regular users and an
// administrative override for admins.
func (s *donationService) UpdateStatus(ctx context.Context, actorId, id uuid.UUID, status string) (*dto.DonationResponse, error) {
	to := entity.DonationStatus(status)
	if !to.Valid() {
		return nil, apperror.ValidationFields("invalid status", map[string]string{"status": "\"" + status + "\" is not a valid choice."})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		return s.overrideStatus(ctx, actor, id, to)
	}

	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NotFound("donation")
	}
	if err := lifecycle.ValidateTransition(lifecycle.Effective(donation, s.clock.Today()), to); err != nil {
		return nil, err
	}

	switch to {
	case entity.DonationStatusClaimed:
		return s.Claim(ctx, actorId, id, &dto.ClaimRequest{})
	case entity.DonationStatusReceived:
		return s.MarkReceived(ctx, actorId, id)
	}
	return nil, apperror.InvalidTransition(string(donation.Status), string(to))
}

func (s *donationService) overrideStatus(ctx context.Context, actor *entity.User, id uuid.UUID, to entity.DonationStatus) (*dto.DonationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{}, donationAssociations)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NotFound("donation")
	}
	if donation.Status == to {
		return mapper.DonationToResponse(donation, s.clock.Today()), nil
	}
	from := specification.ByStatus{Status: string(donation.Status)}
	o := s.override(donation, to, actor)
	donation.UpdatedAt = s.clock.Now()
	saved, err := uow.DonationRepository().SaveWhere(ctx, donation, from)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, apperror.Conflict("donation changed while its status was being overridden")
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.publishOverride(ctx, donation, o)
	return s.reload(ctx, id)
}

func (s *donationService) Delete(ctx context.Context, actorId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return err
	}
	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
	if err != nil {
		return err
	}
	if donation == nil {
		return apperror.NotFound("donation")
	}
	if err := access.CanDeleteDonation(actor, donation); err != nil {
		return err
	}

	var guards []specification.Specification
	if !actor.IsAdmin() {
		guards = append(guards,
			specification.ByStatus{Status: string(entity.DonationStatusAvailable)},
			specification.DonatedBy{DonorID: actor.Id},
		)
	}
	if err := uow.DonationClaimRepository().DeleteByDonation(ctx, id); err != nil {
		return err
	}
	deleted, err := uow.DonationRepository().DeleteWhere(ctx, id, guards...)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.Permission("only available donations can be deleted")
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	var recipients []string
	if donation.CharityId != nil {
		recipients = append(recipients, donation.CharityId.String())
	}
	if donation.DonorId != actor.Id {
		recipients = append(recipients, donation.DonorId.String())
	}
	s.logger.Info("DONATION", "Donation deleted", map[string]interface{}{
		"donation_id": id.String(),
		"actor_id":    actor.Id.String(),
		"status":      string(donation.Status),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.DonationDeleted, map[string]interface{}{
		"donation_id":   id.String(),
		"food_name":     donation.FoodName,
		"actor_id":      actor.Id.String(),
		"recipient_ids": recipients,
	}))
	return nil
}

// List is the role-scoped listing behind GET /donations: admins see all,
// donors their own, charities what they may browse plus their claims.
func (s *donationService) List(ctx context.Context, actorId uuid.UUID, filter *dto.DonationFilter) ([]*dto.DonationResponse, error) {
	if filter == nil {
		filter = &dto.DonationFilter{}
	}
	if err := serverutils.ValidateRequest(filter); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()

	specs := []specification.Specification{donationAssociations}
	switch actor.Role {
	case entity.UserRoleDonor:
		specs = append(specs, specification.DonatedBy{DonorID: actor.Id})
	case entity.UserRoleCharity:
		specs = append(specs, specification.VisibleToCharity{CharityID: actor.Id, Today: today})
	}

	af, err := toAvailableFilter(filter)
	if err != nil {
		return nil, err
	}
	if q := strings.TrimSpace(af.Search); q != "" {
		specs = append(specs, specification.DonationSearch{Query: q})
	}
	if af.CategoryId != nil {
		specs = append(specs, specification.ByCategory{CategoryID: *af.CategoryId})
	}
	if l := strings.TrimSpace(af.Location); l != "" {
		specs = append(specs, specification.PickupLocation{Query: l})
	}
	if af.ExpiryAfter != nil {
		specs = append(specs, specification.ExpiringOnOrAfter{Date: *af.ExpiryAfter})
	}
	switch entity.DonationStatus(filter.Status) {
	case entity.DonationStatusAvailable:
		specs = append(specs, specification.EffectivelyAvailable{Today: today})
	case entity.DonationStatusExpired:
		specs = append(specs, specification.EffectivelyExpired{Today: today})
	case entity.DonationStatusClaimed, entity.DonationStatusReceived:
		specs = append(specs, specification.ByStatus{Status: filter.Status})
	}

	specs = append(specs,
		specification.Scoped{Fn: scope.OrderByCreatedDesc},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	)

	donations, err := uow.DonationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapper.DonationsToResponse(donations, today), nil
}

// Available yields effectively available donations oldest first, one page
// per query. Each range over the result starts a fresh scan.
func (s *donationService) Available(ctx context.Context, filter AvailableFilter) iter.Seq2[*entity.Donation, error] {
	return func(yield func(*entity.Donation, error) bool) {
		pageSize := filter.PageSize
		if pageSize <= 0 {
			pageSize = availablePageSize
		}
		base := filter.specs(s.clock.Today())
		repo := s.uowFactory.NewUnitOfWork(ctx).DonationRepository()

		for offset := 0; ; offset += pageSize {
			specs := make([]specification.Specification, 0, len(base)+3)
			specs = append(specs, base...)
			specs = append(specs,
				donationAssociations,
				specification.Scoped{Fn: scope.OrderByCreatedAsc},
				specification.Pagination{Limit: pageSize, Offset: offset},
			)

			page, err := repo.FindAll(ctx, specs...)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, d := range page {
				if !yield(d, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
		}
	}
}

func (s *donationService) ListAvailable(ctx context.Context, actorId uuid.UUID, filter *dto.DonationFilter) ([]*dto.DonationResponse, error) {
	if filter == nil {
		filter = &dto.DonationFilter{}
	}
	if err := serverutils.ValidateRequest(filter); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanBrowseAvailable(actor); err != nil {
		return nil, err
	}

	af, err := toAvailableFilter(filter)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	res := []*dto.DonationResponse{}
	skipped := 0
	for d, err := range s.Available(ctx, af) {
		if err != nil {
			return nil, err
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		res = append(res, mapper.DonationToResponse(d, today))
		if filter.Limit > 0 && len(res) == filter.Limit {
			break
		}
	}
	return res, nil
}

func toAvailableFilter(f *dto.DonationFilter) (AvailableFilter, error) {
	af := AvailableFilter{Search: f.Search, Location: f.Location}
	if f.Category != "" {
		id, err := uuid.Parse(f.Category)
		if err != nil {
			return af, apperror.ValidationFields("invalid filter", map[string]string{"category": "Must be a valid UUID."})
		}
		af.CategoryId = &id
	}
	if f.ExpiryAfter != "" {
		d, err := entity.ParseDate(f.ExpiryAfter)
		if err != nil {
			return af, apperror.ValidationFields("invalid filter", map[string]string{"expiry_after": "Date has wrong format. Use YYYY-MM-DD."})
		}
		af.ExpiryAfter = &d
	}
	return af, nil
}

func (s *donationService) ListMine(ctx context.Context, actorId uuid.UUID) ([]*dto.DonationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanListOwnDonations(actor); err != nil {
		return nil, err
	}

	donations, err := uow.DonationRepository().FindAll(ctx,
		specification.DonatedBy{DonorID: actor.Id},
		donationAssociations,
		specification.Scoped{Fn: scope.OrderByCreatedDesc},
	)
	if err != nil {
		return nil, err
	}
	return mapper.DonationsToResponse(donations, s.clock.Today()), nil
}

func (s *donationService) ListClaimed(ctx context.Context, actorId uuid.UUID) ([]*dto.DonationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanListClaimed(actor); err != nil {
		return nil, err
	}

	donations, err := uow.DonationRepository().FindAll(ctx,
		specification.ClaimedBy{CharityID: actor.Id},
		donationAssociations,
		specification.Scoped{Fn: scope.OrderByCreatedDesc},
	)
	if err != nil {
		return nil, err
	}
	return mapper.DonationsToResponse(donations, s.clock.Today()), nil
}

// Claim reserves an available donation for the actor. The status check and
// the write are one conditional UPDATE, so of N concurrent claims exactly one
// changes the row and the rest see AlreadyClaimed.
func (s *donationService) Claim(ctx context.Context, actorId, id uuid.UUID, req *dto.ClaimRequest) (*dto.DonationResponse, error) {
	if req == nil {
		req = &dto.ClaimRequest{}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	if err := access.CanClaim(actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var pickupTime *time.Time
	if req.PickupTime != "" {
		t, err := entity.ParseDateTime(req.PickupTime, s.clock.Location)
		if err != nil {
			return nil, apperror.ValidationFields("invalid claim", map[string]string{"pickup_time": "Datetime has wrong format."})
		}
		if t.Before(now) {
			return nil, apperror.ValidationFields("invalid claim", map[string]string{"pickup_time": "Pickup time cannot be in the past."})
		}
		pickupTime = &t
	}

	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NotFound("donation")
	}

	claimed, err := uow.DonationRepository().UpdateWhere(ctx, id, map[string]interface{}{
		"status":     string(entity.DonationStatusClaimed),
		"charity_id": actor.Id,
		"claimed_at": now,
		"updated_at": now,
	}, specification.EffectivelyAvailable{Today: s.clock.Today()})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperror.AlreadyClaimed("This donation is no longer available")
	}

	// Any claim row still present was left behind by an administrative
	// override; the conditional update above proved the donation is open.
	if err := uow.DonationClaimRepository().DeleteByDonation(ctx, id); err != nil {
		return nil, err
	}
	claim := &entity.DonationClaim{
		Id:         uuid.New(),
		DonationId: id,
		CharityId:  actor.Id,
		ClaimedAt:  now,
		PickupTime: pickupTime,
		Notes:      req.Notes,
	}
	if err := uow.DonationClaimRepository().Create(ctx, claim); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.AlreadyClaimed("This donation is no longer available")
		}
		return nil, err
	}

	donor, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: donation.DonorId})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("CLAIM", "Donation claimed", map[string]interface{}{
		"donation_id": id.String(),
		"charity_id":  actor.Id.String(),
	})
	payload := map[string]interface{}{
		"donation_id":   id.String(),
		"food_name":     donation.FoodName,
		"charity_id":    actor.Id.String(),
		"charity_name":  actor.DisplayName(),
		"actor_id":      actor.Id.String(),
		"recipient_ids": []string{donation.DonorId.String()},
		"entity_type":   "donation",
		"entity_id":     id.String(),
	}
	if donor != nil {
		payload["donor_email"] = donor.Email
		payload["donor_name"] = donor.DisplayName()
	}
	if pickupTime != nil {
		payload["pickup_time"] = pickupTime.Format(time.RFC3339)
	}
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.DonationClaimed, payload))

	return s.reload(ctx, id)
}

func (s *donationService) MarkReceived(ctx context.Context, actorId, id uuid.UUID) (*dto.DonationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}
	donation, err := uow.DonationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NotFound("donation")
	}
	if err := access.CanMarkReceived(actor, donation); err != nil {
		return nil, err
	}

	current := lifecycle.Effective(donation, s.clock.Today())
	if err := lifecycle.ValidateTransition(current, entity.DonationStatusReceived); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	received, err := uow.DonationRepository().UpdateWhere(ctx, id, map[string]interface{}{
		"status":      string(entity.DonationStatusReceived),
		"received_at": now,
		"updated_at":  now,
	}, specification.ByStatus{Status: string(entity.DonationStatusClaimed)})
	if err != nil {
		return nil, err
	}
	if !received {
		return nil, apperror.InvalidTransition(string(current), string(entity.DonationStatusReceived))
	}

	claim, err := uow.DonationClaimRepository().FindOne(ctx, specification.ByDonation{DonationID: id})
	if err != nil {
		return nil, err
	}
	if claim != nil {
		claim.IsReceived = true
		claim.ReceivedAt = &now
		if err := uow.DonationClaimRepository().Update(ctx, claim); err != nil {
			return nil, err
		}
	}

	donor, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: donation.DonorId})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	charityName := actor.DisplayName()
	if donation.CharityId != nil && *donation.CharityId != actor.Id {
		if charity, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: *donation.CharityId}); err == nil && charity != nil {
			charityName = charity.DisplayName()
		}
	}

	s.logger.Info("CLAIM", "Donation received", map[string]interface{}{
		"donation_id": id.String(),
		"actor_id":    actor.Id.String(),
	})
	payload := map[string]interface{}{
		"donation_id":   id.String(),
		"food_name":     donation.FoodName,
		"charity_name":  charityName,
		"actor_id":      actor.Id.String(),
		"recipient_ids": []string{donation.DonorId.String()},
		"entity_type":   "donation",
		"entity_id":     id.String(),
	}
	if donor != nil {
		payload["donor_email"] = donor.Email
		payload["donor_name"] = donor.DisplayName()
	}
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.DonationReceived, payload))

	return s.reload(ctx, id)
}

// ListClaims scopes claims by role: admins all, donors claims on their
// donations, charities their own.
func (s *donationService) ListClaims(ctx context.Context, actorId uuid.UUID) ([]*dto.ClaimResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	actor, err := loadActor(ctx, uow, actorId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.Preload{Associations: []string{"Donation", "Charity"}},
		specification.OrderBy{Field: "claimed_at", Desc: true},
	}
	switch actor.Role {
	case entity.UserRoleDonor:
		specs = append(specs, specification.ClaimsOnDonationsOf{DonorID: actor.Id})
	case entity.UserRoleCharity:
		specs = append(specs, specification.Filter("charity_id", actor.Id))
	}

	claims, err := uow.DonationClaimRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapper.ClaimsToResponse(claims), nil
}

func (s *donationService) reload(ctx context.Context, id uuid.UUID) (*dto.DonationResponse, error) {
	donation, err := s.uowFactory.NewUnitOfWork(ctx).DonationRepository().FindOne(ctx, specification.ByID{ID: id}, donationAssociations)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NotFound("donation")
	}
	return mapper.DonationToResponse(donation, s.clock.Today()), nil
}
