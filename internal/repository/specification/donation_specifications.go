package specification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Date-only comparisons bind YYYY-MM-DD strings so Postgres compares as DATE
// and text-stored dates compare lexically.
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type DonatedBy struct {
	DonorID uuid.UUID
}

func (s DonatedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("donor_id = ?", s.DonorID)
}

type ClaimedBy struct {
	CharityID uuid.UUID
}

func (s ClaimedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("charity_id = ?", s.CharityID)
}

type ByCategory struct {
	CategoryID uuid.UUID
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

// ExpiringOnOrAfter keeps rows whose expiry_date is not before Date.
type ExpiringOnOrAfter struct {
	Date time.Time
}

func (s ExpiringOnOrAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expiry_date >= ?", dateParam(s.Date))
}

type ExpiredBefore struct {
	Date time.Time
}

func (s ExpiredBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expiry_date < ?", dateParam(s.Date))
}

// EffectivelyAvailable is stored-available and not yet past its expiry date.
type EffectivelyAvailable struct {
	Today time.Time
}

func (s EffectivelyAvailable) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND expiry_date >= ?", "available", dateParam(s.Today))
}

// EffectivelyExpired is stored-available but past its expiry date.
type EffectivelyExpired struct {
	Today time.Time
}

func (s EffectivelyExpired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND expiry_date < ?", "available", dateParam(s.Today))
}

// VisibleToCharity is what a charity may browse: open donations plus its own claims.
type VisibleToCharity struct {
	CharityID uuid.UUID
	Today     time.Time
}

func (s VisibleToCharity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(status = ? AND expiry_date >= ?) OR charity_id = ?",
		"available", dateParam(s.Today), s.CharityID,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is a lowercase LIKE pattern matching q literally as a
// substring. Callers pair it with ESCAPE '\'.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

// DonationSearch matches food name, description or donor name, case-insensitively.
type DonationSearch struct {
	Query string
}

func (s DonationSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := containsPattern(s.Query)
	return db.Where(
		`LOWER(food_name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR donor_id IN (SELECT id FROM users WHERE LOWER(first_name || ' ' || last_name) LIKE ? ESCAPE '\' OR LOWER(organization_name) LIKE ? ESCAPE '\')`,
		pattern, pattern, pattern, pattern,
	)
}

// PickupLocation matches city, state or zip as a substring.
type PickupLocation struct {
	Query string
}

func (s PickupLocation) Apply(db *gorm.DB) *gorm.DB {
	pattern := containsPattern(s.Query)
	return db.Where(
		`LOWER(pickup_city) LIKE ? ESCAPE '\' OR LOWER(pickup_state) LIKE ? ESCAPE '\' OR LOWER(pickup_zip) LIKE ? ESCAPE '\'`,
		pattern, pattern, pattern,
	)
}

// Claim Specs

type ByDonation struct {
	DonationID uuid.UUID
}

func (s ByDonation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("donation_id = ?", s.DonationID)
}

type ClaimsOnDonationsOf struct {
	DonorID uuid.UUID
}

func (s ClaimsOnDonationsOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("donation_id IN (SELECT id FROM donations WHERE donor_id = ?)", s.DonorID)
}

// Waste Specs

type ByWasteType struct {
	WasteType string
}

func (s ByWasteType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("waste_type = ?", s.WasteType)
}
