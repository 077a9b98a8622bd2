package model

import (
	"encoding/json"
	"time"
)

// Project lifecycle status. The canonical enumeration has three values;
// "under-construction" is accepted on input and normalized to ongoing.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"

	// Legacy alias, never stored.
	StatusUnderConstruction = "under-construction"
)

// Project category constants
const (
	CategoryResidential = "residential"
	CategoryCommercial  = "commercial"
	CategoryMixed       = "mixed"
)

// Timeline phase status constants
const (
	PhasePlanned    = "planned"
	PhaseInProgress = "in-progress"
	PhaseCompleted  = "completed"
)

// NormalizeStatus folds legacy aliases into the canonical enumeration.
func NormalizeStatus(s string) string {
	if s == StatusUnderConstruction {
		return StatusOngoing
	}
	return s
}

// ValidStatus reports whether s is an accepted input status.
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusUnderConstruction:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryResidential, CategoryCommercial, CategoryMixed:
		return true
	}
	return false
}

// Location is the project address.
type Location struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// Price is either a single amount or a {min, max, currency} range. The JSON
// form mirrors whichever variant was supplied: a bare number for a single
// amount, an object for a range.
type Price struct {
	Amount   *float64 `json:"-"`
	Min      *float64 `json:"-"`
	Max      *float64 `json:"-"`
	Currency string   `json:"-"`
}

type priceRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Amount != nil {
		return json.Marshal(*p.Amount)
	}
	return json.Marshal(priceRange{Min: p.Min, Max: p.Max, Currency: p.Currency})
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var amount float64
	if err := json.Unmarshal(data, &amount); err == nil {
		p.Amount = &amount
		p.Min, p.Max, p.Currency = nil, nil, ""
		return nil
	}
	var r priceRange
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	p.Amount = nil
	p.Min, p.Max, p.Currency = r.Min, r.Max, r.Currency
	return nil
}

type Specifications struct {
	Floors      int    `json:"floors,omitempty"`
	Parking     int    `json:"parking,omitempty"`
	Elevators   int    `json:"elevators,omitempty"`
	BuiltUpArea string `json:"builtUpArea,omitempty"`
	CarpetArea  string `json:"carpetArea,omitempty"`
}

type TimelinePhase struct {
	Name      string `json:"name"`
	Status    string `json:"status"` // planned, in-progress, completed
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type Timeline struct {
	StartDate          string          `json:"startDate,omitempty"`
	ExpectedCompletion string          `json:"expectedCompletion,omitempty"`
	Phases             []TimelinePhase `json:"phases,omitempty"`
}

// Progress derives the completion percentage from the fraction of phases
// marked completed. Returns 0 when no phases exist.
func (t *Timeline) Progress() int {
	if t == nil || len(t.Phases) == 0 {
		return 0
	}
	completed := 0
	for _, phase := range t.Phases {
		if phase.Status == PhaseCompleted {
			completed++
		}
	}
	return int(float64(completed)/float64(len(t.Phases))*100 + 0.5)
}

type Developer struct {
	Name        string `json:"name,omitempty"`
	Established string `json:"established,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

type Amenity struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

type NearbyFacility struct {
	Name     string `json:"name"`
	Distance string `json:"distance,omitempty"`
}

type FloorPlan struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Area  string `json:"area,omitempty"`
	Beds  int    `json:"beds,omitempty"`
	Baths int    `json:"baths,omitempty"`
}

type PaymentPlan struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProjectContact is a per-project inquiry channel, shown instead of the
// site-wide contact details when set.
type ProjectContact struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// Project is the client-facing shape of a catalog entry. The storage shape
// is identical except the identifier lives under "_id"; see transform.go.
type Project struct {
	ID               string           `json:"id,omitempty"`
	Slug             string           `json:"slug,omitempty"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription,omitempty"`
	Status           string           `json:"status"`
	Category         string           `json:"category"`
	Type             string           `json:"type,omitempty"`
	Featured         bool             `json:"featured"`
	Location         Location         `json:"location"`
	Price            *Price           `json:"price,omitempty"`
	TotalUnits       int              `json:"totalUnits,omitempty"`
	AvailableUnits   int              `json:"availableUnits,omitempty"`
	Image            string           `json:"image"`
	Images           []string         `json:"images"`
	Gallery          []string         `json:"gallery,omitempty"`
	Brochure         string           `json:"brochure,omitempty"`
	FloorPlans       []FloorPlan      `json:"floorPlans,omitempty"`
	VirtualTour      string           `json:"virtualTour,omitempty"`
	Specifications   *Specifications  `json:"specifications,omitempty"`
	Timeline         *Timeline        `json:"timeline,omitempty"`
	Developer        *Developer       `json:"developer,omitempty"`
	Amenities        []Amenity        `json:"amenities"`
	NearbyFacilities []NearbyFacility `json:"nearbyFacilities,omitempty"`
	LegalApprovals   []string         `json:"legalApprovals,omitempty"`
	PaymentPlans     []PaymentPlan    `json:"paymentPlans,omitempty"`
	ContactInfo      *ProjectContact  `json:"contactInfo,omitempty"`
	Progress         int              `json:"progress"`
	CreatedAt        time.Time        `json:"createdAt,omitzero"`
	UpdatedAt        time.Time        `json:"updatedAt,omitzero"`
}

// EffectiveProgress returns the single source of truth for construction
// progress: derived from timeline phases when any exist, the stored scalar
// otherwise.
func (p *Project) EffectiveProgress() int {
	if p.Timeline != nil && len(p.Timeline.Phases) > 0 {
		return p.Timeline.Progress()
	}
	return p.Progress
}
