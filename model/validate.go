package model

import (
	"regexp"
	"strings"

	"github.com/Divy2003/realstate/pkg/apperr"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateProject checks a fully-merged project document before it is
// persisted. Returns a validation error with field-level messages, or nil.
func ValidateProject(p *Project) error {
	fields := map[string]string{}

	if strings.TrimSpace(p.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(p.Location.City) == "" && strings.TrimSpace(p.Location.Street) == "" {
		fields["location"] = "location is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(p.Image) == "" {
		fields["image"] = "hero image is required"
	}
	if !ValidStatus(p.Status) {
		fields["status"] = "status must be one of upcoming, ongoing, completed"
	}
	if !ValidCategory(p.Category) {
		fields["category"] = "category must be one of residential, commercial, mixed"
	}
	if p.Progress < 0 || p.Progress > 100 {
		fields["progress"] = "progress must be between 0 and 100"
	}
	if p.Price != nil && p.Price.Min != nil && p.Price.Max != nil && *p.Price.Min > *p.Price.Max {
		fields["price"] = "price minimum cannot exceed maximum"
	}
	if p.AvailableUnits > p.TotalUnits && p.TotalUnits > 0 {
		fields["availableUnits"] = "available units cannot exceed total units"
	}
	if p.Timeline != nil {
		for _, phase := range p.Timeline.Phases {
			switch phase.Status {
			case PhasePlanned, PhaseInProgress, PhaseCompleted:
			default:
				fields["timeline"] = "phase status must be one of planned, in-progress, completed"
			}
		}
	}

	if len(fields) > 0 {
		return apperr.Validation("project validation failed", fields)
	}
	return nil
}

// ValidateLead checks an inbound lead submission. Validation runs before any
// write so a malformed submission never leaves a partial record behind.
func ValidateLead(l *Lead) error {
	fields := map[string]string{}

	if strings.TrimSpace(l.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(l.Email) == "" {
		fields["email"] = "email is required"
	} else if !emailRe.MatchString(l.Email) {
		fields["email"] = "email format is invalid"
	}
	if strings.TrimSpace(l.Phone) == "" {
		fields["phone"] = "phone is required"
	} else if !validPhone(l.Phone) {
		fields["phone"] = "phone must contain 7 to 15 digits"
	}
	if l.Source != "" && !ValidLeadSource(l.Source) {
		fields["source"] = "unknown lead source"
	}

	if len(fields) > 0 {
		return apperr.Validation("lead validation failed", fields)
	}
	return nil
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
