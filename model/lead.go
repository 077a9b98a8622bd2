package model

import "time"

// Lead source constants
const (
	SourceContactForm      = "contact_form"
	SourceBrochureDownload = "brochure_download"
	SourcePhoneInquiry     = "phone_inquiry"
	SourceSiteVisit        = "site_visit"
)

// Lead status constants
const (
	LeadNew        = "new"
	LeadContacted  = "contacted"
	LeadInterested = "interested"
	LeadConverted  = "converted"
	LeadClosed     = "closed"
)

func ValidLeadSource(s string) bool {
	switch s {
	case SourceContactForm, SourceBrochureDownload, SourcePhoneInquiry, SourceSiteVisit:
		return true
	}
	return false
}

func ValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadInterested, LeadConverted, LeadClosed:
		return true
	}
	return false
}

// ContactEntry is one logged touch point with a lead.
type ContactEntry struct {
	Channel string    `json:"channel"` // phone, email, whatsapp, in-person
	At      time.Time `json:"at"`
	Notes   string    `json:"notes,omitempty"`
}

// Note is a free-text admin annotation on a lead.
type Note struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Lead is a prospective-customer inquiry. Created by a public form or a
// brochure download; mutated only through admin operations afterwards.
type Lead struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Message        string         `json:"message,omitempty"`
	Source         string         `json:"source"`
	ProjectID      string         `json:"projectId,omitempty"`
	ProjectTitle   string         `json:"projectTitle,omitempty"`
	Status         string         `json:"status"`
	Notes          []Note         `json:"notes"`
	FollowUpAt     *time.Time     `json:"followUpAt,omitempty"`
	ContactHistory []ContactEntry `json:"contactHistory"`
	CreatedAt      time.Time      `json:"createdAt,omitzero"`
	UpdatedAt      time.Time      `json:"updatedAt,omitzero"`
}
