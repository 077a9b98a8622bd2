package db

import (
	"context"
	"testing"
	"time"

	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
)

func TestCreateLead(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	created, err := database.CreateLead(ctx, testLead("asha@example.com"))
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected generated id")
	}
	if created.Status != model.LeadNew {
		t.Errorf("Expected status new, got %s", created.Status)
	}
	if created.Source != model.SourceContactForm {
		t.Errorf("Expected default source contact_form, got %s", created.Source)
	}
	if created.Notes == nil || created.ContactHistory == nil {
		t.Error("Expected empty collections, not nil")
	}
	if len(created.Notes) != 0 || len(created.ContactHistory) != 0 {
		t.Error("New lead must start with empty history")
	}
}

func TestCreateLeadRejectedNeverPersists(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	draft := testLead("broken")
	_, err := database.CreateLead(ctx, draft)
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	page, err := database.ListLeads(ctx, LeadFilter{}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Errorf("Rejected submission left %d record(s) behind", page.Total)
	}
}

func TestCreateLeadDenormalizesProjectTitle(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	project, err := database.CreateProject(ctx, testProject("Lakeside Villas", model.StatusUpcoming))
	if err != nil {
		t.Fatal(err)
	}

	draft := testLead("buyer@example.com")
	draft.ProjectID = project.ID
	created, err := database.CreateLead(ctx, draft)
	if err != nil {
		t.Fatal(err)
	}
	if created.ProjectTitle != "Lakeside Villas" {
		t.Errorf("Expected denormalized project title, got %q", created.ProjectTitle)
	}
}

func TestListLeadsFilters(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	for i, src := range []string{
		model.SourceContactForm,
		model.SourceBrochureDownload,
		model.SourceContactForm,
	} {
		draft := testLead(string(rune('a'+i)) + "@example.com")
		draft.Source = src
		if _, err := database.CreateLead(ctx, draft); err != nil {
			t.Fatal(err)
		}
	}

	page, err := database.ListLeads(ctx, LeadFilter{Source: model.SourceBrochureDownload}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("Expected 1 brochure lead, got %d", page.Total)
	}

	page, err = database.ListLeads(ctx, LeadFilter{Search: "b@example.com"}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("Expected 1 lead by email search, got %d", page.Total)
	}
}

func TestLeadPipelineOperations(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	created, err := database.CreateLead(ctx, testLead("pipeline@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("status transition", func(t *testing.T) {
		l, err := database.SetLeadStatus(ctx, created.ID, model.LeadContacted)
		if err != nil {
			t.Fatalf("SetLeadStatus: %v", err)
		}
		if l.Status != model.LeadContacted {
			t.Errorf("Expected contacted, got %s", l.Status)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := database.SetLeadStatus(ctx, created.ID, "archived")
		if !apperr.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("contact history appends in order", func(t *testing.T) {
		if _, err := database.AppendContact(ctx, created.ID, model.ContactEntry{Channel: "phone", Notes: "first call"}); err != nil {
			t.Fatal(err)
		}
		l, err := database.AppendContact(ctx, created.ID, model.ContactEntry{Channel: "email", Notes: "sent brochure"})
		if err != nil {
			t.Fatal(err)
		}
		if len(l.ContactHistory) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(l.ContactHistory))
		}
		if l.ContactHistory[0].Channel != "phone" || l.ContactHistory[1].Channel != "email" {
			t.Errorf("History out of order: %+v", l.ContactHistory)
		}
		if l.ContactHistory[0].At.IsZero() {
			t.Error("Expected timestamp filled in")
		}
	})

	t.Run("notes append", func(t *testing.T) {
		l, err := database.AppendNote(ctx, created.ID, "prefers weekend site visits")
		if err != nil {
			t.Fatal(err)
		}
		if len(l.Notes) != 1 || l.Notes[0].Text != "prefers weekend site visits" {
			t.Errorf("Unexpected notes: %+v", l.Notes)
		}

		if _, err := database.AppendNote(ctx, created.ID, "  "); !apperr.IsValidation(err) {
			t.Errorf("Expected validation error for blank note, got %v", err)
		}
	})

	t.Run("follow-up set and clear", func(t *testing.T) {
		when := time.Now().UTC().Add(48 * time.Hour)
		l, err := database.ScheduleFollowUp(ctx, created.ID, &when)
		if err != nil {
			t.Fatal(err)
		}
		if l.FollowUpAt == nil {
			t.Fatal("Expected follow-up set")
		}
		l, err = database.ScheduleFollowUp(ctx, created.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		if l.FollowUpAt != nil {
			t.Error("Expected follow-up cleared")
		}
	})

	t.Run("update cannot rewrite history", func(t *testing.T) {
		l, err := database.UpdateLead(ctx, created.ID, map[string]any{
			"message":        "updated message",
			"notes":          []any{},
			"contactHistory": []any{},
		})
		if err != nil {
			t.Fatal(err)
		}
		if l.Message != "updated message" {
			t.Errorf("Expected message updated, got %q", l.Message)
		}
		if len(l.ContactHistory) != 2 || len(l.Notes) != 1 {
			t.Errorf("Append-only fields were rewritten: history=%d notes=%d",
				len(l.ContactHistory), len(l.Notes))
		}
	})
}

func TestDeleteLead(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	created, err := database.CreateLead(ctx, testLead("gone@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if err := database.DeleteLead(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := database.GetLead(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("Expected lead gone, got %v", err)
	}
	if err := database.DeleteLead(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found on second delete, got %v", err)
	}
}

func TestLeadStatsOverview(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	for _, src := range []string{
		model.SourceContactForm,
		model.SourceContactForm,
		model.SourceBrochureDownload,
	} {
		draft := testLead(src + "@example.com")
		draft.Source = src
		if _, err := database.CreateLead(ctx, draft); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := database.LeadStatsOverview(ctx, LeadFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 {
		t.Errorf("Expected 3 leads, got %d", stats.Total)
	}
	if stats.ByStatus[model.LeadNew] != 3 {
		t.Errorf("Expected 3 new, got %v", stats.ByStatus)
	}
	if stats.BySource[model.SourceContactForm] != 2 || stats.BySource[model.SourceBrochureDownload] != 1 {
		t.Errorf("Unexpected source counts: %v", stats.BySource)
	}
}
