package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Divy2003/realstate/model"
)

func exportLeads() []model.Lead {
	followUp := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	return []model.Lead{
		{
			ID:           "l1",
			Name:         "Asha Rao",
			Email:        "asha@example.com",
			Phone:        "9876543210",
			Source:       model.SourceContactForm,
			Status:       model.LeadNew,
			ProjectTitle: "Skyline Towers",
			Message:      "Interested in a 2BHK",
			CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:         "l2",
			Name:       "Vik Shah",
			Email:      "vik@example.com",
			Phone:      "9123456780",
			Source:     model.SourceBrochureDownload,
			Status:     model.LeadContacted,
			FollowUpAt: &followUp,
			ContactHistory: []model.ContactEntry{
				{Channel: "phone", At: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)},
			},
			CreatedAt: time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportLeadsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportLeadsCSV(&buf, exportLeads()); err != nil {
		t.Fatalf("ExportLeadsCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[0][2] != "Email" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][1] != "Asha Rao" || records[1][6] != "Skyline Towers" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
	if records[2][9] != "1" {
		t.Errorf("Expected 1 contact logged, got %q", records[2][9])
	}
	if records[2][8] != "2026-09-15T10:00:00Z" {
		t.Errorf("Unexpected follow-up format: %q", records[2][8])
	}
}

func TestExportLeadsXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportLeadsXLSX(&buf, exportLeads()); err != nil {
		t.Fatalf("ExportLeadsXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Leads")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][2] != "asha@example.com" {
		t.Errorf("Unexpected sheet contents: %v", rows[:2])
	}
}

func TestExportContentType(t *testing.T) {
	ct, name := ExportContentType("csv")
	if ct != "text/csv" || !strings.HasSuffix(name, ".csv") {
		t.Errorf("Unexpected csv type: %s %s", ct, name)
	}
	ct, name = ExportContentType("xlsx")
	if !strings.Contains(ct, "spreadsheet") || !strings.HasSuffix(name, ".xlsx") {
		t.Errorf("Unexpected xlsx type: %s %s", ct, name)
	}
	// Unknown formats fall back to csv
	ct, _ = ExportContentType("pdf")
	if ct != "text/csv" {
		t.Errorf("Expected fallback to csv, got %s", ct)
	}
}
