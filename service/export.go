package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Divy2003/realstate/model"
)

var leadExportHeader = []string{
	"ID", "Name", "Email", "Phone", "Source", "Status",
	"Project", "Message", "Follow Up", "Contacts Logged", "Created At",
}

func leadExportRow(l model.Lead) []string {
	followUp := ""
	if l.FollowUpAt != nil {
		followUp = l.FollowUpAt.Format(time.RFC3339)
	}
	return []string{
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Source,
		l.Status,
		l.ProjectTitle,
		l.Message,
		followUp,
		fmt.Sprintf("%d", len(l.ContactHistory)),
		l.CreatedAt.Format(time.RFC3339),
	}
}

// ExportLeadsCSV writes the leads as CSV rows with a header line.
func ExportLeadsCSV(w io.Writer, leads []model.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leadExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range leads {
		if err := cw.Write(leadExportRow(l)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportLeadsXLSX writes the leads as a single-sheet xlsx workbook.
func ExportLeadsXLSX(w io.Writer, leads []model.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range leadExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for i, l := range leads {
		for col, value := range leadExportRow(l) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// ExportContentType returns the MIME type and file name for the format.
func ExportContentType(format string) (contentType, filename string) {
	stamp := time.Now().Format("2006-01-02")
	if strings.EqualFold(format, "xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"leads-" + stamp + ".xlsx"
	}
	return "text/csv", "leads-" + stamp + ".csv"
}
