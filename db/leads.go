package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
)

// LeadFilter narrows an admin lead listing.
type LeadFilter struct {
	Status    string
	Source    string
	ProjectID string
	Search    string // name, email, phone
}

// LeadPage is one page of a filtered lead listing.
type LeadPage struct {
	Items     []model.Lead `json:"leads"`
	Page      int          `json:"page"`
	Limit     int          `json:"limit"`
	Total     int          `json:"total"`
	PageCount int          `json:"pages"`
}

// LeadStats aggregates lead counts for the admin dashboard.
type LeadStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	BySource map[string]int `json:"bySource"`
}

func leadFromDoc(id, doc string) (model.Lead, error) {
	var l model.Lead
	if err := json.Unmarshal([]byte(doc), &l); err != nil {
		return model.Lead{}, fmt.Errorf("decode lead document: %w", err)
	}
	l.ID = id
	if l.Notes == nil {
		l.Notes = []model.Note{}
	}
	if l.ContactHistory == nil {
		l.ContactHistory = []model.ContactEntry{}
	}
	return l, nil
}

func (db *DB) saveLead(ctx context.Context, l *model.Lead) error {
	l.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lead document: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		UPDATE leads SET status = ?, source = ?, project_id = ?, email = ?, doc = ?, updated_at = ?
		WHERE id = ?
	`, l.Status, l.Source, l.ProjectID, l.Email, string(raw), l.UpdatedAt, l.ID)
	if err != nil {
		return fmt.Errorf("save lead: %w", err)
	}
	return nil
}

// CreateLead validates and persists an inbound lead. Validation runs first,
// so a rejected submission never persists a partial record. New leads start
// in status new with empty notes and contact history.
func (db *DB) CreateLead(ctx context.Context, draft model.Lead) (*model.Lead, error) {
	if draft.Source == "" {
		draft.Source = model.SourceContactForm
	}
	if err := model.ValidateLead(&draft); err != nil {
		return nil, err
	}

	draft.ID = uuid.New().String()
	draft.Status = model.LeadNew
	draft.Notes = []model.Note{}
	draft.ContactHistory = []model.ContactEntry{}
	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	// Denormalize the project title so the admin list needs no join
	if draft.ProjectID != "" && draft.ProjectTitle == "" {
		if p, err := db.GetProject(ctx, draft.ProjectID); err == nil {
			draft.ProjectTitle = p.Title
		}
	}

	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode lead document: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO leads (id, status, source, project_id, email, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, draft.ID, draft.Status, draft.Source, draft.ProjectID, draft.Email, string(raw), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return &draft, nil
}

// ListLeads returns one page of leads matching the filter, newest first.
func (db *DB) ListLeads(ctx context.Context, f LeadFilter, page, limit int) (*LeadPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var clauses []string
	var args []any
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, f.Source)
	}
	if f.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		clauses = append(clauses,
			"(json_extract(doc, '$.name') LIKE ? OR email LIKE ? OR json_extract(doc, '$.phone') LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, doc FROM leads"+where+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := []model.Lead{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		l, err := leadFromDoc(id, doc)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pageCount := (total + limit - 1) / limit
	return &LeadPage{Items: items, Page: page, Limit: limit, Total: total, PageCount: pageCount}, nil
}

// GetLead returns a lead by identifier.
func (db *DB) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	var doc string
	err := db.QueryRowContext(ctx, "SELECT doc FROM leads WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("lead")
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	l, err := leadFromDoc(id, doc)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLead merges admin-editable fields into the lead.
func (db *DB) UpdateLead(ctx context.Context, id string, patch map[string]any) (*model.Lead, error) {
	l, err := db.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range patch {
		switch k {
		case "id", "createdAt", "notes", "contactHistory":
			// immutable or append-only fields
		default:
			merged[k] = v
		}
	}
	mergedRaw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var updated model.Lead
	if err := json.Unmarshal(mergedRaw, &updated); err != nil {
		return nil, fmt.Errorf("decode merged lead: %w", err)
	}
	updated.ID = id
	if err := model.ValidateLead(&updated); err != nil {
		return nil, err
	}
	if updated.Status != "" && !model.ValidLeadStatus(updated.Status) {
		return nil, apperr.Validation("lead validation failed",
			map[string]string{"status": "unknown lead status"})
	}

	if err := db.saveLead(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetLeadStatus moves a lead to a new pipeline status.
func (db *DB) SetLeadStatus(ctx context.Context, id, status string) (*model.Lead, error) {
	if !model.ValidLeadStatus(status) {
		return nil, apperr.Validation("lead validation failed",
			map[string]string{"status": "unknown lead status"})
	}
	l, err := db.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Status = status
	if err := db.saveLead(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AppendContact appends one entry to the lead's contact-history log.
func (db *DB) AppendContact(ctx context.Context, id string, entry model.ContactEntry) (*model.Lead, error) {
	l, err := db.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	l.ContactHistory = append(l.ContactHistory, entry)
	if err := db.saveLead(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AppendNote appends a free-text note to the lead.
func (db *DB) AppendNote(ctx context.Context, id, text string) (*model.Lead, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("lead validation failed",
			map[string]string{"note": "note text is required"})
	}
	l, err := db.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Notes = append(l.Notes, model.Note{Text: text, At: time.Now().UTC()})
	if err := db.saveLead(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ScheduleFollowUp sets (or clears) the follow-up timestamp.
func (db *DB) ScheduleFollowUp(ctx context.Context, id string, when *time.Time) (*model.Lead, error) {
	l, err := db.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	l.FollowUpAt = when
	if err := db.saveLead(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLead removes a lead.
func (db *DB) DeleteLead(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM leads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("lead")
	}
	return nil
}

// LeadStatsOverview returns counts grouped by pipeline status and source.
func (db *DB) LeadStatsOverview(ctx context.Context, f LeadFilter) (*LeadStats, error) {
	stats := &LeadStats{ByStatus: map[string]int{}, BySource: map[string]int{}}

	where := ""
	var args []any
	if f.ProjectID != "" {
		where = " WHERE project_id = ?"
		args = append(args, f.ProjectID)
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM leads"+where+" GROUP BY status", args...)
	if err != nil {
		return nil, fmt.Errorf("lead stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srcRows, err := db.QueryContext(ctx, "SELECT source, COUNT(*) FROM leads"+where+" GROUP BY source", args...)
	if err != nil {
		return nil, fmt.Errorf("lead stats by source: %w", err)
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var source string
		var n int
		if err := srcRows.Scan(&source, &n); err != nil {
			return nil, err
		}
		stats.BySource[source] = n
	}
	return stats, srcRows.Err()
}

// ExportLeads returns every lead matching the filter, oldest first, for
// serialization by the export service.
func (db *DB) ExportLeads(ctx context.Context, f LeadFilter) ([]model.Lead, error) {
	page, err := db.ListLeads(ctx, f, 1, 1<<30)
	if err != nil {
		return nil, err
	}
	// ListLeads sorts newest first; exports read naturally oldest first
	items := page.Items
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}
