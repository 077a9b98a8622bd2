package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
)

// ProjectFilter narrows a catalog listing. Zero values mean "no constraint".
type ProjectFilter struct {
	Status   string
	Category string
	Type     string
	Location string // substring match against the address
	Search   string // free text over title, description, location
	Featured *bool  // tri-state: nil means both
	SortBy   string
	SortDir  string
}

// ProjectPage is one page of a filtered listing.
type ProjectPage struct {
	Items     []model.Project `json:"projects"`
	Page      int             `json:"page"`
	Limit     int             `json:"limit"`
	Total     int             `json:"total"`
	PageCount int             `json:"pages"`
}

// ProjectStats aggregates catalog counts for the admin dashboard.
type ProjectStats struct {
	Total      int            `json:"total"`
	Featured   int            `json:"featured"`
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
}

// sort fields exposed to clients, mapped to their SQL expression
var projectSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "json_extract(doc, '$.title')",
	"status":    "status",
}

func (db *DB) rowToProject(id string, doc string) (model.Project, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return model.Project{}, fmt.Errorf("decode project document: %w", err)
	}
	m["_id"] = id
	return model.ToClient(m)
}

func projectWhere(f ProjectFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, model.NormalizeStatus(f.Status))
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Type != "" {
		clauses = append(clauses, "json_extract(doc, '$.type') = ?")
		args = append(args, f.Type)
	}
	if f.Featured != nil {
		clauses = append(clauses, "featured = ?")
		if *f.Featured {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	if f.Location != "" {
		clauses = append(clauses, "json_extract(doc, '$.location') LIKE ?")
		args = append(args, "%"+f.Location+"%")
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		clauses = append(clauses,
			"(json_extract(doc, '$.title') LIKE ? OR json_extract(doc, '$.description') LIKE ? OR json_extract(doc, '$.location') LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListProjects returns one page of projects matching the filter. Total is the
// count of all matching rows, not just the returned page.
func (db *DB) ListProjects(ctx context.Context, f ProjectFilter, page, limit int) (*ProjectPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where, args := projectWhere(f)

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	order, ok := projectSortColumns[f.SortBy]
	if !ok {
		order = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortDir, "asc") {
		dir = "ASC"
	}

	query := fmt.Sprintf("SELECT id, doc FROM projects%s ORDER BY %s %s LIMIT ? OFFSET ?", where, order, dir)
	rows, err := db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := []model.Project{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		p, err := db.rowToProject(id, doc)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pageCount := (total + limit - 1) / limit
	return &ProjectPage{Items: items, Page: page, Limit: limit, Total: total, PageCount: pageCount}, nil
}

// GetProject resolves a project by its identifier or its slug.
func (db *DB) GetProject(ctx context.Context, idOrSlug string) (*model.Project, error) {
	var id, doc string
	err := db.QueryRowContext(ctx,
		"SELECT id, doc FROM projects WHERE id = ? OR slug = ?", idOrSlug, idOrSlug,
	).Scan(&id, &doc)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	p, err := db.rowToProject(id, doc)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject validates and persists a new project. Status defaults to
// upcoming, the slug is derived from the title when absent.
func (db *DB) CreateProject(ctx context.Context, draft model.Project) (*model.Project, error) {
	if draft.Status == "" {
		draft.Status = model.StatusUpcoming
	}
	draft.Status = model.NormalizeStatus(draft.Status)
	if err := model.ValidateProject(&draft); err != nil {
		return nil, err
	}
	if draft.Slug == "" {
		draft.Slug = Slugify(draft.Title)
	}

	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	id := uuid.New().String()

	doc, err := model.ToStorage(draft)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode project document: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO projects (id, slug, status, category, featured, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, draft.Slug, draft.Status, draft.Category, boolToInt(draft.Featured), string(raw), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("slug already exists")
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}

	draft.ID = id
	return &draft, nil
}

// UpdateProject merges the partial document into the stored one and persists
// the result. The identifier is immutable; attempts to change it are dropped.
func (db *DB) UpdateProject(ctx context.Context, id string, partial map[string]any) (*model.Project, error) {
	var doc string
	err := db.QueryRowContext(ctx, "SELECT doc FROM projects WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	var merged map[string]any
	if err := json.Unmarshal([]byte(doc), &merged); err != nil {
		return nil, fmt.Errorf("decode project document: %w", err)
	}
	for k, v := range partial {
		if k == "id" || k == "_id" || k == "createdAt" {
			continue
		}
		merged[k] = v
	}
	if s, ok := merged["status"].(string); ok {
		merged["status"] = model.NormalizeStatus(s)
	}

	merged["_id"] = id
	updated, err := model.ToClient(merged)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()
	if err := model.ValidateProject(&updated); err != nil {
		return nil, err
	}

	stored, err := model.ToStorage(updated)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode project document: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		UPDATE projects SET slug = ?, status = ?, category = ?, featured = ?, doc = ?, updated_at = ?
		WHERE id = ?
	`, updated.Slug, updated.Status, updated.Category, boolToInt(updated.Featured), string(raw), updated.UpdatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("slug already exists")
		}
		return nil, fmt.Errorf("update project: %w", err)
	}

	updated.ID = id
	return &updated, nil
}

// DeleteProject removes a project.
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("project")
	}
	return nil
}

// ToggleFeatured flips the featured flag. The read and write run in one
// transaction, so concurrent toggles resolve last-write-wins on a consistent
// document.
func (db *DB) ToggleFeatured(ctx context.Context, id string) (*model.Project, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	var doc string
	err = tx.QueryRowContext(ctx, "SELECT doc FROM projects WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("decode project document: %w", err)
	}
	featured, _ := m["featured"].(bool)
	m["featured"] = !featured
	now := time.Now().UTC()
	m["updatedAt"] = now.Format(time.RFC3339Nano)

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode project document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE projects SET featured = ?, doc = ?, updated_at = ? WHERE id = ?",
		boolToInt(!featured), string(raw), now, id,
	); err != nil {
		return nil, fmt.Errorf("toggle featured: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit toggle: %w", err)
	}

	m["_id"] = id
	p, err := model.ToClient(m)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProjectStatsOverview returns aggregate counts by status and category.
func (db *DB) ProjectStatsOverview(ctx context.Context) (*ProjectStats, error) {
	stats := &ProjectStats{
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE featured = 1").Scan(&stats.Featured); err != nil {
		return nil, fmt.Errorf("count featured: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM projects GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
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

	catRows, err := db.QueryContext(ctx, "SELECT category, COUNT(*) FROM projects GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("stats by category: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var n int
		if err := catRows.Scan(&category, &n); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = n
	}
	return stats, catRows.Err()
}

// Slugify derives a URL-safe slug from a title.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
