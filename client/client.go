// Package client is the Go consumer of the catalog API: a typed REST client
// plus a status-partitioned project cache that front-end views render from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
)

// Client talks to the catalog REST API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used for admin calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ListOptions narrows a project listing.
type ListOptions struct {
	Status   string
	Category string
	Search   string
	Featured *bool
	SortBy   string
	SortDir  string
	Page     int
	Limit    int
}

// ProjectList is one page of catalog results.
type ProjectList struct {
	Projects   []model.Project `json:"projects"`
	Pagination Pagination      `json:"pagination"`
}

// Pagination mirrors the server's page metadata.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &apperr.Error{Kind: kindForStatus(resp.StatusCode), Message: msg, Fields: env.Errors}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation
	case http.StatusUnauthorized:
		return apperr.KindAuth
	case http.StatusForbidden:
		return apperr.KindForbidden
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindConflict
	default:
		return apperr.KindInternal
	}
}

// ListProjects fetches one page of the catalog.
func (c *Client) ListProjects(ctx context.Context, opts ListOptions) (*ProjectList, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Featured != nil {
		q.Set("featured", strconv.FormatBool(*opts.Featured))
	}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.SortDir != "" {
		q.Set("sortOrder", opts.SortDir)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/projects"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list ProjectList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProject resolves a single project by id or slug.
func (c *Client) GetProject(ctx context.Context, idOrSlug string) (*model.Project, error) {
	var data struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(idOrSlug), nil, &data); err != nil {
		return nil, err
	}
	return &data.Project, nil
}

// CreateProject submits a new project draft (admin).
func (c *Client) CreateProject(ctx context.Context, draft model.Project) (*model.Project, error) {
	var data struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/projects", draft, &data); err != nil {
		return nil, err
	}
	return &data.Project, nil
}

// UpdateProject merges a partial draft into a project (admin).
func (c *Client) UpdateProject(ctx context.Context, id string, partial map[string]any) (*model.Project, error) {
	var data struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), partial, &data); err != nil {
		return nil, err
	}
	return &data.Project, nil
}

// DeleteProject removes a project (admin).
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

// ToggleFeatured flips a project's featured flag (admin).
func (c *Client) ToggleFeatured(ctx context.Context, id string) (*model.Project, error) {
	var data struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/projects/"+url.PathEscape(id)+"/featured", nil, &data); err != nil {
		return nil, err
	}
	return &data.Project, nil
}

// ProjectStats mirrors the server's aggregate counts.
type ProjectStats struct {
	Total      int            `json:"total"`
	Featured   int            `json:"featured"`
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
}

// FetchProjectStats fetches the admin stats overview.
func (c *Client) FetchProjectStats(ctx context.Context) (*ProjectStats, error) {
	var data struct {
		Stats ProjectStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects/admin/stats/overview", nil, &data); err != nil {
		return nil, err
	}
	return &data.Stats, nil
}

// SubmitLead sends a public contact-form lead.
func (c *Client) SubmitLead(ctx context.Context, draft model.Lead) (*model.Lead, error) {
	var data struct {
		Lead model.Lead `json:"lead"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/leads", draft, &data); err != nil {
		return nil, err
	}
	return &data.Lead, nil
}

// DownloadBrochure captures a brochure-download lead and returns the brochure
// URL when the project has one configured.
func (c *Client) DownloadBrochure(ctx context.Context, draft model.Lead) (*model.Lead, string, error) {
	var data struct {
		Lead     model.Lead `json:"lead"`
		Brochure string     `json:"brochure"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/leads/brochure-download", draft, &data); err != nil {
		return nil, "", err
	}
	return &data.Lead, data.Brochure, nil
}

// GetSettings fetches the public settings document.
func (c *Client) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	var data struct {
		Settings model.SiteSettings `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &data); err != nil {
		return nil, err
	}
	return &data.Settings, nil
}

// Login authenticates and installs the returned access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var data struct {
		User         model.User `json:"user"`
		Token        string     `json:"token"`
		RefreshToken string     `json:"refreshToken"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &data); err != nil {
		return nil, err
	}
	c.token = data.Token
	return &data.User, nil
}
