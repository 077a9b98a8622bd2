package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
)

func TestClientListProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "ongoing" {
			t.Errorf("Expected status query ongoing, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("Expected limit 2, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"projects": []map[string]any{
					{"id": "p1", "title": "One", "status": "ongoing"},
					{"id": "p2", "title": "Two", "status": "ongoing"},
				},
				"pagination": map[string]any{"page": 1, "limit": 2, "total": 5, "pages": 3},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	list, err := c.ListProjects(context.Background(), ListOptions{Status: "ongoing", Limit: 2})
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(list.Projects) != 2 || list.Projects[0].ID != "p1" {
		t.Errorf("Unexpected projects: %+v", list.Projects)
	}
	if list.Pagination.Total != 5 || list.Pagination.Pages != 3 {
		t.Errorf("Unexpected pagination: %+v", list.Pagination)
	}
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]any
		expected apperr.Kind
	}{
		{
			name:   "validation with field errors",
			status: http.StatusBadRequest,
			body: map[string]any{
				"success": false,
				"message": "lead validation failed",
				"errors":  map[string]string{"email": "email is required"},
			},
			expected: apperr.KindValidation,
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     map[string]any{"success": false, "message": "project not found"},
			expected: apperr.KindNotFound,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     map[string]any{"success": false, "message": "invalid token"},
			expected: apperr.KindAuth,
		},
		{
			name:     "conflict",
			status:   http.StatusConflict,
			body:     map[string]any{"success": false, "message": "slug already exists"},
			expected: apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			c := New(server.URL)
			_, err := c.GetProject(context.Background(), "whatever")
			if err == nil {
				t.Fatal("Expected error")
			}
			if !apperr.IsKind(err, tt.expected) {
				t.Errorf("Expected kind %v, got %v", tt.expected, err)
			}
			if tt.expected == apperr.KindValidation {
				var appErr *apperr.Error
				if !errors.As(err, &appErr) || appErr.Fields["email"] == "" {
					t.Errorf("Expected field errors carried over, got %v", err)
				}
			}
		})
	}
}

func TestClientAuthToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"user":  map[string]any{"id": "u1", "email": "admin@example.com", "role": model.RoleAdmin},
					"token": "access-token-123",
				},
			})
		case "/api/projects":
			if got := r.Header.Get("Authorization"); got != "Bearer access-token-123" {
				t.Errorf("Expected bearer token after login, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"projects": []any{}, "pagination": map[string]any{}},
			})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	user, err := c.Login(context.Background(), "admin@example.com", "pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Unexpected user: %+v", user)
	}
	if _, err := c.ListProjects(context.Background(), ListOptions{}); err != nil {
		t.Fatal(err)
	}
}

func TestCacheOverHTTP(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"projects": []map[string]any{
					{"id": "p1", "title": "One", "status": "completed"},
				},
				"pagination": map[string]any{"page": 1, "limit": 20, "total": 1, "pages": 1},
			},
		})
	}))
	defer server.Close()

	cache := NewCache(New(server.URL))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		items, err := cache.RequestBucket(ctx, BucketCompleted, 0, 0, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 {
			t.Fatalf("Expected 1 project, got %d", len(items))
		}
	}
	if calls != 1 {
		t.Errorf("Expected a single HTTP request across repeated views, got %d", calls)
	}
}
