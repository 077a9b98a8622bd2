package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Divy2003/realstate/config"
	"github.com/Divy2003/realstate/db"
	"github.com/Divy2003/realstate/middleware"
	"github.com/Divy2003/realstate/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "development"},
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			TokenExpireHours:   1,
			RefreshExpireHours: 24,
		},
	}
}

// testRouter wires the handlers onto the same route tree main uses, backed by
// a per-test database.
func testRouter(t *testing.T) (*gin.Engine, *db.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	config.GlobalConfig = cfg

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	projects := NewProjectHandler(database)
	leads := NewLeadHandler(database)
	settings := NewSettingsHandler(database)
	auth := NewAuthHandler(database, cfg)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/auth/login", auth.Login)
		api.POST("/auth/refresh", auth.Refresh)
		api.GET("/projects", projects.List)
		api.GET("/projects/:idOrSlug", projects.Get)
		api.POST("/leads", leads.Submit)
		api.POST("/leads/brochure-download", leads.BrochureDownload)
		api.GET("/settings", settings.Get)
	}

	admin := api.Group("")
	admin.Use(middleware.Auth(&cfg.Auth), middleware.RequireAdmin())
	{
		admin.POST("/projects", projects.Create)
		admin.PUT("/projects/:id", projects.Update)
		admin.DELETE("/projects/:id", projects.Delete)
		admin.PATCH("/projects/:id/featured", projects.ToggleFeatured)
		admin.GET("/projects/admin/stats/overview", projects.Stats)
		admin.GET("/leads", leads.List)
		admin.GET("/leads/stats", leads.Stats)
		admin.GET("/leads/export", leads.Export)
		admin.GET("/leads/:id", leads.Get)
		admin.PATCH("/leads/:id/status", leads.SetStatus)
		admin.DELETE("/leads/:id", leads.Delete)
		admin.PUT("/settings", settings.Update)
	}

	return router, database, cfg
}

func adminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, _, err := middleware.GenerateToken("admin-1", "admin@example.com", model.RoleAdmin, &cfg.Auth)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func editorToken(cfg *config.Config) (string, error) {
	token, _, err := middleware.GenerateToken("editor-1", "editor@example.com", model.RoleEditor, &cfg.Auth)
	return token, err
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type testEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func projectPayload(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "Test description",
		"status":      model.StatusUpcoming,
		"category":    model.CategoryResidential,
		"location":    map[string]any{"city": "Pune"},
		"image":       "cover.jpg",
	}
}
