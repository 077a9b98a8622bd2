package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Divy2003/realstate/model"
)

func TestSettingsGetAndUpdate(t *testing.T) {
	router, _, cfg := testRouter(t)
	token := adminToken(t, cfg)

	t.Run("public get bootstraps defaults", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/settings", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var data struct {
			Settings model.SiteSettings `json:"settings"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.Settings.Company.Name != "Real Estate Company" {
			t.Errorf("Expected default company, got %q", data.Settings.Company.Name)
		}
	})

	t.Run("update requires auth", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/settings", "",
			map[string]any{"company": map[string]any{"name": "X"}})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("partial update merges", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/settings", token,
			map[string]any{"company": map[string]any{"name": "Horizon Estates"}})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var data struct {
			Settings model.SiteSettings `json:"settings"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.Settings.Company.Name != "Horizon Estates" {
			t.Errorf("Expected updated name, got %q", data.Settings.Company.Name)
		}
		if data.Settings.Company.Tagline != "Your Dream Home Awaits" {
			t.Errorf("Merge must keep sibling fields, got %q", data.Settings.Company.Tagline)
		}
	})
}
