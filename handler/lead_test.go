package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/Divy2003/realstate/model"
)

func leadPayload(email string) map[string]any {
	return map[string]any{
		"name":    "Asha Rao",
		"email":   email,
		"phone":   "9876543210",
		"message": "Interested in a 2BHK",
	}
}

func TestLeadSubmit(t *testing.T) {
	router, _, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/leads", "", leadPayload("asha@example.com"))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var data struct {
		Lead model.Lead `json:"lead"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Lead.Status != model.LeadNew {
		t.Errorf("Expected status new, got %s", data.Lead.Status)
	}
	if data.Lead.Source != model.SourceContactForm {
		t.Errorf("Expected default source, got %s", data.Lead.Source)
	}
}

func TestLeadSubmitMissingEmail(t *testing.T) {
	router, _, _ := testRouter(t)

	payload := leadPayload("asha@example.com")
	delete(payload, "email")

	w := doJSON(t, router, http.MethodPost, "/api/leads", "", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("Expected success:false")
	}
	if env.Errors["email"] == "" {
		t.Errorf("Expected email named in errors, got %v", env.Errors)
	}
}

func TestBrochureDownload(t *testing.T) {
	router, _, cfg := testRouter(t)
	token := adminToken(t, cfg)

	w := doJSON(t, router, http.MethodPost, "/api/projects", token, projectPayload("Brochure Project"))
	if w.Code != http.StatusCreated {
		t.Fatal(w.Body.String())
	}
	var created struct {
		Project model.Project `json:"project"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &created); err != nil {
		t.Fatal(err)
	}

	// Attach a brochure through the regular update path
	w = doJSON(t, router, http.MethodPut, "/api/projects/"+created.Project.ID, token,
		map[string]any{"brochure": "/uploads/brochures/bp.pdf"})
	if w.Code != http.StatusOK {
		t.Fatal(w.Body.String())
	}

	t.Run("captures lead and returns brochure url", func(t *testing.T) {
		payload := leadPayload("download@example.com")
		payload["projectId"] = created.Project.ID

		w := doJSON(t, router, http.MethodPost, "/api/leads/brochure-download", "", payload)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var data struct {
			Lead     model.Lead `json:"lead"`
			Brochure string     `json:"brochure"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.Lead.Source != model.SourceBrochureDownload {
			t.Errorf("Expected forced brochure source, got %s", data.Lead.Source)
		}
		if data.Brochure != "/uploads/brochures/bp.pdf" {
			t.Errorf("Expected brochure url, got %q", data.Brochure)
		}
	})

	t.Run("requires projectId", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/leads/brochure-download", "", leadPayload("x@example.com"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown project is 404", func(t *testing.T) {
		payload := leadPayload("y@example.com")
		payload["projectId"] = "missing"
		w := doJSON(t, router, http.MethodPost, "/api/leads/brochure-download", "", payload)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestLeadAdminPipeline(t *testing.T) {
	router, _, cfg := testRouter(t)
	token := adminToken(t, cfg)

	w := doJSON(t, router, http.MethodPost, "/api/leads", "", leadPayload("pipeline@example.com"))
	if w.Code != http.StatusCreated {
		t.Fatal(w.Body.String())
	}
	var created struct {
		Lead model.Lead `json:"lead"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &created); err != nil {
		t.Fatal(err)
	}
	id := created.Lead.ID

	t.Run("list requires auth", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/leads", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("status transition", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/api/leads/"+id+"/status", token,
			map[string]any{"status": model.LeadContacted})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPatch, "/api/leads/"+id+"/status", token,
			map[string]any{"status": "archived"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for unknown status, got %d", w.Code)
		}
	})

	t.Run("stats", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/leads/stats", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var data struct {
			Stats struct {
				Total    int            `json:"total"`
				ByStatus map[string]int `json:"byStatus"`
			} `json:"stats"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.Stats.Total != 1 {
			t.Errorf("Expected 1 lead, got %d", data.Stats.Total)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/leads/"+id, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		w = doJSON(t, router, http.MethodGet, "/api/leads/"+id, token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", w.Code)
		}
	})
}

func TestLeadExportCSV(t *testing.T) {
	router, _, cfg := testRouter(t)
	token := adminToken(t, cfg)

	for _, email := range []string{"one@example.com", "two@example.com"} {
		if w := doJSON(t, router, http.MethodPost, "/api/leads", "", leadPayload(email)); w.Code != http.StatusCreated {
			t.Fatal(w.Body.String())
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/leads/export", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Expected csv content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Expected attachment disposition, got %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Email") {
		t.Errorf("Expected header row, got %q", lines[0])
	}
}
