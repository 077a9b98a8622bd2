package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Divy2003/realstate/db"
	"github.com/Divy2003/realstate/pkg/logger"
)

type SettingsHandler struct {
	db *db.DB
}

func NewSettingsHandler(database *db.DB) *SettingsHandler {
	return &SettingsHandler{db: database}
}

// Get returns the public subset of the settings singleton.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.db.GetSettings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"settings": settings})
}

// GetAdmin returns the full settings document.
func (h *SettingsHandler) GetAdmin(c *gin.Context) {
	settings, err := h.db.GetSettings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"settings": settings})
}

// Update deep-merges a partial document into the singleton.
func (h *SettingsHandler) Update(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		badRequest(c, "Invalid settings payload")
		return
	}

	settings, err := h.db.UpdateSettings(c.Request.Context(), partial)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "settings updated")
	respond(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateCompany merges a partial company section only.
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		badRequest(c, "Invalid company payload")
		return
	}

	settings, err := h.db.UpdateCompany(c.Request.Context(), partial)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "company info updated")
	respond(c, http.StatusOK, gin.H{"company": settings.Company})
}
