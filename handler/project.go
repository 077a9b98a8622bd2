package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Divy2003/realstate/db"
	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/logger"
)

type ProjectHandler struct {
	db *db.DB
}

func NewProjectHandler(database *db.DB) *ProjectHandler {
	return &ProjectHandler{db: database}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func projectFilterFromQuery(c *gin.Context) db.ProjectFilter {
	f := db.ProjectFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", "createdAt"),
		SortDir:  c.DefaultQuery("sortOrder", "desc"),
	}
	// featured is tri-state: absent means both
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		f.Featured = &featured
	}
	return f
}

// List returns one page of the catalog.
// GET /api/projects?status=&category=&search=&featured=&page=&limit=&sortBy=&sortOrder=
func (h *ProjectHandler) List(c *gin.Context) {
	page, err := h.db.ListProjects(c.Request.Context(), projectFilterFromQuery(c),
		queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"projects": page.Items,
		"pagination": gin.H{
			"page":  page.Page,
			"limit": page.Limit,
			"total": page.Total,
			"pages": page.PageCount,
		},
	})
}

// Get resolves a single project by id or slug.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.db.GetProject(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"project": project})
}

// Create persists an admin-submitted project draft.
func (h *ProjectHandler) Create(c *gin.Context) {
	var draft model.Project
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "Invalid project payload")
		return
	}

	project, err := h.db.CreateProject(c.Request.Context(), draft)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "project created",
		"project_id", project.ID, "title", project.Title)
	respond(c, http.StatusCreated, gin.H{"project": project})
}

// Update merges a partial draft into an existing project.
func (h *ProjectHandler) Update(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		badRequest(c, "Invalid project payload")
		return
	}

	project, err := h.db.UpdateProject(c.Request.Context(), c.Param("id"), partial)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "project updated", "project_id", project.ID)
	respond(c, http.StatusOK, gin.H{"project": project})
}

// Delete removes a project from the catalog.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.db.DeleteProject(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "project deleted", "project_id", id)
	respondMessage(c, http.StatusOK, "Project deleted")
}

// ToggleFeatured flips the promotional flag.
func (h *ProjectHandler) ToggleFeatured(c *gin.Context) {
	project, err := h.db.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"project": project})
}

// Stats returns aggregate counts for the admin dashboard.
func (h *ProjectHandler) Stats(c *gin.Context) {
	stats, err := h.db.ProjectStatsOverview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"stats": stats})
}
