package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Divy2003/realstate/db"
	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
	"github.com/Divy2003/realstate/pkg/logger"
	"github.com/Divy2003/realstate/service"
)

type LeadHandler struct {
	db *db.DB
}

func NewLeadHandler(database *db.DB) *LeadHandler {
	return &LeadHandler{db: database}
}

// Submit handles a public contact-form submission.
func (h *LeadHandler) Submit(c *gin.Context) {
	var draft model.Lead
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "Invalid lead payload")
		return
	}
	if draft.Source == "" {
		draft.Source = model.SourceContactForm
	}

	lead, err := h.db.CreateLead(c.Request.Context(), draft)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "lead captured",
		"lead_id", lead.ID, "source", lead.Source)
	respond(c, http.StatusCreated, gin.H{"lead": lead})
}

// BrochureDownload captures a lead for a brochure request and returns the
// brochure URL when the project has one configured.
func (h *LeadHandler) BrochureDownload(c *gin.Context) {
	var draft model.Lead
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "Invalid lead payload")
		return
	}
	draft.Source = model.SourceBrochureDownload

	if draft.ProjectID == "" {
		fail(c, apperr.Validation("lead validation failed",
			map[string]string{"projectId": "projectId is required for brochure downloads"}))
		return
	}

	project, err := h.db.GetProject(c.Request.Context(), draft.ProjectID)
	if err != nil {
		fail(c, err)
		return
	}

	lead, err := h.db.CreateLead(c.Request.Context(), draft)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c.Request.Context(), "brochure lead captured",
		"lead_id", lead.ID, "project_id", project.ID)

	data := gin.H{"lead": lead}
	if project.Brochure != "" {
		data["brochure"] = project.Brochure
	}
	respond(c, http.StatusCreated, data)
}

// List returns one page of leads for the admin console.
func (h *LeadHandler) List(c *gin.Context) {
	filter := db.LeadFilter{
		Status:    c.Query("status"),
		Source:    c.Query("source"),
		ProjectID: c.Query("projectId"),
		Search:    c.Query("search"),
	}
	page, err := h.db.ListLeads(c.Request.Context(), filter,
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"leads": page.Items,
		"pagination": gin.H{
			"page":  page.Page,
			"limit": page.Limit,
			"total": page.Total,
			"pages": page.PageCount,
		},
	})
}

// Get returns a single lead.
func (h *LeadHandler) Get(c *gin.Context) {
	lead, err := h.db.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"lead": lead})
}

// Update merges admin-editable fields into a lead.
func (h *LeadHandler) Update(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid lead payload")
		return
	}

	lead, err := h.db.UpdateLead(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"lead": lead})
}

type leadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus moves a lead along the pipeline.
func (h *LeadHandler) SetStatus(c *gin.Context) {
	var req leadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	lead, err := h.db.SetLeadStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"lead": lead})
}

// AddContact appends an entry to the lead's contact-history log.
func (h *LeadHandler) AddContact(c *gin.Context) {
	var entry model.ContactEntry
	if err := c.ShouldBindJSON(&entry); err != nil || entry.Channel == "" {
		badRequest(c, "channel is required")
		return
	}

	lead, err := h.db.AppendContact(c.Request.Context(), c.Param("id"), entry)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"lead": lead})
}

type leadNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddNote appends a free-text note to the lead.
func (h *LeadHandler) AddNote(c *gin.Context) {
	var req leadNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	lead, err := h.db.AppendNote(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"lead": lead})
}

type followUpRequest struct {
	FollowUpAt *time.Time `json:"followUpAt"`
}

// ScheduleFollowUp sets or clears the follow-up timestamp.
func (h *LeadHandler) ScheduleFollowUp(c *gin.Context) {
	var req followUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid follow-up payload")
		return
	}

	lead, err := h.db.ScheduleFollowUp(c.Request.Context(), c.Param("id"), req.FollowUpAt)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"lead": lead})
}

// Delete removes a lead.
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.db.DeleteLead(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Lead deleted")
}

// Stats returns aggregate lead counts.
func (h *LeadHandler) Stats(c *gin.Context) {
	stats, err := h.db.LeadStatsOverview(c.Request.Context(), db.LeadFilter{
		ProjectID: c.Query("projectId"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"stats": stats})
}

// Export streams the filtered leads as csv (default) or xlsx.
func (h *LeadHandler) Export(c *gin.Context) {
	filter := db.LeadFilter{
		Status:    c.Query("status"),
		Source:    c.Query("source"),
		ProjectID: c.Query("projectId"),
	}
	leads, err := h.db.ExportLeads(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	contentType, filename := service.ExportContentType(format)
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if format == "xlsx" {
		err = service.ExportLeadsXLSX(c.Writer, leads)
	} else {
		err = service.ExportLeadsCSV(c.Writer, leads)
	}
	if err != nil {
		logger.Error(c.Request.Context(), "lead export failed", "error", err)
	}
}
