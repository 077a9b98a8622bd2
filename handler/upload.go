package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Divy2003/realstate/config"
	"github.com/Divy2003/realstate/pkg/logger"
	"github.com/Divy2003/realstate/service"
)

type UploadHandler struct {
	assets *service.AssetService
	cfg    *config.UploadConfig
}

func NewUploadHandler(assets *service.AssetService, cfg *config.UploadConfig) *UploadHandler {
	return &UploadHandler{assets: assets, cfg: cfg}
}

var imageExtTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

func (h *UploadHandler) storeFile(c *gin.Context, header *multipart.FileHeader, prefix string, allowed map[string]string, maxMB int) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowed[ext]
	if !ok {
		return "", fmt.Errorf("file type %s is not allowed", ext)
	}
	if header.Size > int64(maxMB)<<20 {
		return "", fmt.Errorf("file exceeds the %dMB limit", maxMB)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
	if err := h.assets.Upload(c.Request.Context(), objectName, file, header.Size, contentType); err != nil {
		return "", err
	}

	return h.assets.PublicURL(objectName), nil
}

// ProjectImages handles a multi-file gallery upload.
// POST /api/upload/project-images, form field "images"
func (h *UploadHandler) ProjectImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "No files provided")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		badRequest(c, "No files provided")
		return
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		url, err := h.storeFile(c, header, "projects", imageExtTypes, h.cfg.MaxImageSizeMB)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		urls = append(urls, url)
	}

	logger.Info(c.Request.Context(), "project images uploaded", "count", len(urls))
	respond(c, http.StatusOK, gin.H{"urls": urls})
}

// SiteImages handles a single site asset upload (logo, favicon).
// POST /api/upload/site-images, form field "image"
func (h *UploadHandler) SiteImages(c *gin.Context) {
	_, header, err := c.Request.FormFile("image")
	if err != nil {
		badRequest(c, "No file provided")
		return
	}

	url, err := h.storeFile(c, header, "site", imageExtTypes, h.cfg.MaxImageSizeMB)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	respond(c, http.StatusOK, gin.H{"url": url})
}

// FloorPlans handles floor-plan uploads (images or PDF).
// POST /api/upload/floor-plans, form field "plan"
func (h *UploadHandler) FloorPlans(c *gin.Context) {
	_, header, err := c.Request.FormFile("plan")
	if err != nil {
		badRequest(c, "No file provided")
		return
	}

	allowed := map[string]string{".pdf": "application/pdf"}
	for ext, ct := range imageExtTypes {
		allowed[ext] = ct
	}

	url, err := h.storeFile(c, header, "floor-plans", allowed, h.cfg.MaxDocumentSizeMB)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	respond(c, http.StatusOK, gin.H{"url": url})
}

// Serve redirects /uploads/<object> to a presigned object-storage URL.
func (h *UploadHandler) Serve(c *gin.Context) {
	objectName := strings.TrimPrefix(c.Param("object"), "/")
	if objectName == "" || strings.Contains(objectName, "..") {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "asset not found"})
		return
	}

	url, err := h.assets.PresignedURL(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "asset not found"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}
