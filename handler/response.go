package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Divy2003/realstate/config"
	"github.com/Divy2003/realstate/middleware"
	"github.com/Divy2003/realstate/pkg/apperr"
	"github.com/Divy2003/realstate/pkg/logger"
)

// respond writes the uniform success envelope.
func respond(c *gin.Context, status int, data gin.H) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondMessage writes a success envelope with only a message.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// fail maps an error onto the envelope, surfacing field-level messages for
// validation errors and hiding internal detail in production.
func fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("Internal Server Error", err)
	}

	body := gin.H{"success": false, "message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}

	if appErr.Kind == apperr.KindInternal {
		logger.Error(c.Request.Context(), "request failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		if config.GlobalConfig != nil && config.GlobalConfig.IsProduction() {
			body["message"] = "Internal Server Error"
		}
		body["request_id"] = middleware.GetRequestID(c)
	}

	c.JSON(appErr.HTTPStatus(), body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
