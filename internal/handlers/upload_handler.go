package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkpal-app/conversation-service/internal/utils"
)

// allowedImageExtensions is the avatar upload whitelist.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadHandler struct {
	BaseHandler
	uploadsDir    string
	publicBaseURL string
}

func NewUploadHandler(uploadsDir, publicBaseURL string, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   NewBaseHandler(logger),
		uploadsDir:    uploadsDir,
		publicBaseURL: publicBaseURL,
	}
}

// UploadAvatar stores an uploaded image under a generated unique name
// and returns its public URL. Non-image extensions are rejected.
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Only images are allowed",
		})
		return
	}

	filename := uuid.New().String() + ext
	dest := filepath.Join(h.uploadsDir, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		h.LogError(c, err, "Failed to store uploaded avatar")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to store uploaded file",
		})
		return
	}

	h.LogRequest(c, "Stored avatar upload", "filename", filename)
	c.JSON(http.StatusOK, gin.H{
		"url": fmt.Sprintf("%s/uploads/%s", h.publicBaseURL, filename),
	})
}
