package upload

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"comichub/internal/auth"
)

type Handler struct {
	Gateway *Gateway
	Auth    *auth.Service
}

func NewHandler(gateway *Gateway, authSvc *auth.Service) *Handler {
	return &Handler{Gateway: gateway, Auth: authSvc}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if !h.Auth.VerifyBearer(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	destPath := c.PostForm("path")
	action := c.PostForm("action")
	if action == "" {
		action = "upload"
	}
	if action != "upload" && action != "delete" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	if action == "delete" {
		if err := h.Gateway.Remove(c.Request.Context(), destPath); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || destPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File and path are required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	// read one byte past the cap so oversized files are caught without
	// buffering arbitrarily much
	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	url, err := h.Gateway.Store(c.Request.Context(), fileHeader.Filename, destPath,
		fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// statusFor keeps validation failures at 400; backend failures surface
// as 500 with the short message only.
func statusFor(err error) int {
	if errors.Is(err, ErrInvalidPath) || errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrBadExtension) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
